// Package statistics serves the admin dashboard's daily program statistics.
package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/fx"

	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/pkg/errs"
)

type StatisticType string

const (
	StatisticTypeDailySignupCount       StatisticType = "daily_signup_count"
	StatisticTypeDailyPointsAwarded     StatisticType = "daily_points_awarded"
	StatisticTypeDailyBFTPosted         StatisticType = "daily_bft_posted"
	StatisticTypeDailyLeadServiceStatus StatisticType = "daily_lead_service_status"
)

const (
	defaultDays = 30
	maxDays     = 366
)

var ErrInvalidStatistic = fmt.Errorf("%w: invalid statistic", errs.ErrValidation)

type StatisticDataItem struct {
	ID StatisticType `json:"id" binding:"required"`
}

type StatisticRequest struct {
	// Days counts back from today, inclusive. Zero means 30.
	Days      int                  `json:"days"`
	DataItems []*StatisticDataItem `json:"data_items" binding:"required"`
}

type StatisticResponse struct {
	Since     string                                 `json:"since"`
	DataItems map[StatisticType][]storage.DailyValue `json:"data_items"`
}

type Service struct {
	store storage.StatisticsStore
	now   func() time.Time
}

func NewService(store storage.Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) getStatistic(ctx context.Context, id StatisticType, since time.Time) ([]storage.DailyValue, error) {
	switch id {
	case StatisticTypeDailySignupCount:
		return s.store.DailySignups(ctx, since)
	case StatisticTypeDailyPointsAwarded:
		return s.store.DailyPointsAwarded(ctx, since)
	case StatisticTypeDailyBFTPosted:
		return s.store.DailyBFTPosted(ctx, since)
	case StatisticTypeDailyLeadServiceStatus:
		return s.store.DailyLeadServiceStatus(ctx, since)
	default:
		return nil, fmt.Errorf("%w: data item id %s", ErrInvalidStatistic, id)
	}
}

// GetDailyStatistic computes every requested data item concurrently.
func (s *Service) GetDailyStatistic(ctx context.Context, request *StatisticRequest) (*StatisticResponse, error) {
	if request == nil || len(request.DataItems) == 0 {
		return nil, fmt.Errorf("%w: no data items", ErrInvalidStatistic)
	}
	days := request.Days
	if days <= 0 {
		days = defaultDays
	}
	if days > maxDays {
		return nil, fmt.Errorf("%w: days must be at most %d", ErrInvalidStatistic, maxDays)
	}
	for _, item := range request.DataItems {
		if item == nil {
			return nil, fmt.Errorf("%w: empty data item", ErrInvalidStatistic)
		}
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, 1-days)

	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []storage.DailyValue], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *StatisticDataItem) {
			defer wg.Done()
			res, err := s.getStatistic(ctx, di.ID, since)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []storage.DailyValue]{Key: di.ID, Value: res}
		}(item)
	}
	wg.Wait()
	close(errChan)
	close(resChan)

	if err, ok := <-errChan; ok {
		return nil, err
	}
	results := make(map[StatisticType][]storage.DailyValue, len(request.DataItems))
	for entry := range resChan {
		results[entry.Key] = entry.Value
	}
	return &StatisticResponse{Since: since.Format(time.DateOnly), DataItems: results}, nil
}

var Module = fx.Options(
	fx.Provide(NewService),
)
