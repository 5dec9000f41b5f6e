package statistics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bitforce/ambassador/internal/app/storage/memory"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/types"
)

func TestGetDailyStatistic(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	day1 := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, at := range []time.Time{day1, day2, day2, old} {
		require.NoError(t, store.CreateAmbassador(ctx, &models.AmbassadorSubscription{
			UserID: string(rune('a' + i)), Email: string(rune('a'+i)) + "@example.com",
			ReferralCode: string(rune('A' + i)), CreatedAt: at,
		}))
	}
	for _, a := range []struct {
		at     time.Time
		points int64
	}{{day1, 5}, {day1, 10}, {day2, 50}} {
		require.NoError(t, store.CreateAction(ctx, &models.AmbassadorAction{
			UserID: "a", ActionType: types.ActionTypeSuggestService, PointsAwarded: a.points, CreatedAt: a.at,
		}))
	}
	for i, b := range []struct {
		typ    types.BFTTransactionType
		amount string
	}{{types.BFTTransactionTypeLeadSale, "10"}, {types.BFTTransactionTypeLeadSale, "2.5"}, {types.BFTTransactionTypeReferralBonus, "50"}} {
		require.NoError(t, store.CreateBFTTransaction(ctx, &models.BFTTransaction{
			AmbassadorID: "amb", Sequence: int64(i + 1), TransactionType: b.typ, Amount: decimal.RequireFromString(b.amount), CreatedAt: day2,
		}))
	}

	s := NewService(store)
	s.now = func() time.Time { return day2 }
	res, err := s.GetDailyStatistic(ctx, &StatisticRequest{Days: 7, DataItems: []*StatisticDataItem{
		{ID: StatisticTypeDailySignupCount},
		{ID: StatisticTypeDailyPointsAwarded},
		{ID: StatisticTypeDailyBFTPosted},
	}})
	require.NoError(t, err)
	require.Equal(t, "2025-03-04", res.Since)

	signups := res.DataItems[StatisticTypeDailySignupCount]
	require.Len(t, signups, 2)
	require.Equal(t, "2025-03-09", signups[0].Date)
	require.Equal(t, "1", signups[0].Value.String())
	require.Equal(t, "2", signups[1].Value.String())

	points := res.DataItems[StatisticTypeDailyPointsAwarded]
	require.Len(t, points, 2)
	require.Equal(t, "15", points[0].Value.String())

	bft := res.DataItems[StatisticTypeDailyBFTPosted]
	require.Len(t, bft, 2)
	require.Equal(t, string(types.BFTTransactionTypeLeadSale), bft[0].Label)
	require.Equal(t, "12.5", bft[0].Value.String())
	require.Equal(t, "50", bft[1].Value.String())
}

func TestGetDailyStatistic_Invalid(t *testing.T) {
	s := NewService(memory.New())
	ctx := context.Background()

	_, err := s.GetDailyStatistic(ctx, &StatisticRequest{})
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = s.GetDailyStatistic(ctx, &StatisticRequest{DataItems: []*StatisticDataItem{{ID: "gmv"}}})
	require.ErrorIs(t, err, ErrInvalidStatistic)

	_, err = s.GetDailyStatistic(ctx, &StatisticRequest{Days: 1000, DataItems: []*StatisticDataItem{{ID: StatisticTypeDailySignupCount}}})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestGetDailyStatistic_StorageError(t *testing.T) {
	store := memory.New()
	store.FailOn("DailyPointsAwarded", errors.New("boom"))
	_, err := NewService(store).GetDailyStatistic(context.Background(), &StatisticRequest{DataItems: []*StatisticDataItem{
		{ID: StatisticTypeDailySignupCount},
		{ID: StatisticTypeDailyPointsAwarded},
	}})
	require.ErrorContains(t, err, "boom")
}
