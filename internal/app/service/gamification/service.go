package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/logctx"
	"github.com/bitforce/ambassador/pkg/metrics"
	"github.com/bitforce/ambassador/pkg/tool"
	"github.com/bitforce/ambassador/pkg/types"
)

// RewardPoster posts the BFT reward configured for an action inside the
// award's transaction. It returns nil when no reward applies.
type RewardPoster interface {
	PostActionReward(ctx context.Context, tx storage.Store, userID string, actionType types.ActionType, reference string) (*models.BFTTransaction, error)
}

type Service struct {
	store   storage.Store
	log     *zap.SugaredLogger
	loc     *time.Location
	rewards RewardPoster
	metrics *metrics.Ledger
	now     func() time.Time
}

func NewService(cfg *config.Config, store storage.Store, log *zap.SugaredLogger, rewards RewardPoster, m *metrics.Ledger) *Service {
	return &Service{
		store:   store,
		log:     log,
		loc:     cfg.Gamification.Location(),
		rewards: rewards,
		metrics: m,
		now:     time.Now,
	}
}

// AwardContext links an award to the lead activity that caused it.
type AwardContext struct {
	LeadID        string
	LeadServiceID string
	Description   string
}

type AwardResult struct {
	Action        *models.AmbassadorAction `json:"action"`
	PointsAwarded int64                    `json:"points_awarded"`
	TotalPoints   int64                    `json:"total_points"`
	Level         int                      `json:"level"`
	PreviousLevel int                      `json:"previous_level"`
	LeveledUp     bool                     `json:"leveled_up"`
	NewBadges     []types.BadgeType        `json:"new_badges"`
	BFTReward     *models.BFTTransaction   `json:"bft_reward,omitempty"`
}

// AwardPoints appends the action, raises the user's total, recomputes the
// level and issues badges as one transaction.
func (s *Service) AwardPoints(ctx context.Context, userID string, actionType types.ActionType, actx AwardContext) (*AwardResult, error) {
	var res *AwardResult
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		var err error
		res, err = s.AwardWithin(ctx, tx, userID, actionType, actx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Observe(ctx, userID, res)
	return res, nil
}

// AwardWithin is AwardPoints for callers that already hold a transaction.
// The caller commits; nothing is logged or counted until then.
func (s *Service) AwardWithin(ctx context.Context, tx storage.Store, userID string, actionType types.ActionType, actx AwardContext) (*AwardResult, error) {
	points, ok := PointValues[actionType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, actionType)
	}
	return s.award(ctx, tx, userID, actionType, points, actx)
}

func (s *Service) award(ctx context.Context, tx storage.Store, userID string, actionType types.ActionType, points int64, actx AwardContext) (*AwardResult, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	now := s.now()

	if err := tx.EnsurePoints(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure points row: %w", err)
	}
	p, err := tx.GetPointsForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock points row: %w", err)
	}

	action := &models.AmbassadorAction{
		ID:            tool.GenerateUUIDV7(),
		UserID:        userID,
		ActionType:    actionType,
		PointsAwarded: points,
		Description:   actx.Description,
		CreatedAt:     now,
	}
	if actx.LeadID != "" {
		action.LeadID = &actx.LeadID
	}
	if actx.LeadServiceID != "" {
		action.LeadServiceID = &actx.LeadServiceID
	}
	if err := tx.CreateAction(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to append action: %w", err)
	}

	previous := p.Level
	p.TotalPoints += points
	p.Level = LevelFor(p.TotalPoints)
	if err := tx.UpdatePoints(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update points: %w", err)
	}

	badges, err := evaluateBadges(ctx, tx, p, actionType, now)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate badges: %w", err)
	}

	res := &AwardResult{
		Action:        action,
		PointsAwarded: points,
		TotalPoints:   p.TotalPoints,
		Level:         p.Level,
		PreviousLevel: previous,
		LeveledUp:     p.Level > previous,
		NewBadges:     badges,
	}

	if s.rewards != nil && actionType != types.ActionTypeAdminAdjustment {
		reward, err := s.rewards.PostActionReward(ctx, tx, userID, actionType, action.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to post bft reward: %w", err)
		}
		res.BFTReward = reward
	}
	return res, nil
}

// Observe logs and counts an award. Callers of AwardWithin invoke it once
// their transaction has committed.
func (s *Service) Observe(ctx context.Context, userID string, res *AwardResult) {
	if res == nil {
		return
	}
	s.metrics.PointsAwarded(string(res.Action.ActionType), res.PointsAwarded)
	logctx.FromCtx(ctx, s.log).Infow("points_awarded",
		"user_id", userID,
		"action_type", res.Action.ActionType,
		"points", res.PointsAwarded,
		"total", res.TotalPoints,
		"level", res.Level,
		"leveled_up", res.LeveledUp,
		"new_badges", res.NewBadges,
	)
}

type ActivityResult struct {
	Points *models.AmbassadorPoints `json:"points"`
	// Changed is false when the day had already been recorded.
	Changed bool           `json:"changed"`
	Awards  []*AwardResult `json:"awards"`
}

// RecordDailyActivity advances the user's streak for the calendar day of
// activityAt and awards DAILY_LOGIN, plus a streak bonus on reaching 7 or 30
// consecutive days.
func (s *Service) RecordDailyActivity(ctx context.Context, userID string, activityAt time.Time) (*ActivityResult, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	day := activityAt.In(s.loc)

	res := &ActivityResult{}
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		res.Awards = nil
		if err := tx.EnsurePoints(ctx, userID); err != nil {
			return fmt.Errorf("failed to ensure points row: %w", err)
		}
		p, err := tx.GetPointsForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to lock points row: %w", err)
		}
		step, err := nextStreak(p.LastActivityDate, p.CurrentStreak, p.LongestStreak, day)
		if err != nil {
			return err
		}
		res.Changed = step.changed
		if !step.changed {
			res.Points = p
			return nil
		}

		p.CurrentStreak, p.LongestStreak, p.LastActivityDate = step.current, step.longest, step.day
		if err := tx.UpdatePoints(ctx, p); err != nil {
			return fmt.Errorf("failed to update streak: %w", err)
		}

		toAward := []types.ActionType{types.ActionTypeDailyLogin}
		switch step.current {
		case 7:
			toAward = append(toAward, types.ActionTypeStreakBonus7)
		case 30:
			toAward = append(toAward, types.ActionTypeStreakBonus30)
		}
		for _, at := range toAward {
			award, err := s.AwardWithin(ctx, tx, userID, at, AwardContext{Description: "streak day " + step.day})
			if err != nil {
				return err
			}
			res.Awards = append(res.Awards, award)
		}

		res.Points, err = tx.GetPoints(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, a := range res.Awards {
		s.Observe(ctx, userID, a)
	}
	if res.Changed {
		logctx.FromCtx(ctx, s.log).Infow("daily_activity_recorded",
			"user_id", userID, "day", res.Points.LastActivityDate, "streak", res.Points.CurrentStreak)
	}
	return res, nil
}

// AdjustPoints applies a signed operator correction, recorded in the action
// log like any other award so the totals still reconcile.
func (s *Service) AdjustPoints(ctx context.Context, userID string, delta int64, reason, operatorID string) (*AwardResult, error) {
	if delta == 0 {
		return nil, ErrZeroAdjust
	}
	var res *AwardResult
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		var err error
		res, err = s.award(ctx, tx, userID, types.ActionTypeAdminAdjustment, delta, AwardContext{
			Description: fmt.Sprintf("adjusted by %s: %s", operatorID, reason),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("points_adjusted", "user_id", userID, "delta", delta, "operator", operatorID)
	s.Observe(ctx, userID, res)
	return res, nil
}

type Progress struct {
	Points *models.AmbassadorPoints `json:"points"`
	// NextLevelAt is nil at the top level.
	NextLevelAt  *int64                    `json:"next_level_at"`
	PointsToNext int64                     `json:"points_to_next"`
	Badges       []*models.AmbassadorBadge `json:"badges"`
}

// GetProgress returns the user's points state. Users without any award yet
// report the zero state at level 1.
func (s *Service) GetProgress(ctx context.Context, userID string) (*Progress, error) {
	p, err := s.store.GetPoints(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		p = &models.AmbassadorPoints{UserID: userID, Level: 1}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get points: %w", err)
	}
	badges, err := s.store.ListBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	out := &Progress{Points: p, Badges: badges}
	if next, ok := NextThreshold(p.Level); ok {
		out.NextLevelAt = &next
		out.PointsToNext = max(next-p.TotalPoints, 0)
	}
	return out, nil
}

func (s *Service) ListActions(ctx context.Context, userID string, limit int) ([]*models.AmbassadorAction, error) {
	return s.store.ListActions(ctx, userID, limit)
}

func (s *Service) ListBadges(ctx context.Context, userID string) ([]*models.AmbassadorBadge, error) {
	return s.store.ListBadges(ctx, userID)
}
