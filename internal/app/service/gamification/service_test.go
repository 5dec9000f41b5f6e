package gamification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/app/storage/memory"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/types"
)

func newTestService(t *testing.T, rewards RewardPoster) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewService(&config.Config{}, store, zap.NewNop().Sugar(), rewards, nil), store
}

func requireReconciled(t *testing.T, store *memory.Store, userID string) {
	t.Helper()
	ctx := context.Background()
	p, err := store.GetPoints(ctx, userID)
	require.NoError(t, err)
	sum, err := store.SumActionPoints(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, sum, p.TotalPoints)
	require.Equal(t, LevelFor(p.TotalPoints), p.Level)
}

func TestAwardPoints_TotalsMatchActionLog(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t, nil)

	sequence := []types.ActionType{
		types.ActionTypeSuggestService, types.ActionTypeContactLead, types.ActionTypeLeadInterested,
		types.ActionTypeMakeSale, types.ActionTypeGenerateDesign, types.ActionTypeLeadDeclined,
		types.ActionTypeMakeSale, types.ActionTypeSuggestService,
	}
	var want int64
	for _, at := range sequence {
		res, err := s.AwardPoints(ctx, "u1", at, AwardContext{})
		require.NoError(t, err)
		want += PointValues[at]
		require.Equal(t, want, res.TotalPoints)
		require.Equal(t, LevelFor(want), res.Level)
	}
	requireReconciled(t, store, "u1")

	actions, err := store.ListActions(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, actions, len(sequence))
}

func TestAwardPoints_LevelUpAndBadges(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, nil)

	first, err := s.AwardPoints(ctx, "u1", types.ActionTypeMakeSale, AwardContext{LeadID: "lead-1"})
	require.NoError(t, err)
	require.False(t, first.LeveledUp)
	require.Equal(t, []types.BadgeType{types.BadgeTypeFirstSale}, first.NewBadges)
	require.NotNil(t, first.Action.LeadID)
	require.Equal(t, "lead-1", *first.Action.LeadID)

	second, err := s.AwardPoints(ctx, "u1", types.ActionTypeMakeSale, AwardContext{})
	require.NoError(t, err)
	require.True(t, second.LeveledUp)
	require.Equal(t, 1, second.PreviousLevel)
	require.Equal(t, 2, second.Level)
	require.Empty(t, second.NewBadges)

	badges, err := s.ListBadges(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, badges, 1)
}

func TestAwardPoints_SalesAndLevelBadges(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, nil)

	var earned []types.BadgeType
	for i := 0; i < 20; i++ {
		res, err := s.AwardPoints(ctx, "u1", types.ActionTypeMakeSale, AwardContext{})
		require.NoError(t, err)
		earned = append(earned, res.NewBadges...)
	}
	// 20 sales = 1000 points = level 5
	require.ElementsMatch(t, []types.BadgeType{types.BadgeTypeFirstSale, types.BadgeTypeSales10, types.BadgeTypeLevel5}, earned)
}

func TestAwardPoints_Validation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, nil)

	_, err := s.AwardPoints(ctx, "u1", types.ActionType("DANCE"), AwardContext{})
	require.ErrorIs(t, err, ErrUnknownAction)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = s.AwardPoints(ctx, "u1", types.ActionTypeAdminAdjustment, AwardContext{})
	require.ErrorIs(t, err, ErrUnknownAction)

	_, err = s.AwardPoints(ctx, "", types.ActionTypeMakeSale, AwardContext{})
	require.ErrorIs(t, err, ErrInvalidUser)
}

func TestAwardPoints_StorageFailureAppliesNothing(t *testing.T) {
	for _, method := range []string{"CreateAction", "UpdatePoints", "CreateBadgeIfAbsent", "CountActions"} {
		t.Run(method, func(t *testing.T) {
			ctx := context.Background()
			s, store := newTestService(t, nil)
			_, err := s.AwardPoints(ctx, "u1", types.ActionTypeContactLead, AwardContext{})
			require.NoError(t, err)

			store.FailOn(method, errors.New("storage down"))
			_, err = s.AwardPoints(ctx, "u1", types.ActionTypeMakeSale, AwardContext{})
			require.Error(t, err)
			store.FailOn(method, nil)

			p, err := store.GetPoints(ctx, "u1")
			require.NoError(t, err)
			require.Equal(t, int64(10), p.TotalPoints)
			actions, err := store.ListActions(ctx, "u1", 0)
			require.NoError(t, err)
			require.Len(t, actions, 1)
			badges, err := store.ListBadges(ctx, "u1")
			require.NoError(t, err)
			require.Empty(t, badges)
		})
	}
}

func TestAwardPoints_ConcurrentAwardsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AwardPoints(ctx, "u1", types.ActionTypeContactLead, AwardContext{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := store.GetPoints(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(400), p.TotalPoints)
	require.Equal(t, 3, p.Level)
	requireReconciled(t, store, "u1")
}

type fakeRewards struct {
	calls []types.ActionType
	err   error
}

func (f *fakeRewards) PostActionReward(_ context.Context, _ storage.Store, userID string, actionType types.ActionType, reference string) (*models.BFTTransaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, actionType)
	return &models.BFTTransaction{AmbassadorID: userID, Reference: reference}, nil
}

func TestAwardPoints_PostsReward(t *testing.T) {
	ctx := context.Background()
	rewards := &fakeRewards{}
	s, _ := newTestService(t, rewards)

	res, err := s.AwardPoints(ctx, "u1", types.ActionTypeMakeSale, AwardContext{})
	require.NoError(t, err)
	require.NotNil(t, res.BFTReward)
	require.Equal(t, res.Action.ID, res.BFTReward.Reference)
	require.Equal(t, []types.ActionType{types.ActionTypeMakeSale}, rewards.calls)

	_, err = s.AdjustPoints(ctx, "u1", 10, "fix", "admin-1")
	require.NoError(t, err)
	require.Len(t, rewards.calls, 1)
}

func TestAwardPoints_RewardFailureRollsBackAward(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t, &fakeRewards{err: errors.New("ledger locked")})

	_, err := s.AwardPoints(ctx, "u1", types.ActionTypeMakeSale, AwardContext{})
	require.Error(t, err)

	_, err = store.GetPoints(ctx, "u1")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRecordDailyActivity_ConsecutiveDaysAndGap(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t, nil)
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		res, err := s.RecordDailyActivity(ctx, "u1", start.AddDate(0, 0, i))
		require.NoError(t, err)
		require.True(t, res.Changed)
	}
	p, err := store.GetPoints(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 3, p.CurrentStreak)
	require.Equal(t, 3, p.LongestStreak)
	require.Equal(t, int64(6), p.TotalPoints)

	// 4-day gap
	res, err := s.RecordDailyActivity(ctx, "u1", start.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Equal(t, 1, res.Points.CurrentStreak)
	require.Equal(t, 3, res.Points.LongestStreak)
	requireReconciled(t, store, "u1")
}

func TestRecordDailyActivity_SameDayIsNoop(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t, nil)
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	_, err := s.RecordDailyActivity(ctx, "u1", at)
	require.NoError(t, err)
	res, err := s.RecordDailyActivity(ctx, "u1", at.Add(10*time.Hour))
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Empty(t, res.Awards)

	// earlier day is ignored as well
	res, err = s.RecordDailyActivity(ctx, "u1", at.AddDate(0, 0, -2))
	require.NoError(t, err)
	require.False(t, res.Changed)

	actions, err := store.ListActions(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, actions, 1)
}

func TestRecordDailyActivity_StreakBonusOncePerEpoch(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t, nil)
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	var bonuses int
	var badges []types.BadgeType
	for i := 0; i < 8; i++ {
		res, err := s.RecordDailyActivity(ctx, "u1", start.AddDate(0, 0, i))
		require.NoError(t, err)
		for _, a := range res.Awards {
			if a.Action.ActionType == types.ActionTypeStreakBonus7 {
				bonuses++
			}
			badges = append(badges, a.NewBadges...)
		}
	}
	require.Equal(t, 1, bonuses)
	require.Equal(t, []types.BadgeType{types.BadgeTypeStreak7}, badges)

	p, err := store.GetPoints(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(8*2+25), p.TotalPoints)

	// a broken streak earns the bonus again when it next reaches 7
	restart := start.AddDate(0, 0, 20)
	for i := 0; i < 7; i++ {
		_, err := s.RecordDailyActivity(ctx, "u1", restart.AddDate(0, 0, i))
		require.NoError(t, err)
	}
	n, err := store.CountActions(ctx, "u1", types.ActionTypeStreakBonus7)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	requireReconciled(t, store, "u1")
}

func TestRecordDailyActivity_UsesConfiguredTimezone(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cfg := &config.Config{Gamification: config.GamificationConfig{Timezone: "America/New_York"}}
	s := NewService(cfg, store, zap.NewNop().Sugar(), nil, nil)

	// 03:00 UTC on the 2nd is still the 1st in New York
	res, err := s.RecordDailyActivity(ctx, "u1", time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "2025-06-01", res.Points.LastActivityDate)
}

func TestAdjustPoints(t *testing.T) {
	ctx := context.Background()
	s, store := newTestService(t, nil)

	_, err := s.AwardPoints(ctx, "u1", types.ActionTypeMakeSale, AwardContext{})
	require.NoError(t, err)

	res, err := s.AdjustPoints(ctx, "u1", -80, "duplicate sale", "admin-1")
	require.NoError(t, err)
	require.Equal(t, int64(-30), res.TotalPoints)
	require.Equal(t, 1, res.Level)
	require.Equal(t, types.ActionTypeAdminAdjustment, res.Action.ActionType)
	requireReconciled(t, store, "u1")

	_, err = s.AdjustPoints(ctx, "u1", 0, "noop", "admin-1")
	require.ErrorIs(t, err, ErrZeroAdjust)
}

func TestGetProgress(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, nil)

	empty, err := s.GetProgress(ctx, "nobody")
	require.NoError(t, err)
	require.Equal(t, 1, empty.Points.Level)
	require.Equal(t, int64(100), *empty.NextLevelAt)
	require.Equal(t, int64(100), empty.PointsToNext)

	_, err = s.AwardPoints(ctx, "u1", types.ActionTypeMakeSale, AwardContext{})
	require.NoError(t, err)
	p, err := s.GetProgress(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(50), p.PointsToNext)
	require.Len(t, p.Badges, 1)
}
