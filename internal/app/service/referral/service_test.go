package referral

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bitforce/ambassador/internal/app/storage/memory"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{PublicURL: "https://bitforce.test/"},
		Referral: config.ReferralConfig{
			SignupBonus: "50.00",
			DefaultTier: "standard",
			CodeLength:  6,
			Tiers: map[string]config.CommissionTier{
				"standard": {Mode: config.CommissionModeFlat, FlatAmount: "4.00"},
				"pro":      {Mode: config.CommissionModePercent, Percent: "20"},
			},
		},
	}
}

func setup(t *testing.T) (*Service, *memory.Store, *models.AmbassadorSubscription) {
	t.Helper()
	store := memory.New()
	a := &models.AmbassadorSubscription{
		ID: "amb-a", UserID: "user-a", Email: "a@example.com", FullName: "A",
		ReferralCode: "ABC123", SubscriptionStatus: types.AmbassadorSubscriptionStatusActive,
	}
	require.NoError(t, store.CreateAmbassador(context.Background(), a))
	return NewService(testConfig(), store, zap.NewNop().Sugar()), store, a
}

func signupB(t *testing.T, s *Service, tier string) *models.AmbassadorSubscription {
	t.Helper()
	b, err := s.Signup(context.Background(), SignupInput{
		UserID: "user-b", Email: "B@Example.com", FullName: "B", ReferredByCode: "abc123", Tier: tier,
	})
	require.NoError(t, err)
	return b
}

func TestSignup_ResolvesReferrer(t *testing.T) {
	s, _, a := setup(t)
	b := signupB(t, s, "")

	require.Equal(t, "b@example.com", b.Email)
	require.Len(t, b.ReferralCode, 6)
	require.NotEqual(t, a.ReferralCode, b.ReferralCode)
	require.Equal(t, "ABC123", *b.ReferredByCode)
	require.Equal(t, a.ID, *b.ReferredByID)
	require.Equal(t, types.AmbassadorSubscriptionStatusInactive, b.SubscriptionStatus)
	require.Equal(t, "standard", b.Tier)
	require.Equal(t, "https://bitforce.test/join?ref="+b.ReferralCode, s.ReferralLink(b))
}

func TestSignup_Rejections(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setup(t)

	_, err := s.Signup(ctx, SignupInput{UserID: "u", Email: "x@example.com", FullName: "X", ReferredByCode: "NOPE99"})
	require.ErrorIs(t, err, ErrUnknownReferralCode)

	_, err = s.Signup(ctx, SignupInput{UserID: "user-a", Email: "other@example.com", FullName: "A again"})
	require.ErrorIs(t, err, ErrAlreadySignedUp)
	require.ErrorIs(t, err, errs.ErrConflict)

	_, err = s.Signup(ctx, SignupInput{UserID: "u", Email: "", FullName: "X"})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestHandleSignupFeePaid_ExactlyOneBonus(t *testing.T) {
	ctx := context.Background()
	s, store, a := setup(t)
	b := signupB(t, s, "")

	for i := 0; i < 3; i++ {
		res, err := s.HandleSignupFeePaid(ctx, SignupFeePaid{AmbassadorID: b.ID, StripeCustomerID: "cus_1"})
		require.NoError(t, err)
		require.Equal(t, i == 0, res.Created)
		require.NotNil(t, res.Bonus)
	}

	bonuses, err := store.ListReferralBonuses(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, bonuses, 1)
	require.Equal(t, a.ID, bonuses[0].AmbassadorID)
	require.Equal(t, b.ID, bonuses[0].ReferredAmbassadorID)
	require.True(t, decimal.RequireFromString("50.00").Equal(bonuses[0].BonusAmount))
	require.Equal(t, types.CommissionStatusPending, bonuses[0].Status)

	got, err := store.GetAmbassador(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, got.SignupFeePaid)
	require.Equal(t, types.AmbassadorSubscriptionStatusActive, got.SubscriptionStatus)
	require.Equal(t, "cus_1", *got.StripeCustomerID)
}

func TestHandleSignupFeePaid_NotReferred(t *testing.T) {
	s, _, a := setup(t)
	res, err := s.HandleSignupFeePaid(context.Background(), SignupFeePaid{AmbassadorID: a.ID})
	require.NoError(t, err)
	require.Nil(t, res.Bonus)
	require.False(t, res.Created)
}

func TestHandleSignupFeePaid_StorageFailure(t *testing.T) {
	ctx := context.Background()
	s, store, a := setup(t)
	b := signupB(t, s, "")

	store.FailOn("CreateReferralBonus", errors.New("insert failed"))
	_, err := s.HandleSignupFeePaid(ctx, SignupFeePaid{AmbassadorID: b.ID})
	require.Error(t, err)
	store.FailOn("CreateReferralBonus", nil)

	got, err := store.GetAmbassador(ctx, b.ID)
	require.NoError(t, err)
	require.False(t, got.SignupFeePaid)
	bonuses, err := store.ListReferralBonuses(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, bonuses)
}

func TestHandleRecurringCharge_OnePerMonth(t *testing.T) {
	ctx := context.Background()
	s, store, a := setup(t)
	b := signupB(t, s, "")

	charge := decimal.RequireFromString("20.00")
	for _, month := range []string{"2025-01", "2025-01", "2025-02"} {
		_, err := s.HandleRecurringCharge(ctx, b.ID, month, charge)
		require.NoError(t, err)
	}
	overrides, err := store.ListRecurringOverrides(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, overrides, 2)
	require.Equal(t, "2025-01", overrides[0].Month)
	require.True(t, decimal.RequireFromString("4.00").Equal(overrides[0].MonthlyAmount))

	got, err := store.GetAmbassador(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, got.FirstMonthCompleted)

	_, err = s.HandleRecurringCharge(ctx, b.ID, "January", charge)
	require.ErrorIs(t, err, ErrInvalidMonth)
}

func TestHandleRecurringCharge_PercentTier(t *testing.T) {
	s, _, _ := setup(t)
	b := signupB(t, s, "pro")

	res, err := s.HandleRecurringCharge(context.Background(), b.ID, "2025-03", decimal.RequireFromString("19.99"))
	require.NoError(t, err)
	require.True(t, res.Created)
	require.Equal(t, "4", res.Override.MonthlyAmount.StringFixed(0))
	require.Equal(t, "4.00", res.Override.MonthlyAmount.StringFixed(2))
	require.Equal(t, "pro", res.Override.Tier)
}

func TestCommissionFor(t *testing.T) {
	flat, err := CommissionFor(config.CommissionTier{Mode: config.CommissionModeFlat, FlatAmount: "4.00"}, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Equal(t, "4", flat.String())

	pct, err := CommissionFor(config.CommissionTier{Mode: config.CommissionModePercent, Percent: "20"}, decimal.RequireFromString("49.99"))
	require.NoError(t, err)
	require.Equal(t, "10", pct.String())

	_, err = CommissionFor(config.CommissionTier{Mode: "weird"}, decimal.Zero)
	require.Error(t, err)
}

func TestMarkPaidAndEarnings(t *testing.T) {
	ctx := context.Background()
	s, _, a := setup(t)
	b := signupB(t, s, "")

	fee, err := s.HandleSignupFeePaid(ctx, SignupFeePaid{AmbassadorID: b.ID})
	require.NoError(t, err)
	_, err = s.HandleRecurringCharge(ctx, b.ID, "2025-01", decimal.NewFromInt(20))
	require.NoError(t, err)

	paid, err := s.MarkBonusPaid(ctx, fee.Bonus.ID)
	require.NoError(t, err)
	require.Equal(t, types.CommissionStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	again, err := s.MarkBonusPaid(ctx, fee.Bonus.ID)
	require.NoError(t, err)
	require.Equal(t, paid.PaidAt.Unix(), again.PaidAt.Unix())

	_, err = s.MarkOverridePaid(ctx, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)

	e, err := s.GetEarnings(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, 1, e.ReferredCount)
	require.Equal(t, "50", e.PaidTotal.String())
	require.Equal(t, "4", e.PendingTotal.String())
}

func TestUpdateSubscriptionStatus(t *testing.T) {
	ctx := context.Background()
	s, _, a := setup(t)

	got, err := s.UpdateSubscriptionStatus(ctx, a.ID, types.AmbassadorSubscriptionStatusCanceled)
	require.NoError(t, err)
	require.Equal(t, types.AmbassadorSubscriptionStatusCanceled, got.SubscriptionStatus)

	_, err = s.UpdateSubscriptionStatus(ctx, a.ID, "deleted")
	require.ErrorIs(t, err, ErrInvalidStatus)
}
