package referral

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/logctx"
	"github.com/bitforce/ambassador/pkg/tool"
	"github.com/bitforce/ambassador/pkg/types"
)

var (
	ErrAlreadySignedUp     = fmt.Errorf("%w: ambassador already signed up", errs.ErrConflict)
	ErrUnknownReferralCode = fmt.Errorf("%w: unknown referral code", errs.ErrValidation)
	ErrInvalidMonth        = fmt.Errorf("%w: month must be YYYY-MM", errs.ErrValidation)
	ErrInvalidStatus       = fmt.Errorf("%w: unknown subscription status", errs.ErrValidation)
)

const codeAttempts = 8

type Service struct {
	cfg   *config.Config
	store storage.Store
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewService(cfg *config.Config, store storage.Store, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, store: store, log: log, now: time.Now}
}

type SignupInput struct {
	UserID         string `json:"-"`
	Email          string `json:"email" binding:"required,email"`
	FullName       string `json:"full_name" binding:"required"`
	ReferredByCode string `json:"referred_by_code"`
	Tier           string `json:"tier"`
}

// Signup creates the ambassador with a fresh referral code. A referral code
// is resolved to its owner here, so the stored link never changes later.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.AmbassadorSubscription, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.ReferredByCode = strings.ToUpper(strings.TrimSpace(in.ReferredByCode))
	if in.UserID == "" || in.Email == "" || strings.TrimSpace(in.FullName) == "" {
		return nil, fmt.Errorf("%w: user id, email and full name are required", errs.ErrValidation)
	}

	tierName, _ := s.cfg.Referral.Tier(in.Tier)
	amb := &models.AmbassadorSubscription{
		ID:                 tool.GenerateUUIDV7(),
		UserID:             in.UserID,
		Email:              in.Email,
		FullName:           strings.TrimSpace(in.FullName),
		SubscriptionStatus: types.AmbassadorSubscriptionStatusInactive,
		Tier:               tierName,
		BFTBalance:         decimal.Zero,
	}

	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		if _, err := tx.GetAmbassadorByUserID(ctx, in.UserID); err == nil {
			return ErrAlreadySignedUp
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if _, err := tx.GetAmbassadorByEmail(ctx, in.Email); err == nil {
			return fmt.Errorf("%w: email %s", ErrAlreadySignedUp, in.Email)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		if in.ReferredByCode != "" {
			referrer, err := tx.GetAmbassadorByReferralCode(ctx, in.ReferredByCode)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownReferralCode, in.ReferredByCode)
			}
			if err != nil {
				return err
			}
			amb.ReferredByCode = &in.ReferredByCode
			amb.ReferredByID = &referrer.ID
		}

		code, err := s.uniqueCode(ctx, tx)
		if err != nil {
			return err
		}
		amb.ReferralCode = code
		return tx.CreateAmbassador(ctx, amb)
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("ambassador_signed_up",
		"ambassador_id", amb.ID, "referral_code", amb.ReferralCode, "referred_by", in.ReferredByCode)
	return amb, nil
}

func (s *Service) uniqueCode(ctx context.Context, tx storage.Store) (string, error) {
	n := s.cfg.Referral.CodeLength
	if n <= 0 {
		n = 8
	}
	for i := 0; i < codeAttempts; i++ {
		code, err := tool.GenerateReferralCode(n)
		if err != nil {
			return "", err
		}
		_, err = tx.GetAmbassadorByReferralCode(ctx, code)
		if errors.Is(err, storage.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not allocate a unique referral code after %d attempts", codeAttempts)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*models.AmbassadorSubscription, error) {
	return s.store.GetAmbassadorByUserID(ctx, userID)
}

// ReferralLink is the public signup URL carrying the ambassador's code.
func (s *Service) ReferralLink(a *models.AmbassadorSubscription) string {
	return strings.TrimRight(s.cfg.App.PublicURL, "/") + "/join?ref=" + a.ReferralCode
}

type SignupFeePaid struct {
	AmbassadorID         string
	StripeCustomerID     string
	StripeSubscriptionID string
}

type SignupFeeResult struct {
	Ambassador *models.AmbassadorSubscription `json:"ambassador"`
	// Bonus is nil when the ambassador was not referred.
	Bonus   *models.ReferralBonus `json:"bonus"`
	Created bool                  `json:"created"`
}

// HandleSignupFeePaid activates the ambassador and accrues the referrer's
// one-time bonus. Repeated events return the existing bonus.
func (s *Service) HandleSignupFeePaid(ctx context.Context, in SignupFeePaid) (*SignupFeeResult, error) {
	res := &SignupFeeResult{}
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		*res = SignupFeeResult{}
		amb, err := tx.GetAmbassadorForUpdate(ctx, in.AmbassadorID)
		if err != nil {
			return fmt.Errorf("failed to lock ambassador %s: %w", in.AmbassadorID, err)
		}
		amb.SignupFeePaid = true
		if amb.SubscriptionStatus == types.AmbassadorSubscriptionStatusInactive || amb.SubscriptionStatus == "" {
			amb.SubscriptionStatus = types.AmbassadorSubscriptionStatusActive
		}
		if in.StripeCustomerID != "" {
			amb.StripeCustomerID = &in.StripeCustomerID
		}
		if in.StripeSubscriptionID != "" {
			amb.StripeSubscriptionID = &in.StripeSubscriptionID
		}
		if err := tx.UpdateAmbassador(ctx, amb); err != nil {
			return err
		}
		res.Ambassador = amb
		if amb.ReferredByID == nil {
			return nil
		}

		existing, err := tx.GetReferralBonus(ctx, *amb.ReferredByID, amb.ID)
		if err == nil {
			res.Bonus = existing
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if _, err := tx.GetAmbassador(ctx, *amb.ReferredByID); err != nil {
			return fmt.Errorf("failed to resolve referrer: %w", err)
		}
		bonus := &models.ReferralBonus{
			ID:                   tool.GenerateUUIDV7(),
			AmbassadorID:         *amb.ReferredByID,
			ReferredAmbassadorID: amb.ID,
			BonusAmount:          s.cfg.Referral.SignupBonusAmount(),
			Status:               types.CommissionStatusPending,
		}
		if err := tx.CreateReferralBonus(ctx, bonus); err != nil {
			return err
		}
		res.Bonus, res.Created = bonus, true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Created {
		logctx.FromCtx(ctx, s.log).Infow("referral_bonus_accrued",
			"ambassador_id", res.Bonus.AmbassadorID,
			"referred_ambassador_id", res.Bonus.ReferredAmbassadorID,
			"amount", res.Bonus.BonusAmount.String())
	}
	return res, nil
}

type RecurringChargeResult struct {
	Ambassador *models.AmbassadorSubscription `json:"ambassador"`
	Override   *models.RecurringOverride      `json:"override"`
	Created    bool                           `json:"created"`
}

// HandleRecurringCharge accrues the referrer's override for one billing month
// of the referred ambassador. month is "YYYY-MM".
func (s *Service) HandleRecurringCharge(ctx context.Context, referredAmbassadorID, month string, charge decimal.Decimal) (*RecurringChargeResult, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	if charge.IsNegative() {
		return nil, fmt.Errorf("%w: charge must not be negative", errs.ErrValidation)
	}

	res := &RecurringChargeResult{}
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		*res = RecurringChargeResult{}
		amb, err := tx.GetAmbassadorForUpdate(ctx, referredAmbassadorID)
		if err != nil {
			return fmt.Errorf("failed to lock ambassador %s: %w", referredAmbassadorID, err)
		}
		if !amb.FirstMonthCompleted {
			amb.FirstMonthCompleted = true
			if err := tx.UpdateAmbassador(ctx, amb); err != nil {
				return err
			}
		}
		res.Ambassador = amb
		if amb.ReferredByID == nil {
			return nil
		}

		existing, err := tx.GetRecurringOverride(ctx, *amb.ReferredByID, amb.ID, month)
		if err == nil {
			res.Override = existing
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		tierName, tier := s.cfg.Referral.Tier(amb.Tier)
		amount, err := CommissionFor(tier, charge)
		if err != nil {
			return err
		}
		override := &models.RecurringOverride{
			ID:                   tool.GenerateUUIDV7(),
			AmbassadorID:         *amb.ReferredByID,
			ReferredAmbassadorID: amb.ID,
			Month:                month,
			MonthlyAmount:        amount,
			ChargeAmount:         charge,
			Tier:                 tierName,
			Status:               types.CommissionStatusPending,
		}
		if err := tx.CreateRecurringOverride(ctx, override); err != nil {
			return err
		}
		res.Override, res.Created = override, true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Created {
		logctx.FromCtx(ctx, s.log).Infow("recurring_override_accrued",
			"ambassador_id", res.Override.AmbassadorID,
			"referred_ambassador_id", res.Override.ReferredAmbassadorID,
			"month", month,
			"amount", res.Override.MonthlyAmount.String())
	}
	return res, nil
}

// UpdateSubscriptionStatus records a billing lifecycle change. Ambassadors are
// never deleted; canceled is a status like any other.
func (s *Service) UpdateSubscriptionStatus(ctx context.Context, ambassadorID string, status types.AmbassadorSubscriptionStatus) (*models.AmbassadorSubscription, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	var out *models.AmbassadorSubscription
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		amb, err := tx.GetAmbassadorForUpdate(ctx, ambassadorID)
		if err != nil {
			return err
		}
		if amb.SubscriptionStatus != status {
			logctx.FromCtx(ctx, s.log).Infow("subscription_status_changed",
				"ambassador_id", amb.ID, "from", amb.SubscriptionStatus, "to", status)
			amb.SubscriptionStatus = status
			if err := tx.UpdateAmbassador(ctx, amb); err != nil {
				return err
			}
		}
		out = amb
		return nil
	})
	return out, err
}

// MarkBonusPaid is the hook the external payout process calls once a bonus
// has been paid out. Paying twice is a no-op.
func (s *Service) MarkBonusPaid(ctx context.Context, bonusID string) (*models.ReferralBonus, error) {
	var out *models.ReferralBonus
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		b, err := tx.GetReferralBonusByID(ctx, bonusID)
		if err != nil {
			return err
		}
		if b.Status != types.CommissionStatusPaid {
			now := s.now()
			b.Status, b.PaidAt = types.CommissionStatusPaid, &now
			if err := tx.UpdateReferralBonus(ctx, b); err != nil {
				return err
			}
		}
		out = b
		return nil
	})
	return out, err
}

func (s *Service) MarkOverridePaid(ctx context.Context, overrideID string) (*models.RecurringOverride, error) {
	var out *models.RecurringOverride
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		o, err := tx.GetRecurringOverrideByID(ctx, overrideID)
		if err != nil {
			return err
		}
		if o.Status != types.CommissionStatusPaid {
			now := s.now()
			o.Status, o.PaidAt = types.CommissionStatusPaid, &now
			if err := tx.UpdateRecurringOverride(ctx, o); err != nil {
				return err
			}
		}
		out = o
		return nil
	})
	return out, err
}

type Earnings struct {
	ReferralCode  string                      `json:"referral_code"`
	ReferralLink  string                      `json:"referral_link"`
	ReferredCount int                         `json:"referred_count"`
	Bonuses       []*models.ReferralBonus     `json:"bonuses"`
	Overrides     []*models.RecurringOverride `json:"overrides"`
	PendingTotal  decimal.Decimal             `json:"pending_total"`
	PaidTotal     decimal.Decimal             `json:"paid_total"`
}

func (s *Service) GetEarnings(ctx context.Context, ambassadorID string) (*Earnings, error) {
	amb, err := s.store.GetAmbassador(ctx, ambassadorID)
	if err != nil {
		return nil, err
	}
	referred, err := s.store.ListReferredAmbassadors(ctx, ambassadorID)
	if err != nil {
		return nil, err
	}
	bonuses, err := s.store.ListReferralBonuses(ctx, ambassadorID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.store.ListRecurringOverrides(ctx, ambassadorID)
	if err != nil {
		return nil, err
	}

	out := &Earnings{
		ReferralCode:  amb.ReferralCode,
		ReferralLink:  s.ReferralLink(amb),
		ReferredCount: len(referred),
		Bonuses:       bonuses,
		Overrides:     overrides,
		PendingTotal:  decimal.Zero,
		PaidTotal:     decimal.Zero,
	}
	add := func(status types.CommissionStatus, amount decimal.Decimal) {
		if status == types.CommissionStatusPaid {
			out.PaidTotal = out.PaidTotal.Add(amount)
		} else {
			out.PendingTotal = out.PendingTotal.Add(amount)
		}
	}
	for _, b := range bonuses {
		add(b.Status, b.BonusAmount)
	}
	for _, o := range overrides {
		add(o.Status, o.MonthlyAmount)
	}
	return out, nil
}
