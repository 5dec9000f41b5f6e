// Package storage defines the persistence boundary of the ambassador core.
// Services depend on Store; postgres backs production and memory backs tests
// and local development.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/types"
)

var (
	// ErrNotFound is returned by every single-row lookup that matches nothing.
	ErrNotFound = fmt.Errorf("%w: record", errs.ErrNotFound)
	// ErrDuplicate is returned when an insert violates a unique key.
	ErrDuplicate = fmt.Errorf("%w: duplicate key", errs.ErrConflict)
)

// AmbassadorStore persists ambassador subscriptions.
type AmbassadorStore interface {
	CreateAmbassador(ctx context.Context, a *models.AmbassadorSubscription) error
	UpdateAmbassador(ctx context.Context, a *models.AmbassadorSubscription) error
	GetAmbassador(ctx context.Context, id string) (*models.AmbassadorSubscription, error)
	// GetAmbassadorForUpdate row-locks the ambassador until the surrounding
	// transaction ends; postings to the BFT ledger serialize on it.
	GetAmbassadorForUpdate(ctx context.Context, id string) (*models.AmbassadorSubscription, error)
	GetAmbassadorByUserID(ctx context.Context, userID string) (*models.AmbassadorSubscription, error)
	GetAmbassadorByEmail(ctx context.Context, email string) (*models.AmbassadorSubscription, error)
	GetAmbassadorByReferralCode(ctx context.Context, code string) (*models.AmbassadorSubscription, error)
	GetAmbassadorByStripeCustomerID(ctx context.Context, customerID string) (*models.AmbassadorSubscription, error)
	ListAmbassadors(ctx context.Context) ([]*models.AmbassadorSubscription, error)
	ListReferredAmbassadors(ctx context.Context, referrerID string) ([]*models.AmbassadorSubscription, error)
}

// ReferralStore persists referral bonuses and recurring overrides.
type ReferralStore interface {
	CreateReferralBonus(ctx context.Context, b *models.ReferralBonus) error
	UpdateReferralBonus(ctx context.Context, b *models.ReferralBonus) error
	GetReferralBonus(ctx context.Context, ambassadorID, referredAmbassadorID string) (*models.ReferralBonus, error)
	GetReferralBonusByID(ctx context.Context, id string) (*models.ReferralBonus, error)
	ListReferralBonuses(ctx context.Context, ambassadorID string) ([]*models.ReferralBonus, error)

	CreateRecurringOverride(ctx context.Context, o *models.RecurringOverride) error
	UpdateRecurringOverride(ctx context.Context, o *models.RecurringOverride) error
	GetRecurringOverride(ctx context.Context, ambassadorID, referredAmbassadorID, month string) (*models.RecurringOverride, error)
	GetRecurringOverrideByID(ctx context.Context, id string) (*models.RecurringOverride, error)
	ListRecurringOverrides(ctx context.Context, ambassadorID string) ([]*models.RecurringOverride, error)
}

// LeadStore persists leads, the provider catalog and lead services.
type LeadStore interface {
	CreateLead(ctx context.Context, l *models.Lead) error
	GetLead(ctx context.Context, id string) (*models.Lead, error)
	ListLeads(ctx context.Context, ambassadorID string) ([]*models.Lead, error)

	CreateProvider(ctx context.Context, p *models.ServiceProvider) error
	GetProvider(ctx context.Context, id string) (*models.ServiceProvider, error)
	ListProviders(ctx context.Context) ([]*models.ServiceProvider, error)
	CreateListing(ctx context.Context, l *models.ProviderListing) error
	GetListing(ctx context.Context, id string) (*models.ProviderListing, error)
	ListListings(ctx context.Context) ([]*models.ProviderListing, error)

	CreateLeadService(ctx context.Context, ls *models.LeadService) error
	UpdateLeadService(ctx context.Context, ls *models.LeadService) error
	GetLeadService(ctx context.Context, id string) (*models.LeadService, error)
	GetLeadServiceForUpdate(ctx context.Context, id string) (*models.LeadService, error)
	ListLeadServices(ctx context.Context, leadID string) ([]*models.LeadService, error)
}

// GamificationStore persists points aggregates, the action log and badges.
type GamificationStore interface {
	// EnsurePoints inserts a zero points row for userID if none exists.
	EnsurePoints(ctx context.Context, userID string) error
	GetPoints(ctx context.Context, userID string) (*models.AmbassadorPoints, error)
	GetPointsForUpdate(ctx context.Context, userID string) (*models.AmbassadorPoints, error)
	UpdatePoints(ctx context.Context, p *models.AmbassadorPoints) error
	ListPoints(ctx context.Context) ([]*models.AmbassadorPoints, error)

	CreateAction(ctx context.Context, a *models.AmbassadorAction) error
	// ListActions returns newest first; limit <= 0 returns all.
	ListActions(ctx context.Context, userID string, limit int) ([]*models.AmbassadorAction, error)
	SumActionPoints(ctx context.Context, userID string) (int64, error)
	CountActions(ctx context.Context, userID string, actionType types.ActionType) (int64, error)

	// CreateBadgeIfAbsent reports whether the badge row was inserted.
	CreateBadgeIfAbsent(ctx context.Context, b *models.AmbassadorBadge) (bool, error)
	ListBadges(ctx context.Context, userID string) ([]*models.AmbassadorBadge, error)
}

// BFTStore persists the append-only BFT ledger.
type BFTStore interface {
	CreateBFTTransaction(ctx context.Context, t *models.BFTTransaction) error
	// LastBFTTransaction returns ErrNotFound when the ambassador has no postings.
	LastBFTTransaction(ctx context.Context, ambassadorID string) (*models.BFTTransaction, error)
	// ListBFTTransactions pages newest first and returns the total count.
	ListBFTTransactions(ctx context.Context, ambassadorID string, offset, limit int) ([]*models.BFTTransaction, int64, error)
	// ListAllBFTTransactions returns the ledger in sequence order.
	ListAllBFTTransactions(ctx context.Context, ambassadorID string) ([]*models.BFTTransaction, error)
	ScanBFTTransactions(ctx context.Context, filters types.FiltersAnd, offset, limit int) ([]*models.BFTTransaction, int64, error)
	ListBFTAmbassadorIDs(ctx context.Context) ([]string, error)
}

type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	UpdateInvitation(ctx context.Context, inv *models.Invitation) error
	ListInvitations(ctx context.Context, ambassadorID string) ([]*models.Invitation, error)
}

type BillingLogStore interface {
	SaveBillingEventLog(ctx context.Context, l *models.BillingEventLog) error
}

// DailyValue is one bucket of a daily statistic. Date is a UTC YYYY-MM-DD
// day; Label splits a day by a dimension such as transaction type.
type DailyValue struct {
	Date  string          `json:"date"`
	Label string          `json:"label,omitempty"`
	Value decimal.Decimal `json:"value"`
}

// StatisticsStore aggregates by UTC day from since on, ordered by date then
// label.
type StatisticsStore interface {
	DailySignups(ctx context.Context, since time.Time) ([]DailyValue, error)
	DailyPointsAwarded(ctx context.Context, since time.Time) ([]DailyValue, error)
	// DailyBFTPosted sums posted amounts labelled by transaction type.
	DailyBFTPosted(ctx context.Context, since time.Time) ([]DailyValue, error)
	// DailyLeadServiceStatus counts lead services by current status, bucketed
	// on the day of their last status change.
	DailyLeadServiceStatus(ctx context.Context, since time.Time) ([]DailyValue, error)
}

// Store aggregates every store. Transaction runs fn against a Store bound to a
// single transaction; fn returning an error rolls back every write it made.
type Store interface {
	AmbassadorStore
	ReferralStore
	LeadStore
	GamificationStore
	BFTStore
	InvitationStore
	BillingLogStore
	StatisticsStore

	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// BFTScanFields are the columns admin scans may filter bft_transaction on.
var BFTScanFields = []string{"ambassador_id", "transaction_type", "reference", "created_at", "amount", "sequence"}
