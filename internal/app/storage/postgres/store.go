// Package postgres implements storage.Store on gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/tool"
	"github.com/bitforce/ambassador/pkg/types"
)

type Store struct {
	db *gorm.DB
}

var _ storage.Store = (*Store)(nil)

func New(db *gorm.DB) *Store { return &Store{db: db} }

// NewStore exposes the gorm store through the storage boundary for fx.
func NewStore(db *gorm.DB) storage.Store { return New(db) }

var Module = fx.Options(
	fx.Provide(NewStore),
)

func (s *Store) conn(ctx context.Context) *gorm.DB { return s.db.WithContext(ctx) }

func (s *Store) Transaction(ctx context.Context, fn func(tx storage.Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func first[T any](q *gorm.DB) (*T, error) {
	var v T
	if err := q.First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func create(q *gorm.DB, v any) error {
	if err := q.Create(v).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return storage.ErrDuplicate
		}
		return err
	}
	return nil
}

func forUpdate(q *gorm.DB) *gorm.DB {
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Ambassadors ----------------------------------------------------------------

func (s *Store) CreateAmbassador(ctx context.Context, a *models.AmbassadorSubscription) error {
	return create(s.conn(ctx), a)
}

func (s *Store) UpdateAmbassador(ctx context.Context, a *models.AmbassadorSubscription) error {
	return s.conn(ctx).Save(a).Error
}

func (s *Store) GetAmbassador(ctx context.Context, id string) (*models.AmbassadorSubscription, error) {
	return first[models.AmbassadorSubscription](s.conn(ctx).Where("id = ?", id))
}

func (s *Store) GetAmbassadorForUpdate(ctx context.Context, id string) (*models.AmbassadorSubscription, error) {
	return first[models.AmbassadorSubscription](forUpdate(s.conn(ctx)).Where("id = ?", id))
}

func (s *Store) GetAmbassadorByUserID(ctx context.Context, userID string) (*models.AmbassadorSubscription, error) {
	return first[models.AmbassadorSubscription](s.conn(ctx).Where("user_id = ?", userID))
}

func (s *Store) GetAmbassadorByEmail(ctx context.Context, email string) (*models.AmbassadorSubscription, error) {
	return first[models.AmbassadorSubscription](s.conn(ctx).Where("email = ?", email))
}

func (s *Store) GetAmbassadorByReferralCode(ctx context.Context, code string) (*models.AmbassadorSubscription, error) {
	return first[models.AmbassadorSubscription](s.conn(ctx).Where("referral_code = ?", code))
}

func (s *Store) GetAmbassadorByStripeCustomerID(ctx context.Context, customerID string) (*models.AmbassadorSubscription, error) {
	return first[models.AmbassadorSubscription](s.conn(ctx).Where("stripe_customer_id = ?", customerID))
}

func (s *Store) ListAmbassadors(ctx context.Context) ([]*models.AmbassadorSubscription, error) {
	var rows []*models.AmbassadorSubscription
	err := s.conn(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (s *Store) ListReferredAmbassadors(ctx context.Context, referrerID string) ([]*models.AmbassadorSubscription, error) {
	var rows []*models.AmbassadorSubscription
	err := s.conn(ctx).Where("referred_by_id = ?", referrerID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

// Referrals ------------------------------------------------------------------

func (s *Store) CreateReferralBonus(ctx context.Context, b *models.ReferralBonus) error {
	return create(s.conn(ctx), b)
}

func (s *Store) UpdateReferralBonus(ctx context.Context, b *models.ReferralBonus) error {
	return s.conn(ctx).Save(b).Error
}

func (s *Store) GetReferralBonus(ctx context.Context, ambassadorID, referredAmbassadorID string) (*models.ReferralBonus, error) {
	return first[models.ReferralBonus](s.conn(ctx).
		Where("ambassador_id = ? AND referred_ambassador_id = ?", ambassadorID, referredAmbassadorID))
}

func (s *Store) GetReferralBonusByID(ctx context.Context, id string) (*models.ReferralBonus, error) {
	return first[models.ReferralBonus](s.conn(ctx).Where("id = ?", id))
}

func (s *Store) ListReferralBonuses(ctx context.Context, ambassadorID string) ([]*models.ReferralBonus, error) {
	var rows []*models.ReferralBonus
	err := s.conn(ctx).Where("ambassador_id = ?", ambassadorID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (s *Store) CreateRecurringOverride(ctx context.Context, o *models.RecurringOverride) error {
	return create(s.conn(ctx), o)
}

func (s *Store) UpdateRecurringOverride(ctx context.Context, o *models.RecurringOverride) error {
	return s.conn(ctx).Save(o).Error
}

func (s *Store) GetRecurringOverride(ctx context.Context, ambassadorID, referredAmbassadorID, month string) (*models.RecurringOverride, error) {
	return first[models.RecurringOverride](s.conn(ctx).
		Where("ambassador_id = ? AND referred_ambassador_id = ? AND month = ?", ambassadorID, referredAmbassadorID, month))
}

func (s *Store) GetRecurringOverrideByID(ctx context.Context, id string) (*models.RecurringOverride, error) {
	return first[models.RecurringOverride](s.conn(ctx).Where("id = ?", id))
}

func (s *Store) ListRecurringOverrides(ctx context.Context, ambassadorID string) ([]*models.RecurringOverride, error) {
	var rows []*models.RecurringOverride
	err := s.conn(ctx).Where("ambassador_id = ?", ambassadorID).Order("month ASC, created_at ASC").Find(&rows).Error
	return rows, err
}

// Leads and catalog ----------------------------------------------------------

func (s *Store) CreateLead(ctx context.Context, l *models.Lead) error {
	return create(s.conn(ctx), l)
}

func (s *Store) GetLead(ctx context.Context, id string) (*models.Lead, error) {
	return first[models.Lead](s.conn(ctx).Where("id = ?", id))
}

func (s *Store) ListLeads(ctx context.Context, ambassadorID string) ([]*models.Lead, error) {
	var rows []*models.Lead
	err := s.conn(ctx).Where("ambassador_id = ?", ambassadorID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (s *Store) CreateProvider(ctx context.Context, p *models.ServiceProvider) error {
	return create(s.conn(ctx), p)
}

func (s *Store) GetProvider(ctx context.Context, id string) (*models.ServiceProvider, error) {
	return first[models.ServiceProvider](s.conn(ctx).Where("id = ?", id))
}

func (s *Store) ListProviders(ctx context.Context) ([]*models.ServiceProvider, error) {
	var rows []*models.ServiceProvider
	err := s.conn(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (s *Store) CreateListing(ctx context.Context, l *models.ProviderListing) error {
	return create(s.conn(ctx), l)
}

func (s *Store) GetListing(ctx context.Context, id string) (*models.ProviderListing, error) {
	return first[models.ProviderListing](s.conn(ctx).Where("id = ?", id))
}

func (s *Store) ListListings(ctx context.Context) ([]*models.ProviderListing, error) {
	var rows []*models.ProviderListing
	err := s.conn(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (s *Store) CreateLeadService(ctx context.Context, ls *models.LeadService) error {
	return create(s.conn(ctx), ls)
}

func (s *Store) UpdateLeadService(ctx context.Context, ls *models.LeadService) error {
	return s.conn(ctx).Save(ls).Error
}

func (s *Store) GetLeadService(ctx context.Context, id string) (*models.LeadService, error) {
	return first[models.LeadService](s.conn(ctx).Where("id = ?", id))
}

func (s *Store) GetLeadServiceForUpdate(ctx context.Context, id string) (*models.LeadService, error) {
	return first[models.LeadService](forUpdate(s.conn(ctx)).Where("id = ?", id))
}

func (s *Store) ListLeadServices(ctx context.Context, leadID string) ([]*models.LeadService, error) {
	var rows []*models.LeadService
	err := s.conn(ctx).Where("lead_id = ?", leadID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

// Gamification ---------------------------------------------------------------

func (s *Store) EnsurePoints(ctx context.Context, userID string) error {
	row := &models.AmbassadorPoints{ID: tool.GenerateUUIDV7(), UserID: userID, Level: 1}
	return s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(row).Error
}

func (s *Store) GetPoints(ctx context.Context, userID string) (*models.AmbassadorPoints, error) {
	return first[models.AmbassadorPoints](s.conn(ctx).Where("user_id = ?", userID))
}

func (s *Store) GetPointsForUpdate(ctx context.Context, userID string) (*models.AmbassadorPoints, error) {
	return first[models.AmbassadorPoints](forUpdate(s.conn(ctx)).Where("user_id = ?", userID))
}

func (s *Store) UpdatePoints(ctx context.Context, p *models.AmbassadorPoints) error {
	return s.conn(ctx).Save(p).Error
}

func (s *Store) ListPoints(ctx context.Context) ([]*models.AmbassadorPoints, error) {
	var rows []*models.AmbassadorPoints
	err := s.conn(ctx).Order("user_id ASC").Find(&rows).Error
	return rows, err
}

func (s *Store) CreateAction(ctx context.Context, a *models.AmbassadorAction) error {
	return create(s.conn(ctx), a)
}

func (s *Store) ListActions(ctx context.Context, userID string, limit int) ([]*models.AmbassadorAction, error) {
	var rows []*models.AmbassadorAction
	q := s.conn(ctx).Where("user_id = ?", userID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (s *Store) SumActionPoints(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := s.conn(ctx).Model(&models.AmbassadorAction{}).
		Select("COALESCE(SUM(points_awarded), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}

func (s *Store) CountActions(ctx context.Context, userID string, actionType types.ActionType) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.AmbassadorAction{}).
		Where("user_id = ? AND action_type = ?", userID, actionType).
		Count(&n).Error
	return n, err
}

func (s *Store) CreateBadgeIfAbsent(ctx context.Context, b *models.AmbassadorBadge) (bool, error) {
	res := s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "badge_type"}}, DoNothing: true}).
		Create(b)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) ListBadges(ctx context.Context, userID string) ([]*models.AmbassadorBadge, error) {
	var rows []*models.AmbassadorBadge
	err := s.conn(ctx).Where("user_id = ?", userID).Order("earned_at ASC").Find(&rows).Error
	return rows, err
}

// BFT ledger -----------------------------------------------------------------

func (s *Store) CreateBFTTransaction(ctx context.Context, t *models.BFTTransaction) error {
	return create(s.conn(ctx), t)
}

func (s *Store) LastBFTTransaction(ctx context.Context, ambassadorID string) (*models.BFTTransaction, error) {
	return first[models.BFTTransaction](s.conn(ctx).Where("ambassador_id = ?", ambassadorID).Order("sequence DESC"))
}

func (s *Store) ListBFTTransactions(ctx context.Context, ambassadorID string, offset, limit int) ([]*models.BFTTransaction, int64, error) {
	filters := types.FiltersAnd{{Field: "ambassador_id", Operator: types.CommonFilterOperatorEq, Values: []any{ambassadorID}}}
	return s.scan(ctx, filters, offset, limit, "sequence DESC")
}

func (s *Store) ListAllBFTTransactions(ctx context.Context, ambassadorID string) ([]*models.BFTTransaction, error) {
	var rows []*models.BFTTransaction
	err := s.conn(ctx).Where("ambassador_id = ?", ambassadorID).Order("sequence ASC").Find(&rows).Error
	return rows, err
}

func (s *Store) ScanBFTTransactions(ctx context.Context, filters types.FiltersAnd, offset, limit int) ([]*models.BFTTransaction, int64, error) {
	return s.scan(ctx, filters, offset, limit, "created_at DESC, sequence DESC")
}

func (s *Store) scan(ctx context.Context, filters types.FiltersAnd, offset, limit int, order string) ([]*models.BFTTransaction, int64, error) {
	tx := s.conn(ctx).Model(&models.BFTTransaction{})
	if len(filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filters}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bft transactions: %w", err)
	}

	var rows []*models.BFTTransaction
	q := tx.Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bft transactions: %w", err)
	}
	return rows, total, nil
}

func (s *Store) ListBFTAmbassadorIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.conn(ctx).Model(&models.BFTTransaction{}).Distinct("ambassador_id").Pluck("ambassador_id", &ids).Error
	return ids, err
}

// Invitations and billing logs -----------------------------------------------

func (s *Store) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	return create(s.conn(ctx), inv)
}

func (s *Store) UpdateInvitation(ctx context.Context, inv *models.Invitation) error {
	return s.conn(ctx).Save(inv).Error
}

func (s *Store) ListInvitations(ctx context.Context, ambassadorID string) ([]*models.Invitation, error) {
	var rows []*models.Invitation
	err := s.conn(ctx).Where("ambassador_id = ?", ambassadorID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (s *Store) SaveBillingEventLog(ctx context.Context, l *models.BillingEventLog) error {
	if l.ID == "" {
		l.ID = tool.GenerateUUIDV7()
	}
	return s.conn(ctx).Save(l).Error
}

// Statistics -----------------------------------------------------------------

const utcDay = "TO_CHAR(%s AT TIME ZONE 'UTC', 'YYYY-MM-DD')"

// daily groups model rows by the UTC day of column. label may be empty.
func (s *Store) daily(ctx context.Context, model any, column, label, value string, since time.Time) ([]storage.DailyValue, error) {
	day := fmt.Sprintf(utcDay, column)
	sel := day + " AS date, " + value + " AS value"
	q := s.conn(ctx).Model(model).Where(column+" >= ?", since).Group(day).Order("date")
	if label != "" {
		sel += ", " + label + " AS label"
		q = q.Group(label).Order(label)
	}
	var out []storage.DailyValue
	err := q.Select(sel).Scan(&out).Error
	return out, err
}

func (s *Store) DailySignups(ctx context.Context, since time.Time) ([]storage.DailyValue, error) {
	return s.daily(ctx, &models.AmbassadorSubscription{}, "created_at", "", "COUNT(*)", since)
}

func (s *Store) DailyPointsAwarded(ctx context.Context, since time.Time) ([]storage.DailyValue, error) {
	return s.daily(ctx, &models.AmbassadorAction{}, "created_at", "", "COALESCE(SUM(points_awarded), 0)", since)
}

func (s *Store) DailyBFTPosted(ctx context.Context, since time.Time) ([]storage.DailyValue, error) {
	return s.daily(ctx, &models.BFTTransaction{}, "created_at", "transaction_type", "SUM(amount)", since)
}

func (s *Store) DailyLeadServiceStatus(ctx context.Context, since time.Time) ([]storage.DailyValue, error) {
	return s.daily(ctx, &models.LeadService{}, "status_changed_at", "status", "COUNT(*)", since)
}
