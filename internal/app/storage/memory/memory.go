// Package memory is an in-memory storage.Store. It is safe for concurrent use
// and is primarily intended for tests and local development.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/tool"
	"github.com/bitforce/ambassador/pkg/types"
)

type state struct {
	ambassadors  []models.AmbassadorSubscription
	bonuses      []models.ReferralBonus
	overrides    []models.RecurringOverride
	leads        []models.Lead
	providers    []models.ServiceProvider
	listings     []models.ProviderListing
	leadServices []models.LeadService
	points       []models.AmbassadorPoints
	actions      []models.AmbassadorAction
	badges       []models.AmbassadorBadge
	bft          []models.BFTTransaction
	invitations  []models.Invitation
	billingLogs  []models.BillingEventLog
}

func (s *state) clone() state {
	return state{
		ambassadors:  slices.Clone(s.ambassadors),
		bonuses:      slices.Clone(s.bonuses),
		overrides:    slices.Clone(s.overrides),
		leads:        slices.Clone(s.leads),
		providers:    slices.Clone(s.providers),
		listings:     slices.Clone(s.listings),
		leadServices: slices.Clone(s.leadServices),
		points:       slices.Clone(s.points),
		actions:      slices.Clone(s.actions),
		badges:       slices.Clone(s.badges),
		bft:          slices.Clone(s.bft),
		invitations:  slices.Clone(s.invitations),
		billingLogs:  slices.Clone(s.billingLogs),
	}
}

// Store serializes every call, and every Transaction, on one mutex. Locking
// reads therefore hold for the whole transaction, as row locks would.
type Store struct {
	mu       *sync.Mutex
	data     *state
	failures map[string]error
	inTx     bool
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{mu: &sync.Mutex{}, data: &state{}, failures: map[string]error{}}
}

// FailOn makes every later call of the named method return err. A nil err
// clears the injection.
func (s *Store) FailOn(method string, err error) {
	unlock := s.lock()
	defer unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) fail(method string) error {
	if err, ok := s.failures[method]; ok {
		return fmt.Errorf("memory %s: %w", method, err)
	}
	return nil
}

func (s *Store) Transaction(ctx context.Context, fn func(tx storage.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &Store{mu: s.mu, data: s.data, failures: s.failures, inTx: true}
	if err := fn(tx); err != nil {
		*s.data = snapshot
		return err
	}
	return nil
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = tool.GenerateUUIDV7()
	}
}

func find[T any](rows []T, match func(*T) bool) (*T, error) {
	for i := range rows {
		if match(&rows[i]) {
			v := rows[i]
			return &v, nil
		}
	}
	return nil, storage.ErrNotFound
}

func filter[T any](rows []T, match func(*T) bool) []*T {
	out := make([]*T, 0)
	for i := range rows {
		if match(&rows[i]) {
			v := rows[i]
			out = append(out, &v)
		}
	}
	return out
}

func replace[T any](rows []T, v T, match func(*T) bool) error {
	for i := range rows {
		if match(&rows[i]) {
			rows[i] = v
			return nil
		}
	}
	return storage.ErrNotFound
}

// Ambassadors ----------------------------------------------------------------

func (s *Store) CreateAmbassador(_ context.Context, a *models.AmbassadorSubscription) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateAmbassador"); err != nil {
		return err
	}
	ensureID(&a.ID)
	for _, existing := range s.data.ambassadors {
		if existing.ID == a.ID || existing.UserID == a.UserID || existing.Email == a.Email || existing.ReferralCode == a.ReferralCode {
			return storage.ErrDuplicate
		}
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	s.data.ambassadors = append(s.data.ambassadors, *a)
	return nil
}

func (s *Store) UpdateAmbassador(_ context.Context, a *models.AmbassadorSubscription) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("UpdateAmbassador"); err != nil {
		return err
	}
	stamp(nil, &a.UpdatedAt)
	return replace(s.data.ambassadors, *a, func(x *models.AmbassadorSubscription) bool { return x.ID == a.ID })
}

func (s *Store) getAmbassador(method string, match func(*models.AmbassadorSubscription) bool) (*models.AmbassadorSubscription, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail(method); err != nil {
		return nil, err
	}
	return find(s.data.ambassadors, match)
}

func (s *Store) GetAmbassador(_ context.Context, id string) (*models.AmbassadorSubscription, error) {
	return s.getAmbassador("GetAmbassador", func(a *models.AmbassadorSubscription) bool { return a.ID == id })
}

func (s *Store) GetAmbassadorForUpdate(_ context.Context, id string) (*models.AmbassadorSubscription, error) {
	return s.getAmbassador("GetAmbassadorForUpdate", func(a *models.AmbassadorSubscription) bool { return a.ID == id })
}

func (s *Store) GetAmbassadorByUserID(_ context.Context, userID string) (*models.AmbassadorSubscription, error) {
	return s.getAmbassador("GetAmbassadorByUserID", func(a *models.AmbassadorSubscription) bool { return a.UserID == userID })
}

func (s *Store) GetAmbassadorByEmail(_ context.Context, email string) (*models.AmbassadorSubscription, error) {
	return s.getAmbassador("GetAmbassadorByEmail", func(a *models.AmbassadorSubscription) bool { return a.Email == email })
}

func (s *Store) GetAmbassadorByReferralCode(_ context.Context, code string) (*models.AmbassadorSubscription, error) {
	return s.getAmbassador("GetAmbassadorByReferralCode", func(a *models.AmbassadorSubscription) bool { return a.ReferralCode == code })
}

func (s *Store) GetAmbassadorByStripeCustomerID(_ context.Context, customerID string) (*models.AmbassadorSubscription, error) {
	return s.getAmbassador("GetAmbassadorByStripeCustomerID", func(a *models.AmbassadorSubscription) bool {
		return a.StripeCustomerID != nil && *a.StripeCustomerID == customerID
	})
}

func (s *Store) ListAmbassadors(_ context.Context) ([]*models.AmbassadorSubscription, error) {
	unlock := s.lock()
	defer unlock()
	return filter(s.data.ambassadors, func(*models.AmbassadorSubscription) bool { return true }), nil
}

func (s *Store) ListReferredAmbassadors(_ context.Context, referrerID string) ([]*models.AmbassadorSubscription, error) {
	unlock := s.lock()
	defer unlock()
	return filter(s.data.ambassadors, func(a *models.AmbassadorSubscription) bool {
		return a.ReferredByID != nil && *a.ReferredByID == referrerID
	}), nil
}

// Referrals ------------------------------------------------------------------

func (s *Store) CreateReferralBonus(_ context.Context, b *models.ReferralBonus) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateReferralBonus"); err != nil {
		return err
	}
	ensureID(&b.ID)
	for _, existing := range s.data.bonuses {
		if existing.ID == b.ID || (existing.AmbassadorID == b.AmbassadorID && existing.ReferredAmbassadorID == b.ReferredAmbassadorID) {
			return storage.ErrDuplicate
		}
	}
	stamp(&b.CreatedAt, &b.UpdatedAt)
	s.data.bonuses = append(s.data.bonuses, *b)
	return nil
}

func (s *Store) UpdateReferralBonus(_ context.Context, b *models.ReferralBonus) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("UpdateReferralBonus"); err != nil {
		return err
	}
	stamp(nil, &b.UpdatedAt)
	return replace(s.data.bonuses, *b, func(x *models.ReferralBonus) bool { return x.ID == b.ID })
}

func (s *Store) GetReferralBonus(_ context.Context, ambassadorID, referredAmbassadorID string) (*models.ReferralBonus, error) {
	unlock := s.lock()
	defer unlock()
	return find(s.data.bonuses, func(b *models.ReferralBonus) bool {
		return b.AmbassadorID == ambassadorID && b.ReferredAmbassadorID == referredAmbassadorID
	})
}

func (s *Store) GetReferralBonusByID(_ context.Context, id string) (*models.ReferralBonus, error) {
	unlock := s.lock()
	defer unlock()
	return find(s.data.bonuses, func(b *models.ReferralBonus) bool { return b.ID == id })
}

func (s *Store) ListReferralBonuses(_ context.Context, ambassadorID string) ([]*models.ReferralBonus, error) {
	unlock := s.lock()
	defer unlock()
	return filter(s.data.bonuses, func(b *models.ReferralBonus) bool { return b.AmbassadorID == ambassadorID }), nil
}

func (s *Store) CreateRecurringOverride(_ context.Context, o *models.RecurringOverride) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateRecurringOverride"); err != nil {
		return err
	}
	ensureID(&o.ID)
	for _, existing := range s.data.overrides {
		if existing.ID == o.ID || (existing.AmbassadorID == o.AmbassadorID &&
			existing.ReferredAmbassadorID == o.ReferredAmbassadorID && existing.Month == o.Month) {
			return storage.ErrDuplicate
		}
	}
	stamp(&o.CreatedAt, &o.UpdatedAt)
	s.data.overrides = append(s.data.overrides, *o)
	return nil
}

func (s *Store) UpdateRecurringOverride(_ context.Context, o *models.RecurringOverride) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("UpdateRecurringOverride"); err != nil {
		return err
	}
	stamp(nil, &o.UpdatedAt)
	return replace(s.data.overrides, *o, func(x *models.RecurringOverride) bool { return x.ID == o.ID })
}

func (s *Store) GetRecurringOverride(_ context.Context, ambassadorID, referredAmbassadorID, month string) (*models.RecurringOverride, error) {
	unlock := s.lock()
	defer unlock()
	return find(s.data.overrides, func(o *models.RecurringOverride) bool {
		return o.AmbassadorID == ambassadorID && o.ReferredAmbassadorID == referredAmbassadorID && o.Month == month
	})
}

func (s *Store) GetRecurringOverrideByID(_ context.Context, id string) (*models.RecurringOverride, error) {
	unlock := s.lock()
	defer unlock()
	return find(s.data.overrides, func(o *models.RecurringOverride) bool { return o.ID == id })
}

func (s *Store) ListRecurringOverrides(_ context.Context, ambassadorID string) ([]*models.RecurringOverride, error) {
	unlock := s.lock()
	defer unlock()
	rows := filter(s.data.overrides, func(o *models.RecurringOverride) bool { return o.AmbassadorID == ambassadorID })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows, nil
}

// Leads and catalog ----------------------------------------------------------

func (s *Store) CreateLead(_ context.Context, l *models.Lead) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateLead"); err != nil {
		return err
	}
	ensureID(&l.ID)
	stamp(&l.CreatedAt, nil)
	v := *l
	v.Interests = slices.Clone(l.Interests)
	s.data.leads = append(s.data.leads, v)
	return nil
}

func (s *Store) GetLead(_ context.Context, id string) (*models.Lead, error) {
	unlock := s.lock()
	defer unlock()
	return find(s.data.leads, func(l *models.Lead) bool { return l.ID == id })
}

func (s *Store) ListLeads(_ context.Context, ambassadorID string) ([]*models.Lead, error) {
	unlock := s.lock()
	defer unlock()
	rows := filter(s.data.leads, func(l *models.Lead) bool { return l.AmbassadorID == ambassadorID })
	slices.Reverse(rows)
	return rows, nil
}

func (s *Store) CreateProvider(_ context.Context, p *models.ServiceProvider) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateProvider"); err != nil {
		return err
	}
	ensureID(&p.ID)
	stamp(&p.CreatedAt, &p.UpdatedAt)
	s.data.providers = append(s.data.providers, *p)
	return nil
}

func (s *Store) GetProvider(_ context.Context, id string) (*models.ServiceProvider, error) {
	unlock := s.lock()
	defer unlock()
	return find(s.data.providers, func(p *models.ServiceProvider) bool { return p.ID == id })
}

func (s *Store) ListProviders(_ context.Context) ([]*models.ServiceProvider, error) {
	unlock := s.lock()
	defer unlock()
	rows := filter(s.data.providers, func(*models.ServiceProvider) bool { return true })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func (s *Store) CreateListing(_ context.Context, l *models.ProviderListing) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateListing"); err != nil {
		return err
	}
	ensureID(&l.ID)
	stamp(&l.CreatedAt, &l.UpdatedAt)
	v := *l
	v.Keywords = slices.Clone(l.Keywords)
	s.data.listings = append(s.data.listings, v)
	return nil
}

func (s *Store) GetListing(_ context.Context, id string) (*models.ProviderListing, error) {
	unlock := s.lock()
	defer unlock()
	return find(s.data.listings, func(l *models.ProviderListing) bool { return l.ID == id })
}

func (s *Store) ListListings(_ context.Context) ([]*models.ProviderListing, error) {
	unlock := s.lock()
	defer unlock()
	return filter(s.data.listings, func(*models.ProviderListing) bool { return true }), nil
}

func (s *Store) CreateLeadService(_ context.Context, ls *models.LeadService) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateLeadService"); err != nil {
		return err
	}
	ensureID(&ls.ID)
	stamp(&ls.CreatedAt, &ls.UpdatedAt)
	s.data.leadServices = append(s.data.leadServices, *ls)
	return nil
}

func (s *Store) UpdateLeadService(_ context.Context, ls *models.LeadService) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("UpdateLeadService"); err != nil {
		return err
	}
	stamp(nil, &ls.UpdatedAt)
	return replace(s.data.leadServices, *ls, func(x *models.LeadService) bool { return x.ID == ls.ID })
}

func (s *Store) GetLeadService(_ context.Context, id string) (*models.LeadService, error) {
	unlock := s.lock()
	defer unlock()
	return find(s.data.leadServices, func(ls *models.LeadService) bool { return ls.ID == id })
}

func (s *Store) GetLeadServiceForUpdate(ctx context.Context, id string) (*models.LeadService, error) {
	return s.GetLeadService(ctx, id)
}

func (s *Store) ListLeadServices(_ context.Context, leadID string) ([]*models.LeadService, error) {
	unlock := s.lock()
	defer unlock()
	return filter(s.data.leadServices, func(ls *models.LeadService) bool { return ls.LeadID == leadID }), nil
}

// Gamification ---------------------------------------------------------------

func (s *Store) EnsurePoints(_ context.Context, userID string) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("EnsurePoints"); err != nil {
		return err
	}
	if slices.ContainsFunc(s.data.points, func(p models.AmbassadorPoints) bool { return p.UserID == userID }) {
		return nil
	}
	p := models.AmbassadorPoints{ID: tool.GenerateUUIDV7(), UserID: userID, Level: 1}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	s.data.points = append(s.data.points, p)
	return nil
}

func (s *Store) GetPoints(_ context.Context, userID string) (*models.AmbassadorPoints, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("GetPoints"); err != nil {
		return nil, err
	}
	return find(s.data.points, func(p *models.AmbassadorPoints) bool { return p.UserID == userID })
}

func (s *Store) GetPointsForUpdate(_ context.Context, userID string) (*models.AmbassadorPoints, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("GetPointsForUpdate"); err != nil {
		return nil, err
	}
	return find(s.data.points, func(p *models.AmbassadorPoints) bool { return p.UserID == userID })
}

func (s *Store) UpdatePoints(_ context.Context, p *models.AmbassadorPoints) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("UpdatePoints"); err != nil {
		return err
	}
	stamp(nil, &p.UpdatedAt)
	return replace(s.data.points, *p, func(x *models.AmbassadorPoints) bool { return x.UserID == p.UserID })
}

func (s *Store) ListPoints(_ context.Context) ([]*models.AmbassadorPoints, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("ListPoints"); err != nil {
		return nil, err
	}
	return filter(s.data.points, func(*models.AmbassadorPoints) bool { return true }), nil
}

func (s *Store) CreateAction(_ context.Context, a *models.AmbassadorAction) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateAction"); err != nil {
		return err
	}
	ensureID(&a.ID)
	stamp(&a.CreatedAt, nil)
	s.data.actions = append(s.data.actions, *a)
	return nil
}

func (s *Store) ListActions(_ context.Context, userID string, limit int) ([]*models.AmbassadorAction, error) {
	unlock := s.lock()
	defer unlock()
	rows := filter(s.data.actions, func(a *models.AmbassadorAction) bool { return a.UserID == userID })
	slices.Reverse(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *Store) SumActionPoints(_ context.Context, userID string) (int64, error) {
	unlock := s.lock()
	defer unlock()
	var total int64
	for _, a := range s.data.actions {
		if a.UserID == userID {
			total += a.PointsAwarded
		}
	}
	return total, nil
}

func (s *Store) CountActions(_ context.Context, userID string, actionType types.ActionType) (int64, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CountActions"); err != nil {
		return 0, err
	}
	var n int64
	for _, a := range s.data.actions {
		if a.UserID == userID && a.ActionType == actionType {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateBadgeIfAbsent(_ context.Context, b *models.AmbassadorBadge) (bool, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateBadgeIfAbsent"); err != nil {
		return false, err
	}
	if slices.ContainsFunc(s.data.badges, func(x models.AmbassadorBadge) bool {
		return x.UserID == b.UserID && x.BadgeType == b.BadgeType
	}) {
		return false, nil
	}
	ensureID(&b.ID)
	if b.EarnedAt.IsZero() {
		b.EarnedAt = time.Now()
	}
	s.data.badges = append(s.data.badges, *b)
	return true, nil
}

func (s *Store) ListBadges(_ context.Context, userID string) ([]*models.AmbassadorBadge, error) {
	unlock := s.lock()
	defer unlock()
	return filter(s.data.badges, func(b *models.AmbassadorBadge) bool { return b.UserID == userID }), nil
}

// BFT ledger -----------------------------------------------------------------

func (s *Store) CreateBFTTransaction(_ context.Context, t *models.BFTTransaction) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateBFTTransaction"); err != nil {
		return err
	}
	ensureID(&t.ID)
	for _, existing := range s.data.bft {
		if existing.ID == t.ID || (existing.AmbassadorID == t.AmbassadorID && existing.Sequence == t.Sequence) {
			return storage.ErrDuplicate
		}
	}
	stamp(&t.CreatedAt, nil)
	s.data.bft = append(s.data.bft, *t)
	return nil
}

func (s *Store) ambassadorLedger(ambassadorID string) []*models.BFTTransaction {
	rows := filter(s.data.bft, func(t *models.BFTTransaction) bool { return t.AmbassadorID == ambassadorID })
	sort.Slice(rows, func(i, j int) bool { return rows[i].Sequence < rows[j].Sequence })
	return rows
}

func (s *Store) LastBFTTransaction(_ context.Context, ambassadorID string) (*models.BFTTransaction, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("LastBFTTransaction"); err != nil {
		return nil, err
	}
	rows := s.ambassadorLedger(ambassadorID)
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return rows[len(rows)-1], nil
}

func (s *Store) ListBFTTransactions(_ context.Context, ambassadorID string, offset, limit int) ([]*models.BFTTransaction, int64, error) {
	unlock := s.lock()
	defer unlock()
	rows := s.ambassadorLedger(ambassadorID)
	slices.Reverse(rows)
	return page(rows, offset, limit), int64(len(rows)), nil
}

func (s *Store) ListAllBFTTransactions(_ context.Context, ambassadorID string) ([]*models.BFTTransaction, error) {
	unlock := s.lock()
	defer unlock()
	return s.ambassadorLedger(ambassadorID), nil
}

// ScanBFTTransactions honours the eq, not_eq and in operators; other
// operators match nothing.
func (s *Store) ScanBFTTransactions(_ context.Context, filters types.FiltersAnd, offset, limit int) ([]*models.BFTTransaction, int64, error) {
	unlock := s.lock()
	defer unlock()
	rows := filter(s.data.bft, func(t *models.BFTTransaction) bool {
		lookup := bftField(t)
		for _, f := range filters {
			if !f.MatchEquality(lookup) {
				return false
			}
		}
		return true
	})
	slices.Reverse(rows)
	return page(rows, offset, limit), int64(len(rows)), nil
}

func bftField(t *models.BFTTransaction) func(string) (string, bool) {
	return func(field string) (string, bool) {
		switch field {
		case "ambassador_id":
			return t.AmbassadorID, true
		case "transaction_type":
			return string(t.TransactionType), true
		case "reference":
			return t.Reference, true
		case "sequence":
			return fmt.Sprint(t.Sequence), true
		case "amount":
			return t.Amount.String(), true
		}
		return "", false
	}
}

func page[T any](rows []*T, offset, limit int) []*T {
	if offset > len(rows) {
		return []*T{}
	}
	rows = rows[max(offset, 0):]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func (s *Store) ListBFTAmbassadorIDs(_ context.Context) ([]string, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("ListBFTAmbassadorIDs"); err != nil {
		return nil, err
	}
	var ids []string
	for _, t := range s.data.bft {
		if !slices.Contains(ids, t.AmbassadorID) {
			ids = append(ids, t.AmbassadorID)
		}
	}
	return ids, nil
}

// Invitations and billing logs -----------------------------------------------

func (s *Store) CreateInvitation(_ context.Context, inv *models.Invitation) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("CreateInvitation"); err != nil {
		return err
	}
	ensureID(&inv.ID)
	stamp(&inv.CreatedAt, &inv.UpdatedAt)
	s.data.invitations = append(s.data.invitations, *inv)
	return nil
}

func (s *Store) UpdateInvitation(_ context.Context, inv *models.Invitation) error {
	unlock := s.lock()
	defer unlock()
	stamp(nil, &inv.UpdatedAt)
	return replace(s.data.invitations, *inv, func(x *models.Invitation) bool { return x.ID == inv.ID })
}

func (s *Store) ListInvitations(_ context.Context, ambassadorID string) ([]*models.Invitation, error) {
	unlock := s.lock()
	defer unlock()
	rows := filter(s.data.invitations, func(inv *models.Invitation) bool { return inv.AmbassadorID == ambassadorID })
	slices.Reverse(rows)
	return rows, nil
}

func (s *Store) SaveBillingEventLog(_ context.Context, l *models.BillingEventLog) error {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("SaveBillingEventLog"); err != nil {
		return err
	}
	ensureID(&l.ID)
	stamp(&l.CreatedAt, &l.UpdatedAt)
	if replace(s.data.billingLogs, *l, func(x *models.BillingEventLog) bool { return x.ID == l.ID }) == nil {
		return nil
	}
	s.data.billingLogs = append(s.data.billingLogs, *l)
	return nil
}

// BillingEventLogs returns a copy of the saved billing logs.
func (s *Store) BillingEventLogs() []models.BillingEventLog {
	unlock := s.lock()
	defer unlock()
	return slices.Clone(s.data.billingLogs)
}

// Statistics -----------------------------------------------------------------

type bucketKey struct{ date, label string }

// daily sums values into UTC day buckets in date then label order.
func daily[T any](rows []T, since time.Time, at func(*T) time.Time, label func(*T) string, value func(*T) decimal.Decimal) []storage.DailyValue {
	sums := map[bucketKey]decimal.Decimal{}
	for i := range rows {
		r := &rows[i]
		t := at(r)
		if t.Before(since) {
			continue
		}
		k := bucketKey{date: t.UTC().Format(time.DateOnly), label: label(r)}
		sums[k] = sums[k].Add(value(r))
	}
	out := make([]storage.DailyValue, 0, len(sums))
	for k, v := range sums {
		out = append(out, storage.DailyValue{Date: k.date, Label: k.label, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func noLabel[T any](*T) string { return "" }

func one[T any](*T) decimal.Decimal { return decimal.NewFromInt(1) }

func (s *Store) DailySignups(_ context.Context, since time.Time) ([]storage.DailyValue, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("DailySignups"); err != nil {
		return nil, err
	}
	return daily(s.data.ambassadors, since,
		func(a *models.AmbassadorSubscription) time.Time { return a.CreatedAt },
		noLabel[models.AmbassadorSubscription], one[models.AmbassadorSubscription]), nil
}

func (s *Store) DailyPointsAwarded(_ context.Context, since time.Time) ([]storage.DailyValue, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("DailyPointsAwarded"); err != nil {
		return nil, err
	}
	return daily(s.data.actions, since,
		func(a *models.AmbassadorAction) time.Time { return a.CreatedAt },
		noLabel[models.AmbassadorAction],
		func(a *models.AmbassadorAction) decimal.Decimal { return decimal.NewFromInt(a.PointsAwarded) }), nil
}

func (s *Store) DailyBFTPosted(_ context.Context, since time.Time) ([]storage.DailyValue, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("DailyBFTPosted"); err != nil {
		return nil, err
	}
	return daily(s.data.bft, since,
		func(t *models.BFTTransaction) time.Time { return t.CreatedAt },
		func(t *models.BFTTransaction) string { return string(t.TransactionType) },
		func(t *models.BFTTransaction) decimal.Decimal { return t.Amount }), nil
}

func (s *Store) DailyLeadServiceStatus(_ context.Context, since time.Time) ([]storage.DailyValue, error) {
	unlock := s.lock()
	defer unlock()
	if err := s.fail("DailyLeadServiceStatus"); err != nil {
		return nil, err
	}
	return daily(s.data.leadServices, since,
		func(ls *models.LeadService) time.Time { return ls.StatusChangedAt },
		func(ls *models.LeadService) string { return string(ls.Status) },
		one[models.LeadService]), nil
}
