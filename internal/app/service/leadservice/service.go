package leadservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/bitforce/ambassador/internal/app/service/gamification"
	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/logctx"
	"github.com/bitforce/ambassador/pkg/tool"
	"github.com/bitforce/ambassador/pkg/types"
)

var (
	ErrLeadNotFound        = fmt.Errorf("%w: lead not found", errs.ErrNotFound)
	ErrLeadServiceNotFound = fmt.Errorf("%w: lead service not found", errs.ErrNotFound)
	ErrListingNotFound     = fmt.Errorf("%w: listing not found", errs.ErrNotFound)
	ErrProviderNotFound    = fmt.Errorf("%w: provider not found", errs.ErrNotFound)
	ErrMissingField        = fmt.Errorf("%w: missing required field", errs.ErrValidation)
)

// RefreshNotifier asks the recommendation engine to rebuild suggestions for a
// lead. It reports whether a refresh was dispatched.
type RefreshNotifier interface {
	TriggerRefresh(ctx context.Context, leadID string) bool
}

type Service struct {
	store   storage.Store
	gam     *gamification.Service
	refresh RefreshNotifier
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewService(store storage.Store, gam *gamification.Service, refresh RefreshNotifier, log *zap.SugaredLogger) *Service {
	return &Service{store: store, gam: gam, refresh: refresh, log: log, now: time.Now}
}

type CreateLeadInput struct {
	FullName  string   `json:"full_name" binding:"required"`
	Email     string   `json:"email" binding:"omitempty,email"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Interests []string `json:"interests"`
}

func (s *Service) CreateLead(ctx context.Context, userID string, in CreateLeadInput) (*models.Lead, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, fmt.Errorf("%w: full_name", ErrMissingField)
	}
	lead := &models.Lead{
		ID:           tool.GenerateUUIDV7(),
		AmbassadorID: userID,
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        in.Phone,
		Address:      in.Address,
		Interests: lo.Filter(lo.Map(in.Interests, func(v string, _ int) string {
			return strings.TrimSpace(v)
		}), func(v string, _ int) bool { return v != "" }),
	}
	if err := s.store.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("lead_created", "lead_id", lead.ID)
	return lead, nil
}

type LeadDetail struct {
	Lead     *models.Lead          `json:"lead"`
	Services []*models.LeadService `json:"services"`
}

// ownedLead loads a lead and hides leads belonging to another ambassador.
func ownedLead(ctx context.Context, store storage.Store, userID, leadID string) (*models.Lead, error) {
	lead, err := store.GetLead(ctx, leadID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	if lead.AmbassadorID != userID {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

func (s *Service) GetLead(ctx context.Context, userID, leadID string) (*LeadDetail, error) {
	lead, err := ownedLead(ctx, s.store, userID, leadID)
	if err != nil {
		return nil, err
	}
	services, err := s.store.ListLeadServices(ctx, lead.ID)
	if err != nil {
		return nil, err
	}
	return &LeadDetail{Lead: lead, Services: services}, nil
}

func (s *Service) ListLeads(ctx context.Context, userID string) ([]*models.Lead, error) {
	return s.store.ListLeads(ctx, userID)
}

type CreateProviderInput struct {
	Name    string `json:"name" binding:"required"`
	Website string `json:"website"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
}

func (s *Service) CreateProvider(ctx context.Context, in CreateProviderInput) (*models.ServiceProvider, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	p := &models.ServiceProvider{
		ID:      tool.GenerateUUIDV7(),
		Name:    strings.TrimSpace(in.Name),
		Website: in.Website,
		Email:   in.Email,
		Phone:   in.Phone,
	}
	if err := s.store.CreateProvider(ctx, p); err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return p, nil
}

func (s *Service) ListProviders(ctx context.Context) ([]*models.ServiceProvider, error) {
	return s.store.ListProviders(ctx)
}

type CreateListingInput struct {
	ProviderID  string   `json:"provider_id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Category    string   `json:"category"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*models.ProviderListing, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}
	if _, err := s.store.GetProvider(ctx, in.ProviderID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	l := &models.ProviderListing{
		ID:          tool.GenerateUUIDV7(),
		ProviderID:  in.ProviderID,
		Title:       strings.TrimSpace(in.Title),
		Category:    strings.TrimSpace(in.Category),
		Keywords:    in.Keywords,
		Description: in.Description,
	}
	if err := s.store.CreateListing(ctx, l); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return l, nil
}

func (s *Service) ListListings(ctx context.Context) ([]*models.ProviderListing, error) {
	return s.store.ListListings(ctx)
}

type CreateLeadServiceInput struct {
	ServiceName string  `json:"service_name"`
	ListingID   *string `json:"listing_id"`
	Notes       string  `json:"notes"`
}

type CreateLeadServiceResult struct {
	LeadService      *models.LeadService       `json:"lead_service"`
	Award            *gamification.AwardResult `json:"award"`
	RefreshTriggered bool                      `json:"refresh_triggered"`
}

// CreateLeadService attaches a suggested service to a lead and awards
// SUGGEST_SERVICE in the same transaction. Services created without a catalog
// listing trigger a recommendation refresh once committed.
func (s *Service) CreateLeadService(ctx context.Context, userID, leadID string, in CreateLeadServiceInput) (*CreateLeadServiceResult, error) {
	if in.ListingID != nil && *in.ListingID == "" {
		in.ListingID = nil
	}
	res := &CreateLeadServiceResult{}
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		lead, err := ownedLead(ctx, tx, userID, leadID)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(in.ServiceName)
		if in.ListingID != nil {
			listing, err := tx.GetListing(ctx, *in.ListingID)
			if errors.Is(err, storage.ErrNotFound) {
				return ErrListingNotFound
			}
			if err != nil {
				return err
			}
			if name == "" {
				name = listing.Title
			}
		}
		if name == "" {
			return fmt.Errorf("%w: service_name", ErrMissingField)
		}

		ls := &models.LeadService{
			ID:              tool.GenerateUUIDV7(),
			LeadID:          lead.ID,
			ListingID:       in.ListingID,
			ServiceName:     name,
			Status:          types.LeadServiceStatusSuggested,
			Notes:           in.Notes,
			AmbassadorID:    userID,
			StatusChangedAt: s.now(),
		}
		if err := tx.CreateLeadService(ctx, ls); err != nil {
			return fmt.Errorf("create lead service: %w", err)
		}
		award, err := s.gam.AwardWithin(ctx, tx, userID, types.ActionTypeSuggestService, gamification.AwardContext{
			LeadID:        lead.ID,
			LeadServiceID: ls.ID,
			Description:   "suggested " + name,
		})
		if err != nil {
			return err
		}
		res.LeadService, res.Award = ls, award
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.gam.Observe(ctx, userID, res.Award)
	if res.LeadService.ListingID == nil && s.refresh != nil {
		res.RefreshTriggered = s.refresh.TriggerRefresh(ctx, leadID)
	}
	return res, nil
}

type UpdateStatusInput struct {
	Status types.LeadServiceStatus `json:"status" binding:"required"`
	Notes  *string                 `json:"notes"`
}

type UpdateStatusResult struct {
	LeadService    *models.LeadService       `json:"lead_service"`
	PreviousStatus types.LeadServiceStatus   `json:"previous_status"`
	Changed        bool                      `json:"changed"`
	Award          *gamification.AwardResult `json:"award,omitempty"`
}

// UpdateStatus moves a lead service through its status machine and awards
// the points for the status entered. Re-sending the current status is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, userID, leadServiceID string, in UpdateStatusInput) (*UpdateStatusResult, error) {
	res := &UpdateStatusResult{}
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		ls, err := tx.GetLeadServiceForUpdate(ctx, leadServiceID)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrLeadServiceNotFound
		}
		if err != nil {
			return err
		}
		if ls.AmbassadorID != userID {
			return ErrLeadServiceNotFound
		}
		res.LeadService, res.PreviousStatus = ls, ls.Status

		changed, err := CheckTransition(ls.Status, in.Status)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		ls.Status = in.Status
		ls.StatusChangedAt = s.now()
		if in.Notes != nil {
			ls.Notes = *in.Notes
		}
		if err := tx.UpdateLeadService(ctx, ls); err != nil {
			return fmt.Errorf("update lead service: %w", err)
		}
		award, err := s.gam.AwardWithin(ctx, tx, userID, StatusAction[in.Status], gamification.AwardContext{
			LeadID:        ls.LeadID,
			LeadServiceID: ls.ID,
			Description:   fmt.Sprintf("%s: %s -> %s", ls.ServiceName, res.PreviousStatus, in.Status),
		})
		if err != nil {
			return err
		}
		res.Changed, res.Award = true, award
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Changed {
		s.gam.Observe(ctx, userID, res.Award)
		logctx.FromCtx(ctx, s.log).Infow("lead_service_status_changed",
			"lead_service_id", leadServiceID, "from", res.PreviousStatus, "to", res.LeadService.Status)
	}
	return res, nil
}

// Recommend ranks catalog listings for a lead, skipping listings already
// attached to it.
func (s *Service) Recommend(ctx context.Context, userID, leadID string, limit int) ([]Recommendation, error) {
	lead, err := ownedLead(ctx, s.store, userID, leadID)
	if err != nil {
		return nil, err
	}
	listings, err := s.store.ListListings(ctx)
	if err != nil {
		return nil, err
	}
	attached, err := s.store.ListLeadServices(ctx, lead.ID)
	if err != nil {
		return nil, err
	}
	exclude := lo.FilterMap(attached, func(ls *models.LeadService, _ int) (string, bool) {
		if ls.ListingID == nil {
			return "", false
		}
		return *ls.ListingID, true
	})
	out := rank(lead.Interests, listings, exclude)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
