package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/bitforce/ambassador/internal/app/service/referral"
	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/logctx"
)

const ProviderStripe = "stripe"

var ErrUnknownAmbassador = fmt.Errorf("%w: billing event does not resolve to an ambassador", errs.ErrNotFound)

type Service struct {
	cfg      *config.Config
	store    storage.Store
	referral *referral.Service
	events   *EventLog
	log      *zap.SugaredLogger
	validate *validator.Validate
	now      func() time.Time
}

func NewService(cfg *config.Config, store storage.Store, ref *referral.Service, events *EventLog, log *zap.SugaredLogger) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		referral: ref,
		events:   events,
		log:      log,
		validate: newValidator(),
		now:      time.Now,
	}
}

type Outcome struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Ignored   bool   `json:"ignored"`
	Result    any    `json:"result,omitempty"`
}

// HandleStripeWebhook verifies and dispatches one Stripe delivery. Every
// verified delivery is logged as received and then handled or handle_failed.
func (s *Service) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (out *Outcome, resErr error) {
	lg := logctx.FromCtx(ctx, s.log)
	if err := VerifySignature(payload, signature, s.cfg.Billing.WebhookSecret, s.now(), s.cfg.Billing.SignatureMaxSkew); err != nil {
		lg.Warnw("billing_signature_rejected", "err", err)
		return nil, err
	}
	ev, err := ParseEvent(payload)
	if err != nil {
		return nil, err
	}

	traceID := logctx.TraceID(ctx)
	entry := &models.BillingEventLog{
		Provider:  ProviderStripe,
		EventID:   ev.ID,
		EventType: ev.Type,
		TraceID:   traceID,
		Data:      datatypes.JSON(payload),
		Status:    models.BillingEventLogStatusReceived,
	}
	s.events.Save(ctx, entry)

	var ambassadorID string
	defer func() {
		result := map[string]any{"outcome": out}
		if resErr != nil {
			result = map[string]any{"error": resErr.Error()}
		}
		resBytes, err := json.Marshal(result)
		if err != nil {
			lg.Errorw("billing_event_result_marshal_failed", "event_id", ev.ID, "err", err)
			resBytes = []byte("{}")
		}
		final := *entry
		final.ID = ""
		final.Status = models.BillingEventLogStatusHandled
		if resErr != nil {
			final.Status = models.BillingEventLogStatusHandleFailed
		}
		if ambassadorID != "" {
			final.AmbassadorID = lo.ToPtr(ambassadorID)
		}
		j := datatypes.JSON(resBytes)
		final.Result = &j
		s.events.Save(ctx, &final)
	}()

	out = &Outcome{EventID: ev.ID, EventType: ev.Type}
	switch {
	case ev.Type == EventCheckoutCompleted && ev.IsSignupFee():
		ambassadorID, err = s.resolveAmbassador(ctx, ev)
		if err != nil {
			return nil, err
		}
		in := SignupFeeEvent{
			AmbassadorID:   ambassadorID,
			CustomerID:     ev.CustomerID(),
			SubscriptionID: ev.Object.Get("subscription").String(),
		}
		if err := s.check(in); err != nil {
			return nil, err
		}
		out.Result, err = s.referral.HandleSignupFeePaid(ctx, referral.SignupFeePaid{
			AmbassadorID:         in.AmbassadorID,
			StripeCustomerID:     in.CustomerID,
			StripeSubscriptionID: in.SubscriptionID,
		})
	case ev.Type == EventInvoicePaid && ev.IsRecurringCycle():
		ambassadorID, err = s.resolveAmbassador(ctx, ev)
		if errors.Is(err, ErrUnknownAmbassador) {
			return s.ignoreForeignCustomer(lg, out, ev), nil
		}
		if err != nil {
			return nil, err
		}
		in := RecurringChargeEvent{AmbassadorID: ambassadorID, Month: ev.ChargeMonth(), Amount: ev.AmountPaid()}
		if err := s.check(in); err != nil {
			return nil, err
		}
		out.Result, err = s.referral.HandleRecurringCharge(ctx, in.AmbassadorID, in.Month, in.Amount)
	case ev.Type == EventSubscriptionUpdated || ev.Type == EventSubscriptionDeleted:
		ambassadorID, err = s.resolveAmbassador(ctx, ev)
		if errors.Is(err, ErrUnknownAmbassador) {
			return s.ignoreForeignCustomer(lg, out, ev), nil
		}
		if err != nil {
			return nil, err
		}
		in := SubscriptionStatusEvent{AmbassadorID: ambassadorID, Status: ev.SubscriptionStatus()}
		if err := s.check(in); err != nil {
			return nil, err
		}
		out.Result, err = s.referral.UpdateSubscriptionStatus(ctx, in.AmbassadorID, in.Status)
	default:
		out.Ignored = true
		lg.Infow("billing_event_ignored", "event_id", ev.ID, "event_type", ev.Type)
		return out, nil
	}
	if err != nil {
		lg.Errorw("billing_event_failed", "event_id", ev.ID, "event_type", ev.Type, "err", err)
		return nil, err
	}
	lg.Infow("billing_event_handled", "event_id", ev.ID, "event_type", ev.Type, "ambassador_id", ambassadorID)
	return out, nil
}

// ignoreForeignCustomer acknowledges renewals and subscription changes of
// Stripe customers that are not ambassadors. The account bills other
// products too, so these must not be retried.
func (s *Service) ignoreForeignCustomer(lg *zap.SugaredLogger, out *Outcome, ev *Event) *Outcome {
	out.Ignored = true
	lg.Warnw("billing_event_no_ambassador", "event_id", ev.ID, "event_type", ev.Type, "customer", ev.CustomerID())
	return out
}

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return nil
}

// resolveAmbassador prefers the id stamped into metadata and falls back to
// the Stripe customer.
func (s *Service) resolveAmbassador(ctx context.Context, ev *Event) (string, error) {
	if id := ev.AmbassadorRef(); id != "" {
		amb, err := s.store.GetAmbassador(ctx, id)
		if err == nil {
			return amb.ID, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return "", err
		}
	}
	if cust := ev.CustomerID(); cust != "" {
		amb, err := s.store.GetAmbassadorByStripeCustomerID(ctx, cust)
		if err == nil {
			return amb.ID, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return "", err
		}
	}
	return "", ErrUnknownAmbassador
}
