package billing

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/types"
)

const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventInvoicePaid         = "invoice.payment_succeeded"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"

	purposeSignupFee     = "signup_fee"
	billingReasonRenewal = "subscription_cycle"
)

var ErrMalformedEvent = fmt.Errorf("%w: malformed billing event", errs.ErrValidation)

// Event is the envelope common to every Stripe event.
type Event struct {
	ID      string
	Type    string
	Created time.Time
	Object  gjson.Result
}

func ParseEvent(payload []byte) (*Event, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedEvent)
	}
	root := gjson.ParseBytes(payload)
	ev := &Event{
		ID:      root.Get("id").String(),
		Type:    root.Get("type").String(),
		Created: time.Unix(root.Get("created").Int(), 0).UTC(),
		Object:  root.Get("data.object"),
	}
	if ev.ID == "" || ev.Type == "" || !ev.Object.IsObject() {
		return nil, fmt.Errorf("%w: missing id, type or data.object", ErrMalformedEvent)
	}
	return ev, nil
}

// CustomerID returns the Stripe customer the event refers to.
func (e *Event) CustomerID() string {
	return e.Object.Get("customer").String()
}

// AmbassadorRef returns the ambassador id stamped into metadata at checkout.
func (e *Event) AmbassadorRef() string {
	for _, path := range []string{
		"metadata.ambassador_id",
		"subscription_details.metadata.ambassador_id",
		"lines.data.0.metadata.ambassador_id",
		"client_reference_id",
	} {
		if v := e.Object.Get(path).String(); v != "" {
			return v
		}
	}
	return ""
}

type SignupFeeEvent struct {
	AmbassadorID   string `validate:"required"`
	CustomerID     string
	SubscriptionID string
}

type RecurringChargeEvent struct {
	AmbassadorID string          `validate:"required"`
	Month        string          `validate:"required,yyyymm"`
	Amount       decimal.Decimal `validate:"-"`
}

type SubscriptionStatusEvent struct {
	AmbassadorID string                             `validate:"required"`
	Status       types.AmbassadorSubscriptionStatus `validate:"required,oneof=inactive active past_due canceled"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("yyyymm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01", fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(fmt.Sprintf("billing: register yyyymm validation: %v", err))
	}
	return v
}

// IsSignupFee reports whether a completed checkout paid the signup fee.
func (e *Event) IsSignupFee() bool {
	return e.Object.Get("metadata.purpose").String() == purposeSignupFee
}

// IsRecurringCycle reports whether a paid invoice is a monthly renewal.
func (e *Event) IsRecurringCycle() bool {
	return e.Object.Get("billing_reason").String() == billingReasonRenewal
}

// ChargeMonth is the billing month of the invoice's first line, in UTC.
func (e *Event) ChargeMonth() string {
	start := e.Object.Get("lines.data.0.period.start")
	if !start.Exists() {
		start = e.Object.Get("period_start")
	}
	if !start.Exists() {
		return e.Created.Format("2006-01")
	}
	return time.Unix(start.Int(), 0).UTC().Format("2006-01")
}

// AmountPaid converts amount_paid from cents.
func (e *Event) AmountPaid() decimal.Decimal {
	return decimal.New(e.Object.Get("amount_paid").Int(), -2)
}

// SubscriptionStatus maps a Stripe subscription status onto the ambassador
// lifecycle.
func (e *Event) SubscriptionStatus() types.AmbassadorSubscriptionStatus {
	if e.Type == EventSubscriptionDeleted {
		return types.AmbassadorSubscriptionStatusCanceled
	}
	switch e.Object.Get("status").String() {
	case "active", "trialing":
		return types.AmbassadorSubscriptionStatusActive
	case "past_due", "unpaid":
		return types.AmbassadorSubscriptionStatusPastDue
	case "canceled", "incomplete_expired":
		return types.AmbassadorSubscriptionStatusCanceled
	case "incomplete", "paused":
		return types.AmbassadorSubscriptionStatusInactive
	}
	return ""
}
