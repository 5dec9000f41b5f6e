package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitforce/ambassador/pkg/types"
)

// AmbassadorSubscription is an ambassador's identity, referral linkage and
// billing state. Rows are never hard-deleted; SubscriptionStatus models the
// lifecycle.
type AmbassadorSubscription struct {
	ID           string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID       string `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex" json:"user_id"`
	Email        string `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	FullName     string `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	ReferralCode string `gorm:"column:referral_code;type:varchar(32);not null;uniqueIndex" json:"referral_code"`
	// ReferredByCode is the code entered at signup; ReferredByID is the
	// ambassador it resolved to when the row was written.
	ReferredByCode       *string                            `gorm:"column:referred_by_code;type:varchar(32)" json:"referred_by_code"`
	ReferredByID         *string                            `gorm:"column:referred_by_id;type:uuid;index" json:"referred_by_id"`
	StripeCustomerID     *string                            `gorm:"column:stripe_customer_id;type:varchar(128);index" json:"stripe_customer_id"`
	StripeSubscriptionID *string                            `gorm:"column:stripe_subscription_id;type:varchar(128)" json:"stripe_subscription_id"`
	SignupFeePaid        bool                               `gorm:"column:signup_fee_paid;not null;default:false" json:"signup_fee_paid"`
	SubscriptionStatus   types.AmbassadorSubscriptionStatus `gorm:"column:subscription_status;type:varchar(32);not null" json:"subscription_status"`
	FirstMonthCompleted  bool                               `gorm:"column:first_month_completed;not null;default:false" json:"first_month_completed"`
	// Tier selects the commission policy applied to this ambassador's referrer.
	Tier string `gorm:"column:tier;type:varchar(64)" json:"tier"`
	// BFTBalance caches the balance_after of the latest BFT transaction.
	BFTBalance decimal.Decimal `gorm:"column:bft_balance;type:numeric(20,8);not null;default:0" json:"bft_balance"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (AmbassadorSubscription) TableName() string {
	return "ambassador_subscription"
}

func (a *AmbassadorSubscription) Active() bool {
	return a != nil && a.SubscriptionStatus == types.AmbassadorSubscriptionStatusActive
}
