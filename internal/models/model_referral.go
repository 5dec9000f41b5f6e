package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitforce/ambassador/pkg/types"
)

// ReferralBonus is the one-time bonus an ambassador earns when a recruit pays
// the signup fee.
type ReferralBonus struct {
	ID                   string                 `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AmbassadorID         string                 `gorm:"column:ambassador_id;type:uuid;not null;uniqueIndex:unique_referral_bonus_pair,priority:1" json:"ambassador_id"`
	ReferredAmbassadorID string                 `gorm:"column:referred_ambassador_id;type:uuid;not null;uniqueIndex:unique_referral_bonus_pair,priority:2" json:"referred_ambassador_id"`
	BonusAmount          decimal.Decimal        `gorm:"column:bonus_amount;type:numeric(20,8);not null;default:50" json:"bonus_amount"`
	Status               types.CommissionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	PaidAt               *time.Time             `gorm:"column:paid_at;default:null" json:"paid_at"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

func (ReferralBonus) TableName() string {
	return "referral_bonus"
}

// RecurringOverride is the monthly commission on a recruit's subscription charge.
type RecurringOverride struct {
	ID                   string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AmbassadorID         string `gorm:"column:ambassador_id;type:uuid;not null;uniqueIndex:unique_recurring_override_month,priority:1" json:"ambassador_id"`
	ReferredAmbassadorID string `gorm:"column:referred_ambassador_id;type:uuid;not null;uniqueIndex:unique_recurring_override_month,priority:2" json:"referred_ambassador_id"`
	// Month is the billing month key, e.g. "2025-01".
	Month         string                 `gorm:"column:month;type:varchar(7);not null;uniqueIndex:unique_recurring_override_month,priority:3" json:"month"`
	MonthlyAmount decimal.Decimal        `gorm:"column:monthly_amount;type:numeric(20,8);not null;default:4" json:"monthly_amount"`
	ChargeAmount  decimal.Decimal        `gorm:"column:charge_amount;type:numeric(20,8);not null;default:0" json:"charge_amount"`
	Tier          string                 `gorm:"column:tier;type:varchar(64)" json:"tier"`
	Status        types.CommissionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	PaidAt        *time.Time             `gorm:"column:paid_at;default:null" json:"paid_at"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func (RecurringOverride) TableName() string {
	return "recurring_override"
}
