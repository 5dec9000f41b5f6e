package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitforce/ambassador/pkg/types"
)

// BFTTransaction is one entry of an ambassador's append-only earned-token
// ledger. For consecutive sequences n-1, n:
// BalanceAfter[n] == BalanceAfter[n-1] + Amount[n].
type BFTTransaction struct {
	ID              string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AmbassadorID    string                   `gorm:"column:ambassador_id;type:uuid;not null;uniqueIndex:unique_bft_ambassador_sequence,priority:1" json:"ambassador_id"`
	Sequence        int64                    `gorm:"column:sequence;type:bigint;not null;uniqueIndex:unique_bft_ambassador_sequence,priority:2" json:"sequence"`
	TransactionType types.BFTTransactionType `gorm:"column:transaction_type;type:varchar(64);not null;index" json:"transaction_type"`
	Amount          decimal.Decimal          `gorm:"column:amount;type:numeric(20,8);not null" json:"amount"`
	BalanceAfter    decimal.Decimal          `gorm:"column:balance_after;type:numeric(20,8);not null" json:"balance_after"`
	Description     string                   `gorm:"column:description;type:text" json:"description"`
	Reference       string                   `gorm:"column:reference;type:varchar(255);index" json:"reference"`
	CreatedAt       time.Time                `json:"created_at"`
}

func (BFTTransaction) TableName() string {
	return "bft_transaction"
}
