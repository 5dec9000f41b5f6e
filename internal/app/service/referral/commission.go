package referral

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bitforce/ambassador/pkg/config"
)

var hundred = decimal.NewFromInt(100)

// CommissionFor returns the monthly override a tier pays on a recruit's
// charge: the flat amount, or the percentage of the charge rounded to cents.
func CommissionFor(tier config.CommissionTier, charge decimal.Decimal) (decimal.Decimal, error) {
	switch tier.Mode {
	case config.CommissionModeFlat, "":
		if tier.FlatAmount == "" {
			return decimal.NewFromInt(4), nil
		}
		return decimal.NewFromString(tier.FlatAmount)
	case config.CommissionModePercent:
		pct, err := decimal.NewFromString(tier.Percent)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid commission percent %q: %w", tier.Percent, err)
		}
		return charge.Mul(pct).Div(hundred).Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown commission mode %q", tier.Mode)
	}
}
