package types

type BFTTransactionType string

const (
	BFTTransactionTypeLeadSale          BFTTransactionType = "lead_sale"
	BFTTransactionTypeReferralBonus     BFTTransactionType = "referral_bonus"
	BFTTransactionTypeRecurringOverride BFTTransactionType = "recurring_override"
	BFTTransactionTypeAchievement       BFTTransactionType = "achievement"
	BFTTransactionTypeStreakBonus       BFTTransactionType = "streak_bonus"
	BFTTransactionTypeAdminAdjustment   BFTTransactionType = "admin_adjustment"
	BFTTransactionTypeRedemption        BFTTransactionType = "redemption"
)

func (t BFTTransactionType) Valid() bool {
	switch t {
	case BFTTransactionTypeLeadSale, BFTTransactionTypeReferralBonus, BFTTransactionTypeRecurringOverride,
		BFTTransactionTypeAchievement, BFTTransactionTypeStreakBonus, BFTTransactionTypeAdminAdjustment,
		BFTTransactionTypeRedemption:
		return true
	}
	return false
}
