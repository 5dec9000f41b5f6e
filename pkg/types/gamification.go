package types

type ActionType string

const (
	ActionTypeSuggestService  ActionType = "SUGGEST_SERVICE"
	ActionTypeContactLead     ActionType = "CONTACT_LEAD"
	ActionTypeLeadInterested  ActionType = "LEAD_INTERESTED"
	ActionTypeMakeSale        ActionType = "MAKE_SALE"
	ActionTypeLeadDeclined    ActionType = "LEAD_DECLINED"
	ActionTypeDailyLogin      ActionType = "DAILY_LOGIN"
	ActionTypeStreakBonus7    ActionType = "STREAK_BONUS_7"
	ActionTypeStreakBonus30   ActionType = "STREAK_BONUS_30"
	ActionTypeGenerateDesign  ActionType = "GENERATE_DESIGN"
	ActionTypeAdminAdjustment ActionType = "ADMIN_ADJUSTMENT"
)

type BadgeType string

const (
	BadgeTypeFirstSale   BadgeType = "FIRST_SALE"
	BadgeTypeSales10     BadgeType = "SALES_10"
	BadgeTypeSales50     BadgeType = "SALES_50"
	BadgeTypeStreak7     BadgeType = "STREAK_7"
	BadgeTypeStreak30    BadgeType = "STREAK_30"
	BadgeTypeLevel5      BadgeType = "LEVEL_5"
	BadgeTypeLevel10     BadgeType = "LEVEL_10"
	BadgeTypeFirstDesign BadgeType = "FIRST_DESIGN"
)
