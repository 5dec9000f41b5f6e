package models

import (
	"time"

	"github.com/bitforce/ambassador/pkg/types"
)

// AmbassadorPoints is the aggregate points/level/streak state of one user. It
// can always be rebuilt from the AmbassadorAction log.
type AmbassadorPoints struct {
	ID            string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID        string `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex" json:"user_id"`
	TotalPoints   int64  `gorm:"column:total_points;type:bigint;not null;default:0" json:"total_points"`
	Level         int    `gorm:"column:level;not null;default:1" json:"level"`
	CurrentStreak int    `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak int    `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	// LastActivityDate is a calendar day, "2006-01-02", empty before the first activity.
	LastActivityDate string    `gorm:"column:last_activity_date;type:varchar(10)" json:"last_activity_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (AmbassadorPoints) TableName() string {
	return "ambassador_points"
}

// AmbassadorAction is the append-only audit of every point award.
type AmbassadorAction struct {
	ID            string           `gorm:"column:id;type:uuid;primary_key;index:idx_action_user_id_id,priority:2,sort:desc" json:"id"`
	UserID        string           `gorm:"column:user_id;type:varchar(64);not null;index:idx_action_user_id_id,priority:1" json:"user_id"`
	ActionType    types.ActionType `gorm:"column:action_type;type:varchar(64);not null" json:"action_type"`
	PointsAwarded int64            `gorm:"column:points_awarded;type:bigint;not null" json:"points_awarded"`
	LeadID        *string          `gorm:"column:lead_id;type:uuid" json:"lead_id"`
	LeadServiceID *string          `gorm:"column:lead_service_id;type:uuid" json:"lead_service_id"`
	Description   string           `gorm:"column:description;type:text" json:"description"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (AmbassadorAction) TableName() string {
	return "ambassador_action"
}

type AmbassadorBadge struct {
	ID        string          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID    string          `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:unique_user_badge,priority:1" json:"user_id"`
	BadgeType types.BadgeType `gorm:"column:badge_type;type:varchar(64);not null;uniqueIndex:unique_user_badge,priority:2" json:"badge_type"`
	EarnedAt  time.Time       `gorm:"column:earned_at;not null" json:"earned_at"`
}

func (AmbassadorBadge) TableName() string {
	return "ambassador_badge"
}
