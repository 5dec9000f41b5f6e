package models

import (
	"time"

	"github.com/bitforce/ambassador/pkg/types"
)

type Invitation struct {
	ID           string                 `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AmbassadorID string                 `gorm:"column:ambassador_id;type:uuid;not null;index" json:"ambassador_id"`
	Email        string                 `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Name         string                 `gorm:"column:name;type:varchar(255)" json:"name"`
	ReferralLink string                 `gorm:"column:referral_link;type:varchar(512);not null" json:"referral_link"`
	Status       types.InvitationStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	Error        *string                `gorm:"column:error;type:text" json:"error,omitempty"`
	SentAt       *time.Time             `gorm:"column:sent_at;default:null" json:"sent_at"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func (Invitation) TableName() string {
	return "ambassador_invitation"
}
