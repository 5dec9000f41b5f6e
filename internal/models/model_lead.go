package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/bitforce/ambassador/pkg/types"
)

// Lead is a prospective customer captured by an ambassador. Immutable after
// creation; progress is tracked on its LeadService rows.
type Lead struct {
	ID           string                      `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AmbassadorID string                      `gorm:"column:ambassador_id;type:varchar(64);not null;index" json:"ambassador_id"`
	FullName     string                      `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	Email        string                      `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone        string                      `gorm:"column:phone;type:varchar(64)" json:"phone"`
	Address      string                      `gorm:"column:address;type:text" json:"address"`
	Interests    datatypes.JSONSlice[string] `gorm:"column:interests;type:jsonb;default:'[]'" json:"interests"`
	CreatedAt    time.Time                   `json:"created_at"`
}

func (Lead) TableName() string {
	return "lead"
}

type ServiceProvider struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Website   string    `gorm:"column:website;type:varchar(512)" json:"website"`
	Email     string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone     string    `gorm:"column:phone;type:varchar(64)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ServiceProvider) TableName() string {
	return "service_provider"
}

// ProviderListing is a curated service offering matched against Lead.Interests.
type ProviderListing struct {
	ID          string                      `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ProviderID  string                      `gorm:"column:provider_id;type:uuid;not null;index" json:"provider_id"`
	Title       string                      `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Category    string                      `gorm:"column:category;type:varchar(128);index" json:"category"`
	Keywords    datatypes.JSONSlice[string] `gorm:"column:keywords;type:jsonb;default:'[]'" json:"keywords"`
	Description string                      `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (ProviderListing) TableName() string {
	return "provider_listing"
}

// LeadService joins a lead to a suggested service and tracks its status.
type LeadService struct {
	ID              string                  `gorm:"column:id;type:uuid;primary_key" json:"id"`
	LeadID          string                  `gorm:"column:lead_id;type:uuid;not null;index" json:"lead_id"`
	ListingID       *string                 `gorm:"column:listing_id;type:uuid" json:"listing_id"`
	ServiceName     string                  `gorm:"column:service_name;type:varchar(255);not null" json:"service_name"`
	Status          types.LeadServiceStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	Notes           string                  `gorm:"column:notes;type:text" json:"notes"`
	AmbassadorID    string                  `gorm:"column:ambassador_id;type:varchar(64);not null;index" json:"ambassador_id"`
	StatusChangedAt time.Time               `gorm:"column:status_changed_at" json:"status_changed_at"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

func (LeadService) TableName() string {
	return "lead_service"
}
