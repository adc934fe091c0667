// Package models defines the destination tables for the CMS sync. Natural-key
// uniqueness is enforced with unique indexes so upserts can run as a single
// ON CONFLICT statement.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Community is the destination row for a nursing-home facility. Rows are
// created on first sight of a CCN and updated in place afterwards; the sync
// never deletes them. CCN is nullable because communities can be entered
// manually before a CMS link is confirmed.
type Community struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CCN  *string   `gorm:"column:ccn;uniqueIndex" json:"ccn,omitempty"`
	Slug string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name string    `gorm:"not null" json:"name"`

	Address string `json:"address"`
	City    string `json:"city"`
	County  string `gorm:"index" json:"county"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Phone   string `json:"phone"`

	OverallRating          *float64 `gorm:"column:overall_rating" json:"overall_rating,omitempty"`
	HealthInspectionRating *float64 `gorm:"column:health_inspection_rating" json:"health_inspection_rating,omitempty"`
	StaffingRating         *float64 `gorm:"column:staffing_rating" json:"staffing_rating,omitempty"`
	QualityRating          *float64 `gorm:"column:quality_rating" json:"quality_rating,omitempty"`

	AbuseIcon          bool     `gorm:"column:abuse_icon;not null;default:false" json:"abuse_icon"`
	CertifiedBeds      *int     `gorm:"column:certified_beds" json:"certified_beds,omitempty"`
	AvgResidentsPerDay *float64 `gorm:"column:avg_residents_per_day" json:"avg_residents_per_day,omitempty"`
	OwnershipType      string   `gorm:"column:ownership_type" json:"ownership_type"`
	ProviderType       string   `gorm:"column:provider_type" json:"provider_type"`
	CertificationDate  *string  `gorm:"column:certification_date;type:date" json:"certification_date,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Community) TableName() string { return "community" }

func (c *Community) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
