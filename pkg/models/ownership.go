package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnershipRecord is one owner/operator relationship reported for a facility.
type OwnershipRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CCN       string    `gorm:"column:ccn;not null;uniqueIndex:idx_ownership_key,priority:1" json:"ccn"`
	OwnerName string    `gorm:"column:owner_name;not null;uniqueIndex:idx_ownership_key,priority:2" json:"owner_name"`
	Role      string    `gorm:"column:role;not null;uniqueIndex:idx_ownership_key,priority:3" json:"role"`

	OwnerType           string   `gorm:"column:owner_type" json:"owner_type"`
	OwnershipPercentage *float64 `gorm:"column:ownership_percentage" json:"ownership_percentage,omitempty"`
	AssociationDate     *string  `gorm:"column:association_date;type:date" json:"association_date,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (OwnershipRecord) TableName() string { return "ownership_record" }

func (o *OwnershipRecord) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
