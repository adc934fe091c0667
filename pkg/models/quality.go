package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QualityMeasure is one MDS quality measure score for a facility and quarter.
type QualityMeasure struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CCN         string    `gorm:"column:ccn;not null;uniqueIndex:idx_quality_key,priority:1" json:"ccn"`
	MeasureCode string    `gorm:"column:measure_code;not null;uniqueIndex:idx_quality_key,priority:2" json:"measure_code"`
	Quarter     string    `gorm:"column:quarter;not null;uniqueIndex:idx_quality_key,priority:3" json:"quarter"`

	Description string   `gorm:"column:description" json:"description"`
	Score       *float64 `gorm:"column:score" json:"score,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QualityMeasure) TableName() string { return "quality_measure" }

func (q *QualityMeasure) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
