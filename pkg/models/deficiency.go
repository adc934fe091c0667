package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deficiency is one citation from a health inspection survey, keyed by
// (ccn, survey date, deficiency tag).
type Deficiency struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CCN        string    `gorm:"column:ccn;not null;uniqueIndex:idx_deficiency_key,priority:1" json:"ccn"`
	SurveyDate string    `gorm:"column:survey_date;type:date;not null;uniqueIndex:idx_deficiency_key,priority:2" json:"survey_date"`
	Tag        string    `gorm:"column:tag;not null;uniqueIndex:idx_deficiency_key,priority:3" json:"tag"`

	Description     string  `gorm:"column:description" json:"description"`
	ScopeSeverity   string  `gorm:"column:scope_severity" json:"scope_severity"`
	Category        string  `gorm:"column:category" json:"category"`
	StandardSurvey  bool    `gorm:"column:standard_survey;not null;default:false" json:"standard_survey"`
	ComplaintSurvey bool    `gorm:"column:complaint_survey;not null;default:false" json:"complaint_survey"`
	CorrectionDate  *string `gorm:"column:correction_date;type:date" json:"correction_date,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Deficiency) TableName() string { return "deficiency" }

func (d *Deficiency) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
