package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InspectionReport links a survey to its full inspection report PDF.
type InspectionReport struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CCN        string    `gorm:"column:ccn;not null;uniqueIndex:idx_inspection_key,priority:1" json:"ccn"`
	SurveyDate string    `gorm:"column:survey_date;type:date;not null;uniqueIndex:idx_inspection_key,priority:2" json:"survey_date"`

	PDFURL string `gorm:"column:pdf_url;not null" json:"pdf_url"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (InspectionReport) TableName() string { return "inspection_report" }

func (r *InspectionReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
