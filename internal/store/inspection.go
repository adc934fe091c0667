package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/villagecare/cms-sync/internal/etl"
	"github.com/villagecare/cms-sync/pkg/models"
)

// InspectionStore upserts InspectionReport rows keyed by (ccn, survey date).
type InspectionStore struct {
	db *gorm.DB
}

func NewInspectionStore(db *gorm.DB) *InspectionStore {
	return &InspectionStore{db: db}
}

var inspectionUpdates = []string{"pdf_url", "updated_at"}

func (s *InspectionStore) Upsert(ctx context.Context, rec interface{}) (etl.Outcome, error) {
	r, ok := rec.(*models.InspectionReport)
	if !ok {
		return etl.OutcomeFailed, fmt.Errorf("inspection store: unexpected record type %T", rec)
	}

	exists, err := keyExists(ctx, s.db, &models.InspectionReport{},
		"ccn = ? AND survey_date = ?", r.CCN, r.SurveyDate)
	if err != nil {
		return etl.OutcomeFailed, err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ccn"}, {Name: "survey_date"}},
		DoUpdates: clause.AssignmentColumns(inspectionUpdates),
	}).Create(r).Error
	if err != nil {
		return etl.OutcomeFailed, err
	}
	return outcomeFor(exists), nil
}
