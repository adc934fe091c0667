package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/villagecare/cms-sync/internal/etl"
	"github.com/villagecare/cms-sync/pkg/models"
)

// DeficiencyStore upserts Deficiency rows keyed by (ccn, survey date, tag).
type DeficiencyStore struct {
	db *gorm.DB
}

func NewDeficiencyStore(db *gorm.DB) *DeficiencyStore {
	return &DeficiencyStore{db: db}
}

var deficiencyUpdates = []string{
	"description", "scope_severity", "category",
	"standard_survey", "complaint_survey", "correction_date", "updated_at",
}

func (s *DeficiencyStore) Upsert(ctx context.Context, rec interface{}) (etl.Outcome, error) {
	d, ok := rec.(*models.Deficiency)
	if !ok {
		return etl.OutcomeFailed, fmt.Errorf("deficiency store: unexpected record type %T", rec)
	}

	exists, err := keyExists(ctx, s.db, &models.Deficiency{},
		"ccn = ? AND survey_date = ? AND tag = ?", d.CCN, d.SurveyDate, d.Tag)
	if err != nil {
		return etl.OutcomeFailed, err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ccn"}, {Name: "survey_date"}, {Name: "tag"}},
		DoUpdates: clause.AssignmentColumns(deficiencyUpdates),
	}).Create(d).Error
	if err != nil {
		return etl.OutcomeFailed, err
	}
	return outcomeFor(exists), nil
}
