package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/villagecare/cms-sync/internal/etl"
	"github.com/villagecare/cms-sync/pkg/models"
)

// QualityStore upserts QualityMeasure rows keyed by (ccn, code, quarter).
type QualityStore struct {
	db *gorm.DB
}

func NewQualityStore(db *gorm.DB) *QualityStore {
	return &QualityStore{db: db}
}

var qualityUpdates = []string{"description", "score", "updated_at"}

func (s *QualityStore) Upsert(ctx context.Context, rec interface{}) (etl.Outcome, error) {
	q, ok := rec.(*models.QualityMeasure)
	if !ok {
		return etl.OutcomeFailed, fmt.Errorf("quality store: unexpected record type %T", rec)
	}

	exists, err := keyExists(ctx, s.db, &models.QualityMeasure{},
		"ccn = ? AND measure_code = ? AND quarter = ?", q.CCN, q.MeasureCode, q.Quarter)
	if err != nil {
		return etl.OutcomeFailed, err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ccn"}, {Name: "measure_code"}, {Name: "quarter"}},
		DoUpdates: clause.AssignmentColumns(qualityUpdates),
	}).Create(q).Error
	if err != nil {
		return etl.OutcomeFailed, err
	}
	return outcomeFor(exists), nil
}
