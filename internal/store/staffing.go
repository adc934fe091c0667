package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/villagecare/cms-sync/internal/etl"
	"github.com/villagecare/cms-sync/pkg/models"
)

// StaffingStore upserts the per-facility staffing rollup row.
type StaffingStore struct {
	db *gorm.DB
}

func NewStaffingStore(db *gorm.DB) *StaffingStore {
	return &StaffingStore{db: db}
}

var staffingUpdates = []string{
	"window_end", "window_records", "avg_daily_census",
	"rn_hprd", "lpn_hprd", "cna_hprd", "total_nurse_hprd",
	"weekday_hprd", "weekend_hprd", "weekend_delta_pct", "updated_at",
}

func (s *StaffingStore) Upsert(ctx context.Context, rec interface{}) (etl.Outcome, error) {
	r, ok := rec.(*models.StaffingRollup)
	if !ok {
		return etl.OutcomeFailed, fmt.Errorf("staffing store: unexpected record type %T", rec)
	}

	exists, err := keyExists(ctx, s.db, &models.StaffingRollup{}, "ccn = ?", r.CCN)
	if err != nil {
		return etl.OutcomeFailed, err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ccn"}},
		DoUpdates: clause.AssignmentColumns(staffingUpdates),
	}).Create(r).Error
	if err != nil {
		return etl.OutcomeFailed, err
	}
	return outcomeFor(exists), nil
}
