package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/villagecare/cms-sync/internal/etl"
	"github.com/villagecare/cms-sync/pkg/models"
)

// OwnershipStore upserts OwnershipRecord rows keyed by (ccn, owner, role).
type OwnershipStore struct {
	db *gorm.DB
}

func NewOwnershipStore(db *gorm.DB) *OwnershipStore {
	return &OwnershipStore{db: db}
}

var ownershipUpdates = []string{
	"owner_type", "ownership_percentage", "association_date", "updated_at",
}

func (s *OwnershipStore) Upsert(ctx context.Context, rec interface{}) (etl.Outcome, error) {
	o, ok := rec.(*models.OwnershipRecord)
	if !ok {
		return etl.OutcomeFailed, fmt.Errorf("ownership store: unexpected record type %T", rec)
	}

	exists, err := keyExists(ctx, s.db, &models.OwnershipRecord{},
		"ccn = ? AND owner_name = ? AND role = ?", o.CCN, o.OwnerName, o.Role)
	if err != nil {
		return etl.OutcomeFailed, err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ccn"}, {Name: "owner_name"}, {Name: "role"}},
		DoUpdates: clause.AssignmentColumns(ownershipUpdates),
	}).Create(o).Error
	if err != nil {
		return etl.OutcomeFailed, err
	}
	return outcomeFor(exists), nil
}
