// Package store persists transformed records into the destination tables.
// Every sink writes through a single INSERT ... ON CONFLICT statement keyed
// by the natural-key unique index, so overlapping runs cannot duplicate
// rows; the lookup preceding the write only classifies the outcome as
// inserted vs updated.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/villagecare/cms-sync/internal/etl"
	"github.com/villagecare/cms-sync/pkg/models"
	"github.com/villagecare/cms-sync/pkg/utils"
)

// CommunityStore upserts Community rows keyed by CCN.
type CommunityStore struct {
	db *gorm.DB
}

func NewCommunityStore(db *gorm.DB) *CommunityStore {
	return &CommunityStore{db: db}
}

var communityUpdates = []string{
	"name", "address", "city", "county", "state", "zip", "phone",
	"overall_rating", "health_inspection_rating", "staffing_rating", "quality_rating",
	"abuse_icon", "certified_beds", "avg_residents_per_day",
	"ownership_type", "provider_type", "certification_date", "updated_at",
}

func (s *CommunityStore) Upsert(ctx context.Context, rec interface{}) (etl.Outcome, error) {
	c, ok := rec.(*models.Community)
	if !ok {
		return etl.OutcomeFailed, fmt.Errorf("community store: unexpected record type %T", rec)
	}
	if c.CCN == nil || *c.CCN == "" {
		return etl.OutcomeFailed, errors.New("community store: record has no ccn")
	}

	exists, err := keyExists(ctx, s.db, &models.Community{}, "ccn = ?", *c.CCN)
	if err != nil {
		return etl.OutcomeFailed, err
	}

	if err := s.ensureSlug(ctx, c); err != nil {
		return etl.OutcomeFailed, err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ccn"}},
		DoUpdates: clause.AssignmentColumns(communityUpdates),
	}).Create(c).Error
	if err != nil {
		return etl.OutcomeFailed, err
	}
	return outcomeFor(exists), nil
}

// ensureSlug derives a URL-safe slug from the name, suffixing the CCN when
// another community already owns the base slug.
func (s *CommunityStore) ensureSlug(ctx context.Context, c *models.Community) error {
	base := utils.Slugify(c.Name)
	taken, err := keyExists(ctx, s.db, &models.Community{},
		"slug = ? AND (ccn IS NULL OR ccn <> ?)", base, *c.CCN)
	if err != nil {
		return err
	}
	if taken {
		base = base + "-" + *c.CCN
	}
	c.Slug = base
	return nil
}

// ListUnlinked returns communities that have no CCN yet, the input set for
// the match utility.
func (s *CommunityStore) ListUnlinked(ctx context.Context) ([]*models.Community, error) {
	var out []*models.Community
	err := s.db.WithContext(ctx).
		Where("ccn IS NULL OR ccn = ''").
		Order("name").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func keyExists(ctx context.Context, db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func outcomeFor(existed bool) etl.Outcome {
	if existed {
		return etl.OutcomeUpdated
	}
	return etl.OutcomeInserted
}
