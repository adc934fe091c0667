package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/villagecare/cms-sync/internal/etl"
	"github.com/villagecare/cms-sync/pkg/database"
	"github.com/villagecare/cms-sync/pkg/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func TestCommunityUpsertEndToEnd(t *testing.T) {
	db := newTestDB(t)
	s := NewCommunityStore(db)
	ctx := context.Background()

	raw := map[string]interface{}{
		"federal_provider_number": " 365123 ",
		"provider_name":           "st. mary's  NURSING home",
		"overall_rating":          "4",
		"abuse_icon":              "N",
		"city_town":               "CLEVELAND",
		"county_parish":           "Cuyahoga",
	}
	transform := etl.Providers().Transform

	rec, drop := transform(raw)
	require.Nil(t, drop)

	outcome, err := s.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, etl.OutcomeInserted, outcome)

	// Upserting the same raw record again updates in place.
	rec2, drop := transform(raw)
	require.Nil(t, drop)
	outcome, err = s.Upsert(ctx, rec2)
	require.NoError(t, err)
	assert.Equal(t, etl.OutcomeUpdated, outcome)

	var all []models.Community
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 1, "exactly one row per CCN")

	c := all[0]
	require.NotNil(t, c.CCN)
	assert.Equal(t, "365123", *c.CCN)
	assert.Equal(t, "St. Mary's Nursing Home", c.Name)
	require.NotNil(t, c.OverallRating)
	assert.Equal(t, 4.0, *c.OverallRating)
	assert.False(t, c.AbuseIcon)
	assert.Equal(t, "st-mary-s-nursing-home", c.Slug)
}

func TestCommunityUpsertAppliesFieldChanges(t *testing.T) {
	db := newTestDB(t)
	s := NewCommunityStore(db)
	ctx := context.Background()

	ccn := "365200"
	first := &models.Community{CCN: &ccn, Name: "Maple Grove Manor", City: "Akron"}
	_, err := s.Upsert(ctx, first)
	require.NoError(t, err)

	rating := 3.0
	second := &models.Community{CCN: &ccn, Name: "Maple Grove Manor", City: "Akron", OverallRating: &rating}
	outcome, err := s.Upsert(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, etl.OutcomeUpdated, outcome)

	var got models.Community
	require.NoError(t, db.Where("ccn = ?", ccn).First(&got).Error)
	require.NotNil(t, got.OverallRating)
	assert.Equal(t, 3.0, *got.OverallRating)
	assert.Equal(t, first.ID, got.ID, "internal id is stable across updates")
}

func TestCommunitySlugConflictGetsCCNSuffix(t *testing.T) {
	db := newTestDB(t)
	s := NewCommunityStore(db)
	ctx := context.Background()

	ccnA, ccnB := "365301", "365302"
	_, err := s.Upsert(ctx, &models.Community{CCN: &ccnA, Name: "Willow Creek", City: "Medina"})
	require.NoError(t, err)
	_, err = s.Upsert(ctx, &models.Community{CCN: &ccnB, Name: "Willow Creek", City: "Stow"})
	require.NoError(t, err)

	var b models.Community
	require.NoError(t, db.Where("ccn = ?", ccnB).First(&b).Error)
	assert.Equal(t, "willow-creek-"+ccnB, b.Slug)
}

func TestListUnlinked(t *testing.T) {
	db := newTestDB(t)
	s := NewCommunityStore(db)
	ctx := context.Background()

	ccn := "365400"
	_, err := s.Upsert(ctx, &models.Community{CCN: &ccn, Name: "Linked Home", City: "Lakewood"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Community{Name: "Manual Entry Home", Slug: "manual-entry-home", City: "Lakewood"}).Error)

	unlinked, err := s.ListUnlinked(ctx)
	require.NoError(t, err)
	require.Len(t, unlinked, 1)
	assert.Equal(t, "Manual Entry Home", unlinked[0].Name)
}

func TestDeficiencyUpsertKeyedByTuple(t *testing.T) {
	db := newTestDB(t)
	s := NewDeficiencyStore(db)
	ctx := context.Background()

	d := &models.Deficiency{CCN: "365123", SurveyDate: "2023-11-14", Tag: "0689", ScopeSeverity: "D"}
	outcome, err := s.Upsert(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, etl.OutcomeInserted, outcome)

	// Same key tuple, new severity: update in place.
	updated := &models.Deficiency{CCN: "365123", SurveyDate: "2023-11-14", Tag: "0689", ScopeSeverity: "G"}
	outcome, err = s.Upsert(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, etl.OutcomeUpdated, outcome)

	// Different tag on the same survey: a second row.
	other := &models.Deficiency{CCN: "365123", SurveyDate: "2023-11-14", Tag: "0812"}
	outcome, err = s.Upsert(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, etl.OutcomeInserted, outcome)

	var all []models.Deficiency
	require.NoError(t, db.Order("tag").Find(&all).Error)
	require.Len(t, all, 2)
	assert.Equal(t, "G", all[0].ScopeSeverity)
}

func TestStaffingRollupReplacedPerCCN(t *testing.T) {
	db := newTestDB(t)
	s := NewStaffingStore(db)
	ctx := context.Background()

	first := &models.StaffingRollup{CCN: "365123", WindowEnd: "2024-03-31", WindowRecords: 90, TotalNurseHPRD: 3.2}
	_, err := s.Upsert(ctx, first)
	require.NoError(t, err)

	second := &models.StaffingRollup{CCN: "365123", WindowEnd: "2024-06-30", WindowRecords: 90, TotalNurseHPRD: 3.4}
	outcome, err := s.Upsert(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, etl.OutcomeUpdated, outcome)

	var all []models.StaffingRollup
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 1)
	assert.Equal(t, "2024-06-30", all[0].WindowEnd)
	assert.Equal(t, 3.4, all[0].TotalNurseHPRD)
}

func TestUpsertRejectsWrongType(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	outcome, err := NewCommunityStore(db).Upsert(ctx, &models.Deficiency{})
	require.Error(t, err)
	assert.Equal(t, etl.OutcomeFailed, outcome)
}
