package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffingRollup holds the current trailing-window staffing aggregates for
// one facility. One row per CCN, replaced on every staffing sync.
type StaffingRollup struct {
	ID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CCN string    `gorm:"column:ccn;not null;uniqueIndex" json:"ccn"`

	WindowEnd     string `gorm:"column:window_end;type:date;not null" json:"window_end"`
	WindowRecords int    `gorm:"column:window_records;not null" json:"window_records"`

	AvgDailyCensus float64 `gorm:"column:avg_daily_census;not null" json:"avg_daily_census"`

	RNHoursPerResidentDay  float64 `gorm:"column:rn_hprd;not null" json:"rn_hprd"`
	LPNHoursPerResidentDay float64 `gorm:"column:lpn_hprd;not null" json:"lpn_hprd"`
	CNAHoursPerResidentDay float64 `gorm:"column:cna_hprd;not null" json:"cna_hprd"`
	TotalNurseHPRD         float64 `gorm:"column:total_nurse_hprd;not null" json:"total_nurse_hprd"`

	WeekdayHPRD     float64 `gorm:"column:weekday_hprd;not null" json:"weekday_hprd"`
	WeekendHPRD     float64 `gorm:"column:weekend_hprd;not null" json:"weekend_hprd"`
	WeekendDeltaPct float64 `gorm:"column:weekend_delta_pct;not null" json:"weekend_delta_pct"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StaffingRollup) TableName() string { return "staffing_rollup" }

func (s *StaffingRollup) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
