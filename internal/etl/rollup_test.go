package etl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// historyFor builds n consecutive daily records ending 2024-06-30.
func historyFor(ccn string, n int, census, rn, lpn, cna float64) []*StaffingDay {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	days := make([]*StaffingDay, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, &StaffingDay{
			CCN:      ccn,
			WorkDate: end.AddDate(0, 0, -i).Format("2006-01-02"),
			Census:   census,
			RNHours:  rn,
			LPNHours: lpn,
			CNAHours: cna,
		})
	}
	return days
}

func TestRollupInsufficientHistoryGate(t *testing.T) {
	t.Run("29 records yields nothing", func(t *testing.T) {
		rollups, gated := BuildStaffingRollups(historyFor("365001", 29, 100, 40, 30, 90))
		assert.Empty(t, rollups)
		assert.Equal(t, 1, gated)
	})

	t.Run("30 records yields one rollup", func(t *testing.T) {
		rollups, gated := BuildStaffingRollups(historyFor("365001", 30, 100, 40, 30, 90))
		require.Len(t, rollups, 1)
		assert.Equal(t, 0, gated)
		assert.Equal(t, 30, rollups[0].WindowRecords)
	})
}

func TestRollupWindowTruncation(t *testing.T) {
	days := historyFor("365001", 200, 100, 40, 30, 90)
	rollups, _ := BuildStaffingRollups(days)
	require.Len(t, rollups, 1)

	r := rollups[0]
	assert.Equal(t, 90, r.WindowRecords, "only the most recent 90 records count")
	assert.Equal(t, "2024-06-30", r.WindowEnd)
}

func TestRollupHPRD(t *testing.T) {
	// 100 residents, 40 RN hours/day: 0.4 RN HPRD.
	rollups, _ := BuildStaffingRollups(historyFor("365001", 90, 100, 40, 30, 90))
	require.Len(t, rollups, 1)

	r := rollups[0]
	assert.Equal(t, 0.4, r.RNHoursPerResidentDay)
	assert.Equal(t, 0.3, r.LPNHoursPerResidentDay)
	assert.Equal(t, 0.9, r.CNAHoursPerResidentDay)
	assert.Equal(t, 1.6, r.TotalNurseHPRD)
	assert.Equal(t, 100.0, r.AvgDailyCensus)
	// Constant staffing means no weekday/weekend difference.
	assert.Equal(t, 0.0, r.WeekendDeltaPct)
}

func TestRollupZeroCensus(t *testing.T) {
	rollups, _ := BuildStaffingRollups(historyFor("365001", 30, 0, 40, 30, 90))
	require.Len(t, rollups, 1)

	r := rollups[0]
	assert.Equal(t, 0.0, r.TotalNurseHPRD, "zero census must yield 0, not NaN")
	assert.Equal(t, 0.0, r.WeekendDeltaPct)
}

func TestRollupWeekendDeltaZeroGuard(t *testing.T) {
	// Weekend-only history: the weekday denominator is zero, delta must be 0.
	var days []*StaffingDay
	d := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC) // a Saturday
	for len(days) < 40 {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			days = append(days, &StaffingDay{
				CCN:      "365002",
				WorkDate: d.Format("2006-01-02"),
				Census:   50,
				RNHours:  20,
			})
		}
		d = d.AddDate(0, 0, 1)
	}

	rollups, _ := BuildStaffingRollups(days)
	require.Len(t, rollups, 1)

	r := rollups[0]
	assert.Equal(t, 0.0, r.WeekdayHPRD)
	assert.Greater(t, r.WeekendHPRD, 0.0)
	assert.Equal(t, 0.0, r.WeekendDeltaPct, "division-by-zero guard")
}

func TestRollupMultipleFacilities(t *testing.T) {
	days := append(
		historyFor("365001", 60, 100, 40, 30, 90),
		historyFor("365002", 10, 80, 30, 20, 60)...,
	)

	rollups, gated := BuildStaffingRollups(days)
	require.Len(t, rollups, 1)
	assert.Equal(t, 1, gated)
	assert.Equal(t, "365001", rollups[0].CCN)
}

func TestRollupValuesRounded(t *testing.T) {
	// 37 hours over 70 residents = 0.52857... -> 0.53
	rollups, _ := BuildStaffingRollups(historyFor("365001", 30, 70, 37, 0, 0))
	require.Len(t, rollups, 1)
	assert.Equal(t, 0.53, rollups[0].RNHoursPerResidentDay)
}

func TestTransformStaffingDay(t *testing.T) {
	row := map[string]interface{}{
		"provider_ccn": "365123",
		"work_date":    "20240115",
		"mds_census":   "92",
		"hrs_rn":       "38.5",
		"hrs_lpn":      "29.25",
		"hrs_cna":      "88",
	}
	rec, drop := transformStaffingDay(row)
	require.Nil(t, drop)
	day := rec.(*StaffingDay)

	assert.Equal(t, "365123", day.CCN)
	assert.Equal(t, "2024-01-15", day.WorkDate)
	assert.Equal(t, 92.0, day.Census)
	assert.Equal(t, 38.5, day.RNHours)

	_, drop = transformStaffingDay(map[string]interface{}{"work_date": "20240115"})
	require.NotNil(t, drop)
	assert.Equal(t, "missing ccn", drop.Reason)
}
