package etl

import (
	"math"
	"sort"
	"time"

	"github.com/villagecare/cms-sync/pkg/models"
)

const (
	// rollupWindow is a record-count trailing window, not a calendar window:
	// a facility with missing days still aggregates its most recent 90
	// reported records.
	rollupWindow = 90
	// rollupMinRecords gates facilities with too little history to produce
	// a meaningful average.
	rollupMinRecords = 30
)

// BuildStaffingRollups folds daily staffing records into one rollup per
// facility over its most recent 90 records. Facilities with fewer than 30
// records are skipped; the second return value counts them.
func BuildStaffingRollups(days []*StaffingDay) ([]*models.StaffingRollup, int) {
	byCCN := make(map[string][]*StaffingDay)
	for _, d := range days {
		byCCN[d.CCN] = append(byCCN[d.CCN], d)
	}

	ccns := make([]string, 0, len(byCCN))
	for ccn := range byCCN {
		ccns = append(ccns, ccn)
	}
	sort.Strings(ccns)

	var rollups []*models.StaffingRollup
	gated := 0
	for _, ccn := range ccns {
		history := byCCN[ccn]
		if len(history) < rollupMinRecords {
			gated++
			continue
		}
		rollups = append(rollups, rollupFor(ccn, history))
	}
	return rollups, gated
}

func rollupFor(ccn string, history []*StaffingDay) *models.StaffingRollup {
	sort.Slice(history, func(i, j int) bool {
		return history[i].WorkDate < history[j].WorkDate
	})
	if len(history) > rollupWindow {
		history = history[len(history)-rollupWindow:]
	}

	var (
		census, rn, lpn, cna        float64
		weekdayHours, weekdayCensus float64
		weekendHours, weekendCensus float64
	)
	for _, d := range history {
		census += d.Census
		rn += d.RNHours
		lpn += d.LPNHours
		cna += d.CNAHours

		total := d.RNHours + d.LPNHours + d.CNAHours
		if isWeekend(d.WorkDate) {
			weekendHours += total
			weekendCensus += d.Census
		} else {
			weekdayHours += total
			weekdayCensus += d.Census
		}
	}

	weekdayHPRD := hprd(weekdayHours, weekdayCensus)
	weekendHPRD := hprd(weekendHours, weekendCensus)

	deltaPct := 0.0
	if weekdayHPRD != 0 {
		deltaPct = (weekendHPRD - weekdayHPRD) / weekdayHPRD * 100
	}

	return &models.StaffingRollup{
		CCN:           ccn,
		WindowEnd:     history[len(history)-1].WorkDate,
		WindowRecords: len(history),

		AvgDailyCensus: round2(census / float64(len(history))),

		RNHoursPerResidentDay:  round2(hprd(rn, census)),
		LPNHoursPerResidentDay: round2(hprd(lpn, census)),
		CNAHoursPerResidentDay: round2(hprd(cna, census)),
		TotalNurseHPRD:         round2(hprd(rn+lpn+cna, census)),

		WeekdayHPRD:     round2(weekdayHPRD),
		WeekendHPRD:     round2(weekendHPRD),
		WeekendDeltaPct: round2(deltaPct),
	}
}

// hprd is hours per resident day; a zero census denominator yields 0, never
// NaN or Inf.
func hprd(hours, census float64) float64 {
	if census == 0 {
		return 0
	}
	return hours / census
}

func isWeekend(isoDate string) bool {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
