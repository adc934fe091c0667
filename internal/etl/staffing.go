package etl

import (
	"github.com/villagecare/cms-sync/pkg/utils"
)

// StaffingDay is one PBJ daily staffing record after normalization: the
// resident census plus hours worked per nursing role.
type StaffingDay struct {
	CCN      string
	WorkDate string // ISO date
	Census   float64
	RNHours  float64
	LPNHours float64
	CNAHours float64
}

// Staffing describes the PBJ daily nurse staffing dataset. Its aggregate
// stage folds the daily records into per-facility rollups before upsert.
func Staffing() Dataset {
	return Dataset{
		Name:        "staffing",
		DatasetID:   DatasetStaffing,
		CountyField: []string{"county_name", "county_parish"},
		Transform:   transformStaffingDay,
		Aggregate:   aggregateStaffing,
	}
}

func transformStaffingDay(row map[string]interface{}) (interface{}, *Drop) {
	ccn := rowCCN(row)
	if ccn == "" {
		return nil, &Drop{Reason: "missing ccn"}
	}
	workDate := utils.ParseDate(first(row, "work_date", "workdate"))
	if workDate == nil {
		return nil, &Drop{Reason: "missing work date"}
	}

	day := &StaffingDay{
		CCN:      ccn,
		WorkDate: *workDate,
	}
	if v := utils.ParseFloat(first(row, "mds_census", "mdscensus")); v != nil {
		day.Census = *v
	}
	if v := utils.ParseFloat(first(row, "hrs_rn")); v != nil {
		day.RNHours = *v
	}
	if v := utils.ParseFloat(first(row, "hrs_lpn")); v != nil {
		day.LPNHours = *v
	}
	if v := utils.ParseFloat(first(row, "hrs_cna")); v != nil {
		day.CNAHours = *v
	}
	return day, nil
}

func aggregateStaffing(records []interface{}) ([]interface{}, int) {
	days := make([]*StaffingDay, 0, len(records))
	for _, rec := range records {
		if day, ok := rec.(*StaffingDay); ok {
			days = append(days, day)
		}
	}

	rollups, gated := BuildStaffingRollups(days)
	out := make([]interface{}, 0, len(rollups))
	for _, r := range rollups {
		out = append(out, r)
	}
	return out, gated
}
