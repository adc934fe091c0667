package models

import "fmt"

// NaturalKey renders the external identity of a row for logs and error
// reports.

func (c *Community) NaturalKey() string {
	if c.CCN != nil {
		return *c.CCN
	}
	return c.Slug
}

func (o *OwnershipRecord) NaturalKey() string {
	return fmt.Sprintf("%s/%s/%s", o.CCN, o.OwnerName, o.Role)
}

func (d *Deficiency) NaturalKey() string {
	return fmt.Sprintf("%s/%s/%s", d.CCN, d.SurveyDate, d.Tag)
}

func (s *StaffingRollup) NaturalKey() string {
	return s.CCN
}

func (q *QualityMeasure) NaturalKey() string {
	return fmt.Sprintf("%s/%s/%s", q.CCN, q.MeasureCode, q.Quarter)
}

func (r *InspectionReport) NaturalKey() string {
	return fmt.Sprintf("%s/%s", r.CCN, r.SurveyDate)
}
