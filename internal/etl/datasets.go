package etl

import (
	"fmt"
	"strings"

	"github.com/villagecare/cms-sync/pkg/models"
	"github.com/villagecare/cms-sync/pkg/utils"
)

// CMS provider-data dataset identifiers.
const (
	DatasetProviders    = "4pq5-n9py"
	DatasetOwnership    = "y2hd-n93e"
	DatasetDeficiencies = "r5ix-sfxw"
	DatasetStaffing     = "ygny-gzks"
	DatasetQuality      = "djen-97ju"
)

// Field names shifted between CMS releases, so lookups try the newer name
// first and fall back to the legacy one.
func firstString(row map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v := utils.ToString(row[k]); v != "" {
			return v
		}
	}
	return ""
}

func first(row map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func rowCCN(row map[string]interface{}) string {
	return strings.TrimSpace(firstString(row,
		"cms_certification_number_ccn", "federal_provider_number", "provider_ccn", "provnum"))
}

var providerCountyFields = []string{"county_parish", "provider_county_name", "county_name"}

// ProviderCounty extracts the county identifier from a raw provider row.
func ProviderCounty(row map[string]interface{}) string {
	return firstString(row, providerCountyFields...)
}

// Providers describes the provider-information dataset.
func Providers() Dataset {
	return Dataset{
		Name:        "providers",
		DatasetID:   DatasetProviders,
		CountyField: providerCountyFields,
		Transform:   transformProvider,
	}
}

func transformProvider(row map[string]interface{}) (interface{}, *Drop) {
	ccn := rowCCN(row)
	if ccn == "" {
		return nil, &Drop{Reason: "missing ccn"}
	}
	name := utils.NormalizeName(firstString(row, "provider_name"))
	if name == "" {
		return nil, &Drop{Reason: "missing name"}
	}

	c := &models.Community{
		CCN:     &ccn,
		Name:    name,
		Address: utils.NormalizeName(firstString(row, "provider_address", "address")),
		City:    utils.NormalizeName(firstString(row, "city_town", "provider_city")),
		County:  utils.NormalizeName(firstString(row, providerCountyFields...)),
		State:   strings.ToUpper(firstString(row, "state", "provider_state")),
		Zip:     firstString(row, "zip_code", "provider_zip_code"),

		OverallRating:          utils.ParseRating(first(row, "overall_rating")),
		HealthInspectionRating: utils.ParseRating(first(row, "health_inspection_rating")),
		StaffingRating:         utils.ParseRating(first(row, "staffing_rating")),
		QualityRating:          utils.ParseRating(first(row, "qm_rating", "quality_rating")),

		AbuseIcon:          utils.ParseBool(first(row, "abuse_icon")),
		CertifiedBeds:      utils.ParseInt(first(row, "number_of_certified_beds")),
		AvgResidentsPerDay: utils.ParseFloat(first(row, "average_number_of_residents_per_day")),
		OwnershipType:      firstString(row, "ownership_type"),
		ProviderType:       firstString(row, "provider_type"),
		CertificationDate:  utils.ParseDate(first(row, "date_first_approved_to_provide_medicare_and_medicaid_services")),
	}
	if phone := utils.CleanPhone(first(row, "telephone_number", "provider_phone_number")); phone != nil {
		c.Phone = *phone
	}
	return c, nil
}

// Ownership describes the facility ownership dataset.
func Ownership() Dataset {
	return Dataset{
		Name:        "ownership",
		DatasetID:   DatasetOwnership,
		CountyField: providerCountyFields,
		Transform:   transformOwnership,
	}
}

func transformOwnership(row map[string]interface{}) (interface{}, *Drop) {
	ccn := rowCCN(row)
	if ccn == "" {
		return nil, &Drop{Reason: "missing ccn"}
	}
	ownerName := utils.NormalizeName(firstString(row, "owner_name"))
	if ownerName == "" {
		return nil, &Drop{Reason: "missing owner name"}
	}

	return &models.OwnershipRecord{
		CCN:                 ccn,
		OwnerName:           ownerName,
		Role:                firstString(row, "role_played_by_owner_or_manager_in_facility", "role"),
		OwnerType:           firstString(row, "owner_type"),
		OwnershipPercentage: parsePercentage(firstString(row, "ownership_percentage")),
		AssociationDate:     parseAssociationDate(firstString(row, "association_date")),
	}, nil
}

// parsePercentage handles values like "5%" and "NOT APPLICABLE".
func parsePercentage(s string) *float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	return utils.ParseFloat(s)
}

// parseAssociationDate handles the "since 12/01/2010" phrasing CMS uses.
func parseAssociationDate(s string) *string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "since ") {
		s = strings.TrimSpace(s[len("since "):])
	}
	return utils.ParseDate(s)
}

// Deficiencies describes the health-deficiency citation dataset.
func Deficiencies() Dataset {
	return Dataset{
		Name:        "deficiencies",
		DatasetID:   DatasetDeficiencies,
		CountyField: providerCountyFields,
		Transform:   transformDeficiency,
	}
}

func transformDeficiency(row map[string]interface{}) (interface{}, *Drop) {
	ccn := rowCCN(row)
	if ccn == "" {
		return nil, &Drop{Reason: "missing ccn"}
	}
	surveyDate := utils.ParseDate(first(row, "survey_date"))
	if surveyDate == nil {
		return nil, &Drop{Reason: "missing survey date"}
	}
	tag := firstString(row, "deficiency_tag_number", "deficiency_tag")
	if tag == "" {
		return nil, &Drop{Reason: "missing deficiency tag"}
	}

	return &models.Deficiency{
		CCN:             ccn,
		SurveyDate:      *surveyDate,
		Tag:             tag,
		Description:     firstString(row, "deficiency_description"),
		ScopeSeverity:   firstString(row, "scope_severity_code"),
		Category:        firstString(row, "deficiency_category"),
		StandardSurvey:  utils.ParseBool(first(row, "standard_deficiency")),
		ComplaintSurvey: utils.ParseBool(first(row, "complaint_deficiency")),
		CorrectionDate:  utils.ParseDate(first(row, "correction_date")),
	}, nil
}

// Quality describes the MDS quality-measure dataset.
func Quality() Dataset {
	return Dataset{
		Name:        "quality",
		DatasetID:   DatasetQuality,
		CountyField: providerCountyFields,
		Transform:   transformQuality,
	}
}

func transformQuality(row map[string]interface{}) (interface{}, *Drop) {
	ccn := rowCCN(row)
	if ccn == "" {
		return nil, &Drop{Reason: "missing ccn"}
	}
	code := firstString(row, "measure_code")
	if code == "" {
		return nil, &Drop{Reason: "missing measure code"}
	}
	quarter := firstString(row, "measure_period", "measure_quarter")
	if quarter == "" {
		return nil, &Drop{Reason: "missing measure period"}
	}

	return &models.QualityMeasure{
		CCN:         ccn,
		MeasureCode: code,
		Quarter:     quarter,
		Description: firstString(row, "measure_description"),
		Score:       utils.ParseFloat(first(row, "four_quarter_average_score", "measure_score")),
	}, nil
}

// inspectionReportURLFormat builds the care-compare full report link from a
// CCN and survey date.
const inspectionReportURLFormat = "https://www.medicare.gov/care-compare/inspections/pdf/nursing-home/%s/health/standard?date=%s"

// Inspections reuses the deficiency dataset's survey rows to link each
// survey to its inspection report PDF.
func Inspections() Dataset {
	return Dataset{
		Name:        "inspections",
		DatasetID:   DatasetDeficiencies,
		CountyField: providerCountyFields,
		Transform:   transformInspection,
	}
}

func transformInspection(row map[string]interface{}) (interface{}, *Drop) {
	ccn := rowCCN(row)
	if ccn == "" {
		return nil, &Drop{Reason: "missing ccn"}
	}
	surveyDate := utils.ParseDate(first(row, "survey_date"))
	if surveyDate == nil {
		return nil, &Drop{Reason: "missing survey date"}
	}

	return &models.InspectionReport{
		CCN:        ccn,
		SurveyDate: *surveyDate,
		PDFURL:     fmt.Sprintf(inspectionReportURLFormat, ccn, *surveyDate),
	}, nil
}
