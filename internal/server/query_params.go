package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
)

func parseOptionalInt64(value string) (*int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// splitListParam accepts both repeated parameters and comma separated values:
// ?years=2024&years=2025 and ?years=2024,2025 are equivalent.
func splitListParam(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseCompanyID(c *gin.Context) (int64, error) {
	companyID, err := parseOptionalInt64(c.Query("company_id"))
	if err != nil || companyID == nil || *companyID <= 0 {
		return 0, newValidationError("company_id", "invalid_company_id", "company_id must be a positive integer")
	}
	return *companyID, nil
}

// parseKPIFilter rejects malformed parameters before any data is loaded.
func parseKPIFilter(c *gin.Context) (kpidomain.Filter, error) {
	companyID, err := parseCompanyID(c)
	if err != nil {
		return kpidomain.Filter{}, err
	}
	filter := kpidomain.Filter{CompanyID: companyID}

	for _, raw := range splitListParam(c.QueryArray("years")) {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1000 || year > 9999 {
			return kpidomain.Filter{}, newValidationError("years", "invalid_year", "years must be 4-digit integers")
		}
		filter.Years = append(filter.Years, year)
	}

	for _, raw := range splitListParam(c.QueryArray("organizational_unit_ids")) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return kpidomain.Filter{}, newValidationError("organizational_unit_ids", "invalid_organizational_unit_id", "organizational_unit_ids must be positive integers")
		}
		filter.OrganizationalUnitIDs = append(filter.OrganizationalUnitIDs, id)
	}

	countryID, err := parseOptionalInt64(c.Query("country_id"))
	if err != nil || (countryID != nil && *countryID < 0) {
		return kpidomain.Filter{}, newValidationError("country_id", "invalid_country_id", "country_id must be a non-negative integer")
	}
	filter.CountryID = countryID

	return filter, nil
}

const dateOnlyLayout = "2006-01-02"

func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		} else {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &parsed, nil
	}
	return nil, errors.New("invalid_time")
}
