package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/workforcekpi/internal/report/domain"
)

// fileName builds S1_Report_<company>_<year>.<ext>, naming the company by
// the slug of its name when one is given.
func fileName(companyID int64, companyName string, year int, t domain.Type) string {
	company := strconv.FormatInt(companyID, 10)
	if s := slug.Make(strings.TrimSpace(companyName)); s != "" {
		company = s
	}
	return fmt.Sprintf("S1_Report_%s_%d.%s", company, year, t)
}

func companyLabel(companyID int64, companyName string) string {
	if name := strings.TrimSpace(companyName); name != "" {
		return name
	}
	return strconv.FormatInt(companyID, 10)
}
