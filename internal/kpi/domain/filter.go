package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	minYear = 1000
	maxYear = 9999
)

// Filter selects the fact rows every KPI is computed over. Empty Years and
// OrganizationalUnitIDs and a nil CountryID mean "no restriction".
type Filter struct {
	CompanyID             int64   `json:"company_id"`
	Years                 []int   `json:"years,omitempty"`
	OrganizationalUnitIDs []int64 `json:"organizational_unit_ids,omitempty"`
	CountryID             *int64  `json:"country_id,omitempty"`
}

// Normalize validates the filter and returns it in canonical form: sorted,
// de-duplicated sets and a zero country id folded into "no country filter".
func (f Filter) Normalize() (Filter, error) {
	if f.CompanyID <= 0 {
		return Filter{}, fmt.Errorf("%w: company_id must be positive", ErrInvalidFilter)
	}

	out := Filter{CompanyID: f.CompanyID}

	if len(f.Years) > 0 {
		seen := make(map[int]struct{}, len(f.Years))
		for _, year := range f.Years {
			if year < minYear || year > maxYear {
				return Filter{}, fmt.Errorf("%w: year %d is not a 4-digit year", ErrInvalidFilter, year)
			}
			if _, ok := seen[year]; ok {
				continue
			}
			seen[year] = struct{}{}
			out.Years = append(out.Years, year)
		}
		sort.Ints(out.Years)
	}

	if len(f.OrganizationalUnitIDs) > 0 {
		seen := make(map[int64]struct{}, len(f.OrganizationalUnitIDs))
		for _, id := range f.OrganizationalUnitIDs {
			if id <= 0 {
				return Filter{}, fmt.Errorf("%w: organizational unit id %d must be positive", ErrInvalidFilter, id)
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out.OrganizationalUnitIDs = append(out.OrganizationalUnitIDs, id)
		}
		sort.Slice(out.OrganizationalUnitIDs, func(i, j int) bool {
			return out.OrganizationalUnitIDs[i] < out.OrganizationalUnitIDs[j]
		})
	}

	if f.CountryID != nil {
		if *f.CountryID < 0 {
			return Filter{}, fmt.Errorf("%w: country_id must not be negative", ErrInvalidFilter)
		}
		if *f.CountryID > 0 {
			country := *f.CountryID
			out.CountryID = &country
		}
	}

	return out, nil
}

// ForYear returns a copy restricted to a single reporting year.
func (f Filter) ForYear(year int) Filter {
	out := f
	out.Years = []int{year}
	return out
}

// CacheKey identifies a normalized filter.
func (f Filter) CacheKey() string {
	var b strings.Builder
	b.WriteString("c=")
	b.WriteString(strconv.FormatInt(f.CompanyID, 10))
	b.WriteString(";y=")
	for i, year := range f.Years {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(year))
	}
	b.WriteString(";u=")
	for i, id := range f.OrganizationalUnitIDs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	b.WriteString(";k=")
	if f.CountryID != nil {
		b.WriteString(strconv.FormatInt(*f.CountryID, 10))
	}
	return b.String()
}
