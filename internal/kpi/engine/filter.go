package engine

import (
	"sort"
	"strconv"

	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
)

// Fact is any fact row carrying the shared dimensions.
type Fact interface {
	Key() workforcedomain.FactKey
}

// YearOf returns the textual year prefix of a date key.
func YearOf(dateKey string) string {
	if len(dateKey) < 4 {
		return dateKey
	}
	return dateKey[:4]
}

// Predicate is the row filter shared by every KPI.
type Predicate struct {
	companyID int64
	years     map[string]struct{}
	countryID *int64
	resolver  *Resolver
}

func NewPredicate(filter kpidomain.Filter, resolver *Resolver) Predicate {
	p := Predicate{
		companyID: filter.CompanyID,
		countryID: filter.CountryID,
		resolver:  resolver,
	}
	if len(filter.Years) > 0 {
		p.years = make(map[string]struct{}, len(filter.Years))
		for _, year := range filter.Years {
			p.years[strconv.Itoa(year)] = struct{}{}
		}
	}
	return p
}

func (p Predicate) Match(key workforcedomain.FactKey) bool {
	if key.CompanyID != p.companyID {
		return false
	}
	if !p.resolver.Resolve(key.OrganizationalUnitID) {
		return false
	}
	if p.years != nil {
		if _, ok := p.years[YearOf(key.DateKey)]; !ok {
			return false
		}
	}
	if p.countryID != nil && key.CountryID != *p.countryID {
		return false
	}
	return true
}

// FilterFacts keeps the rows matching the predicate, preserving order.
func FilterFacts[T Fact](rows []T, p Predicate) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if p.Match(row.Key()) {
			out = append(out, row)
		}
	}
	return out
}

// UnitsOf returns the distinct organizational unit ids of rows in ascending order.
func UnitsOf[T Fact](rows []T) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, row := range rows {
		id := row.Key().OrganizationalUnitID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
