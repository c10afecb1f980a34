package engine

import (
	"sort"

	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
)

// Snapshot is the read view the builder computes over.
type Snapshot interface {
	Units() []workforcedomain.OrganizationalUnit
	Composition() []workforcedomain.WorkforceCompositionFact
	Diversity() []workforcedomain.WorkforceDiversityFact
	Turnover() []workforcedomain.EmployeeTurnoverFact
	Training() []workforcedomain.EmployeeTrainingFact
	Injuries() []workforcedomain.WorkplaceInjuryFact
}

// Builder computes KPIs for one snapshot and one normalized filter. Filtered
// composition rows are computed once and shared by every KPI.
type Builder struct {
	snapshot Snapshot
	resolver *Resolver
	pred     Predicate

	composition    []workforcedomain.WorkforceCompositionFact
	totalEmployees int64
	byGender       []Group[int64, int64]
}

func NewBuilder(snapshot Snapshot, filter kpidomain.Filter) *Builder {
	resolver := NewResolver(snapshot.Units(), filter.CompanyID, filter.OrganizationalUnitIDs)
	pred := NewPredicate(filter, resolver)

	composition := FilterFacts(snapshot.Composition(), pred)
	return &Builder{
		snapshot:       snapshot,
		resolver:       resolver,
		pred:           pred,
		composition:    composition,
		totalEmployees: Sum(composition, employeeCount),
		byGender:       SumBy(composition, compositionGender, employeeCount),
	}
}

func employeeCount(f workforcedomain.WorkforceCompositionFact) int64 { return f.EmployeeCount }

func compositionGender(f workforcedomain.WorkforceCompositionFact) int64 { return f.GenderID }

func compositionUnit(f workforcedomain.WorkforceCompositionFact) int64 {
	return f.OrganizationalUnitID
}

func genderLabel(id int64) string {
	return workforcedomain.Gender(id).Label()
}

// BuildAll computes the complete KPI result set.
func BuildAll(snapshot Snapshot, filter kpidomain.Filter) kpidomain.Data {
	b := NewBuilder(snapshot, filter)
	return kpidomain.Data{
		WorkforceByGender:       b.WorkforceByGender(),
		DisabilityPercentage:    b.DisabilityPercentage(),
		TurnoverRate:            b.TurnoverRate(),
		AverageTrainingHours:    b.AverageTrainingHours(),
		InjuryRate:              b.InjuryRate(),
		WorkforceByGenderByUnit: b.WorkforceByGenderByUnit(),
		TurnoverByUnit:          b.TurnoverByUnit(),
	}.Normalized()
}

// WorkforceByGender returns one entry per gender id present, ascending by id.
func (b *Builder) WorkforceByGender() []kpidomain.GenderCount {
	out := make([]kpidomain.GenderCount, 0, len(b.byGender))
	for _, g := range b.byGender {
		out = append(out, kpidomain.GenderCount{Gender: genderLabel(g.Key), EmployeeCount: g.Total})
	}
	return out
}

func (b *Builder) DisabilityPercentage() kpidomain.DisabilityPercentage {
	diversity := FilterFacts(b.snapshot.Diversity(), b.pred)
	totalDisabilities := Sum(diversity, func(f workforcedomain.WorkforceDiversityFact) int64 {
		return f.DisabilityCount
	})

	shares := AllocateWithRemainder(totalDisabilities, b.byGender)
	breakdown := make([]kpidomain.DisabilityByGender, 0, len(shares))
	for _, s := range shares {
		breakdown = append(breakdown, kpidomain.DisabilityByGender{
			Gender:                    genderLabel(s.Key),
			TotalEmployees:            s.Base,
			EmployeesWithDisabilities: s.Amount,
			Percentage:                Round(Ratio(float64(s.Amount), float64(totalDisabilities), 100), 2),
		})
	}

	return kpidomain.DisabilityPercentage{
		OverallPercentage:              Round(Ratio(float64(totalDisabilities), float64(b.totalEmployees), 100), 2),
		TotalEmployees:                 b.totalEmployees,
		TotalEmployeesWithDisabilities: totalDisabilities,
		BreakdownByGender:              breakdown,
	}
}

func (b *Builder) TurnoverRate() kpidomain.TurnoverRate {
	turnover := FilterFacts(b.snapshot.Turnover(), b.pred)
	departed := Sum(turnover, employeesDeparted)

	return kpidomain.TurnoverRate{
		OverallTurnoverRate:    Round(Ratio(float64(departed), float64(b.totalEmployees), 100), 2),
		TotalEmployees:         b.totalEmployees,
		TotalEmployeesDeparted: departed,
	}
}

func employeesDeparted(f workforcedomain.EmployeeTurnoverFact) int64 { return f.EmployeesDeparted }

// AverageTrainingHours reports the unrounded hour total alongside rounded
// per-gender shares. Per-gender hours are not corrected to add up.
func (b *Builder) AverageTrainingHours() kpidomain.AverageTrainingHours {
	training := FilterFacts(b.snapshot.Training(), b.pred)
	totalHours := Sum(training, func(f workforcedomain.EmployeeTrainingFact) float64 {
		return f.TotalTrainingHours
	})

	shares := AllocateProportional(totalHours, b.byGender, 2)
	breakdown := make([]kpidomain.TrainingByGender, 0, len(shares))
	for _, s := range shares {
		breakdown = append(breakdown, kpidomain.TrainingByGender{
			Gender:                  genderLabel(s.Key),
			TotalEmployees:          s.Base,
			TotalTrainingHours:      s.Amount,
			AverageHoursPerEmployee: Round(Ratio(s.Amount, float64(s.Base), 1), 2),
		})
	}

	return kpidomain.AverageTrainingHours{
		OverallAverageHours: Round(Ratio(totalHours, float64(b.totalEmployees), 1), 2),
		TotalEmployees:      b.totalEmployees,
		TotalTrainingHours:  totalHours,
		BreakdownByGender:   breakdown,
	}
}

func (b *Builder) InjuryRate() kpidomain.InjuryRate {
	injuries := FilterFacts(b.snapshot.Injuries(), b.pred)
	total := Sum(injuries, func(f workforcedomain.WorkplaceInjuryFact) int64 { return f.InjuryCount })

	return kpidomain.InjuryRate{
		OverallInjuryRate: Round(Ratio(float64(total), float64(b.totalEmployees), 1), 4),
		TotalEmployees:    b.totalEmployees,
		TotalInjuries:     total,
	}
}

// WorkforceByGenderByUnit breaks the composition down per unit. Every known
// gender appears in each unit, zero-filled when absent, and entries are
// ordered by label. Ids outside the enumeration stay as "Unknown" entries.
func (b *Builder) WorkforceByGenderByUnit() []kpidomain.UnitWorkforce {
	rowsByUnit := make(map[int64][]workforcedomain.WorkforceCompositionFact)
	for _, row := range b.composition {
		rowsByUnit[row.OrganizationalUnitID] = append(rowsByUnit[row.OrganizationalUnitID], row)
	}

	units := UnitsOf(b.composition)
	out := make([]kpidomain.UnitWorkforce, 0, len(units))
	for _, unitID := range units {
		groups := SumBy(rowsByUnit[unitID], compositionGender, employeeCount)

		genders := make([]kpidomain.GenderCount, 0, len(groups)+len(workforcedomain.GendersByLabel()))
		present := make(map[string]struct{}, len(groups))
		for _, g := range groups {
			label := genderLabel(g.Key)
			present[label] = struct{}{}
			genders = append(genders, kpidomain.GenderCount{Gender: label, EmployeeCount: g.Total})
		}
		for _, gender := range workforcedomain.GendersByLabel() {
			if _, ok := present[gender.Label()]; ok {
				continue
			}
			genders = append(genders, kpidomain.GenderCount{Gender: gender.Label()})
		}
		sort.SliceStable(genders, func(i, j int) bool {
			return genders[i].Gender < genders[j].Gender
		})

		out = append(out, kpidomain.UnitWorkforce{
			OrganizationalUnitID:   unitID,
			OrganizationalUnitName: b.resolver.Name(unitID),
			Genders:                genders,
		})
	}
	return out
}

// TurnoverByUnit covers the units with turnover rows. Headcount per unit
// comes from the composition rows of the same unit.
func (b *Builder) TurnoverByUnit() []kpidomain.UnitTurnover {
	turnover := FilterFacts(b.snapshot.Turnover(), b.pred)
	employees := SumBy(b.composition, compositionUnit, employeeCount)
	departed := SumBy(turnover, func(f workforcedomain.EmployeeTurnoverFact) int64 {
		return f.OrganizationalUnitID
	}, employeesDeparted)

	units := UnitsOf(turnover)
	out := make([]kpidomain.UnitTurnover, 0, len(units))
	for _, unitID := range units {
		emp := Lookup(employees, unitID)
		dep := Lookup(departed, unitID)
		out = append(out, kpidomain.UnitTurnover{
			OrganizationalUnitID:   unitID,
			OrganizationalUnitName: b.resolver.Name(unitID),
			TotalEmployees:         emp,
			TotalEmployeesDeparted: dep,
			TurnoverRate:           Round(Ratio(float64(dep), float64(emp), 100), 2),
		})
	}
	return out
}
