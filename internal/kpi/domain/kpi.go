package domain

const (
	KeyWorkforceByGender       = "Total Workforce by Gender"
	KeyDisabilityPercentage    = "Percentage of Employees with Disabilities"
	KeyTurnoverRate            = "Employee Turnover Rate"
	KeyAverageTrainingHours    = "Average Training Hours per Employee"
	KeyInjuryRate              = "Workplace Injury Rate"
	KeyWorkforceByGenderByUnit = "Workforce by Gender by Organizational Unit"
	KeyTurnoverByUnit          = "Employee Turnover Rate by Organizational Unit"
)

type GenderCount struct {
	Gender        string `json:"gender"`
	EmployeeCount int64  `json:"employee_count"`
}

type DisabilityByGender struct {
	Gender                    string  `json:"gender"`
	TotalEmployees            int64   `json:"total_employees"`
	EmployeesWithDisabilities int64   `json:"employees_with_disabilities"`
	Percentage                float64 `json:"percentage"`
}

type DisabilityPercentage struct {
	OverallPercentage              float64              `json:"overall_percentage"`
	TotalEmployees                 int64                `json:"total_employees"`
	TotalEmployeesWithDisabilities int64                `json:"total_employees_with_disabilities"`
	BreakdownByGender              []DisabilityByGender `json:"breakdown_by_gender"`
}

type TurnoverRate struct {
	OverallTurnoverRate    float64 `json:"overall_turnover_rate"`
	TotalEmployees         int64   `json:"total_employees"`
	TotalEmployeesDeparted int64   `json:"total_employees_departed"`
}

type TrainingByGender struct {
	Gender                  string  `json:"gender"`
	TotalEmployees          int64   `json:"total_employees"`
	TotalTrainingHours      float64 `json:"total_training_hours"`
	AverageHoursPerEmployee float64 `json:"average_hours_per_employee"`
}

type AverageTrainingHours struct {
	OverallAverageHours float64            `json:"overall_average_hours"`
	TotalEmployees      int64              `json:"total_employees"`
	TotalTrainingHours  float64            `json:"total_training_hours"`
	BreakdownByGender   []TrainingByGender `json:"breakdown_by_gender"`
}

type InjuryRate struct {
	OverallInjuryRate float64 `json:"overall_injury_rate"`
	TotalEmployees    int64   `json:"total_employees"`
	TotalInjuries     int64   `json:"total_injuries"`
}

type UnitWorkforce struct {
	OrganizationalUnitID   int64         `json:"OrganizationalUnitID"`
	OrganizationalUnitName string        `json:"OrganizationalUnitName"`
	Genders                []GenderCount `json:"genders"`
}

type UnitTurnover struct {
	OrganizationalUnitID   int64   `json:"OrganizationalUnitID"`
	OrganizationalUnitName string  `json:"OrganizationalUnitName"`
	TotalEmployees         int64   `json:"total_employees"`
	TotalEmployeesDeparted int64   `json:"total_employees_departed"`
	TurnoverRate           float64 `json:"turnover_rate"`
}

// Data is the full KPI result set. Its JSON form carries the seven fixed keys
// in declaration order.
type Data struct {
	WorkforceByGender       []GenderCount        `json:"Total Workforce by Gender"`
	DisabilityPercentage    DisabilityPercentage `json:"Percentage of Employees with Disabilities"`
	TurnoverRate            TurnoverRate         `json:"Employee Turnover Rate"`
	AverageTrainingHours    AverageTrainingHours `json:"Average Training Hours per Employee"`
	InjuryRate              InjuryRate           `json:"Workplace Injury Rate"`
	WorkforceByGenderByUnit []UnitWorkforce      `json:"Workforce by Gender by Organizational Unit"`
	TurnoverByUnit          []UnitTurnover       `json:"Employee Turnover Rate by Organizational Unit"`
}

// Normalized replaces nil slices with empty ones so they serialise as [].
func (d Data) Normalized() Data {
	if d.WorkforceByGender == nil {
		d.WorkforceByGender = []GenderCount{}
	}
	if d.DisabilityPercentage.BreakdownByGender == nil {
		d.DisabilityPercentage.BreakdownByGender = []DisabilityByGender{}
	}
	if d.AverageTrainingHours.BreakdownByGender == nil {
		d.AverageTrainingHours.BreakdownByGender = []TrainingByGender{}
	}
	if d.WorkforceByGenderByUnit == nil {
		d.WorkforceByGenderByUnit = []UnitWorkforce{}
	}
	for i := range d.WorkforceByGenderByUnit {
		if d.WorkforceByGenderByUnit[i].Genders == nil {
			d.WorkforceByGenderByUnit[i].Genders = []GenderCount{}
		}
	}
	if d.TurnoverByUnit == nil {
		d.TurnoverByUnit = []UnitTurnover{}
	}
	return d
}

// KPI slugs accepted by Lookup.
const (
	SlugWorkforceByGender       = "workforce-by-gender"
	SlugDisabilityPercentage    = "disability-percentage"
	SlugTurnoverRate            = "turnover-rate"
	SlugAverageTrainingHours    = "average-training-hours"
	SlugInjuryRate              = "injury-rate"
	SlugWorkforceByGenderByUnit = "workforce-by-gender-by-unit"
	SlugTurnoverByUnit          = "turnover-by-unit"
)

// Slugs lists the KPI slugs in result-set order.
func Slugs() []string {
	return []string{
		SlugWorkforceByGender,
		SlugDisabilityPercentage,
		SlugTurnoverRate,
		SlugAverageTrainingHours,
		SlugInjuryRate,
		SlugWorkforceByGenderByUnit,
		SlugTurnoverByUnit,
	}
}

// Lookup returns the fixed result key and value of a single KPI.
func (d Data) Lookup(slug string) (string, any, bool) {
	switch slug {
	case SlugWorkforceByGender:
		return KeyWorkforceByGender, d.WorkforceByGender, true
	case SlugDisabilityPercentage:
		return KeyDisabilityPercentage, d.DisabilityPercentage, true
	case SlugTurnoverRate:
		return KeyTurnoverRate, d.TurnoverRate, true
	case SlugAverageTrainingHours:
		return KeyAverageTrainingHours, d.AverageTrainingHours, true
	case SlugInjuryRate:
		return KeyInjuryRate, d.InjuryRate, true
	case SlugWorkforceByGenderByUnit:
		return KeyWorkforceByGenderByUnit, d.WorkforceByGenderByUnit, true
	case SlugTurnoverByUnit:
		return KeyTurnoverByUnit, d.TurnoverByUnit, true
	default:
		return "", nil, false
	}
}

// Comparison pairs a reporting year with the year before it. Historical is
// nil when the prior year has no workforce rows.
type Comparison struct {
	Current    Data  `json:"current"`
	Historical *Data `json:"historical,omitempty"`
}
