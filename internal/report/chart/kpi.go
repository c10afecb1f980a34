package chart

import (
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
)

const (
	KeyWorkforceByGender     = "workforce_by_gender"
	KeyTrainingHoursByGender = "training_hours_by_gender"
	KeyTrainingHoursTrend    = "trend_training_hours_per_employee"
)

const (
	titleWorkforceByGender   = "Workforce by Gender (Donut)"
	titleTrainingHoursGender = "Total Training Hours by Gender"
	titleTrainingHoursYoY    = "Average Training Hours per Employee – YoY"
)

// Keys lists every chart a report may carry.
func Keys() []string {
	return []string{KeyWorkforceByGender, KeyTrainingHoursByGender, KeyTrainingHoursTrend}
}

// FromKPIs renders the report charts. A chart whose data is missing is
// absent from the result.
func FromKPIs(current kpidomain.Data, historical *kpidomain.Data) (map[string][]byte, error) {
	out := make(map[string][]byte, 3)

	if len(current.WorkforceByGender) > 0 {
		slices := make([]Slice, 0, len(current.WorkforceByGender))
		for _, g := range current.WorkforceByGender {
			slices = append(slices, Slice{Label: g.Gender, Value: float64(g.EmployeeCount)})
		}
		png, err := Donut(titleWorkforceByGender, slices)
		if err != nil {
			return nil, err
		}
		out[KeyWorkforceByGender] = png
	}

	if breakdown := current.AverageTrainingHours.BreakdownByGender; len(breakdown) > 0 {
		bars := make([]Bar, 0, len(breakdown))
		for _, g := range breakdown {
			bars = append(bars, Bar{Label: g.Gender, Value: g.TotalTrainingHours, Color: ColorTraining})
		}
		png, err := Bars(titleTrainingHoursGender, "Total Training Hours", bars, 800, 500)
		if err != nil {
			return nil, err
		}
		out[KeyTrainingHoursByGender] = png
	}

	if historical != nil {
		png, err := Bars(titleTrainingHoursYoY, "Hours per Employee", []Bar{
			{Label: "Prior", Value: historical.AverageTrainingHours.OverallAverageHours, Color: ColorPrior},
			{Label: "Current", Value: current.AverageTrainingHours.OverallAverageHours, Color: ColorCurrent},
		}, 600, 400)
		if err != nil {
			return nil, err
		}
		out[KeyTrainingHoursTrend] = png
	}

	return out, nil
}
