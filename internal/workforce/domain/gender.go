package domain

import "sort"

// Gender is the closed gender dimension used by the composition and turnover facts.
type Gender int64

const (
	GenderMale        Gender = 1
	GenderFemale      Gender = 2
	GenderNonBinary   Gender = 3
	GenderTransgender Gender = 4
	GenderOther       Gender = 5
)

const UnknownGenderLabel = "Unknown"

var genderLabels = map[Gender]string{
	GenderMale:        "Male",
	GenderFemale:      "Female",
	GenderNonBinary:   "Non-binary",
	GenderTransgender: "Transgender",
	GenderOther:       "Other",
}

// Label returns the display label, or "Unknown" for ids outside the enumeration.
func (g Gender) Label() string {
	if label, ok := genderLabels[g]; ok {
		return label
	}
	return UnknownGenderLabel
}

func (g Gender) Known() bool {
	_, ok := genderLabels[g]
	return ok
}

// GendersByLabel returns every known gender ordered by label.
func GendersByLabel() []Gender {
	out := make([]Gender, 0, len(genderLabels))
	for g := range genderLabels {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label() < out[j].Label()
	})
	return out
}
