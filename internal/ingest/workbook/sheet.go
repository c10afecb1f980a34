package workbook

import "strings"

// Kind names the table a sheet is loaded into.
type Kind string

const (
	KindInjuries    Kind = "injuries"
	KindHeadcount   Kind = "workforce"
	KindDiversity   Kind = "workforcediversity"
	KindComposition Kind = "workforcecomposition"
	KindTraining    Kind = "employeetraining"
	KindTurnover    Kind = "employeeturnover"
	KindUnits       Kind = "organizationalunits"
)

type sheetSpec struct {
	kind     Kind
	required []string
}

// factSpecs are tried in order; the first whose columns are all present wins.
var factSpecs = []sheetSpec{
	{KindInjuries, []string{"injuryid", "datekey", "injurycount", "companyid", "countryid", "organizationalunitid", "createdat", "updatedat"}},
	{KindHeadcount, []string{"workforceid", "datekey", "workforcecount", "companyid", "countryid", "organizationalunitid", "createdat", "updatedat"}},
	{KindDiversity, []string{"diversityid", "datekey", "countryid", "companyid", "disabilitycount", "organizationalunitid", "createdat", "updatedat"}},
	{KindComposition, []string{"workforcecompositionid", "datekey", "genderid", "contracttypeid", "countryid", "employeecount", "companyid", "organizationalunitid", "createdat", "updatedat"}},
	{KindTraining, []string{"trainingid", "datekey", "totaltraininghours", "companyid", "countryid", "organizationalunitid", "createdat", "updatedat"}},
	{KindTurnover, []string{"turnoverid", "datekey", "genderid", "agegroupid", "employeesdeparted", "companyid", "contracttypeid", "countryid", "organizationalunitid", "createdat", "updatedat"}},
}

var unitSpec = sheetSpec{KindUnits, []string{"organizationalunitid", "organizationalunitname", "companyid"}}

// NormalizeHeader trims a header and drops spaces and underscores before lowercasing.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	return strings.ToLower(h)
}

// Match returns the kind of a sheet from its normalized header columns.
func Match(columns map[string]int) (Kind, bool) {
	for _, spec := range factSpecs {
		if hasAll(columns, spec.required) {
			return spec.kind, true
		}
	}
	if hasAll(columns, unitSpec.required) {
		return KindUnits, true
	}
	return "", false
}

func hasAll(columns map[string]int, required []string) bool {
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return false
		}
	}
	return true
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		if name == "" {
			continue
		}
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}
	return cols
}
