package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	ingestdomain "github.com/smallbiznis/workforcekpi/internal/ingest/domain"
	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	"github.com/xuri/excelize/v2"
)

// Workbook is the parsed content of one upload.
type Workbook struct {
	Dataset   workforcedomain.Dataset
	Processed []string
	Skipped   []string
	// CompanyID is the first company id of the first sheet, or of the first
	// loaded row when the first sheet has none. Zero when neither exists.
	CompanyID int64
}

type Parser struct {
	validate *validator.Validate
	genID    *snowflake.Node
	now      func() time.Time
}

func NewParser(genID *snowflake.Node, now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		genID:    genID,
		now:      now,
	}
}

// Parse reads every sheet of an xlsx workbook. Sheets whose header matches
// no known table are listed as skipped.
func (p *Parser) Parse(content []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ingestdomain.ErrInvalidFile, err)
	}
	defer f.Close()

	now := p.now().UTC()
	wb := &Workbook{Processed: []string{}, Skipped: []string{}}

	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet %q: %v", ingestdomain.ErrInvalidFile, sheet, err)
		}
		if len(rows) == 0 {
			wb.Skipped = append(wb.Skipped, sheet)
			continue
		}

		cols := headerIndex(rows[0])
		if i == 0 {
			wb.CompanyID = firstCompanyID(sheet, cols, rows[1:])
		}

		kind, ok := Match(cols)
		if !ok {
			wb.Skipped = append(wb.Skipped, sheet)
			continue
		}

		for n, cells := range rows[1:] {
			r := row{sheet: sheet, line: n + 2, cells: cells, cols: cols}
			if r.blank() {
				continue
			}
			if err := p.load(&wb.Dataset, kind, r, now); err != nil {
				return nil, err
			}
		}
		wb.Processed = append(wb.Processed, sheet)
	}

	if wb.CompanyID == 0 {
		wb.CompanyID = firstLoadedCompanyID(&wb.Dataset)
	}
	return wb, nil
}

func firstCompanyID(sheet string, cols map[string]int, rows [][]string) int64 {
	if _, ok := cols["companyid"]; !ok {
		return 0
	}
	for n, cells := range rows {
		r := row{sheet: sheet, line: n + 2, cells: cells, cols: cols}
		if r.blank() {
			continue
		}
		id, err := r.int("companyid")
		if err != nil || id <= 0 {
			return 0
		}
		return id
	}
	return 0
}

func firstLoadedCompanyID(ds *workforcedomain.Dataset) int64 {
	switch {
	case len(ds.CompositionFacts) > 0:
		return ds.CompositionFacts[0].CompanyID
	case len(ds.DiversityFacts) > 0:
		return ds.DiversityFacts[0].CompanyID
	case len(ds.TurnoverFacts) > 0:
		return ds.TurnoverFacts[0].CompanyID
	case len(ds.TrainingFacts) > 0:
		return ds.TrainingFacts[0].CompanyID
	case len(ds.InjuryFacts) > 0:
		return ds.InjuryFacts[0].CompanyID
	case len(ds.OrgUnits) > 0:
		return ds.OrgUnits[0].CompanyID
	}
	return 0
}

func (p *Parser) load(ds *workforcedomain.Dataset, kind Kind, r row, now time.Time) error {
	switch kind {
	case KindUnits:
		unit := workforcedomain.OrganizationalUnit{
			Name:      r.text("organizationalunitname"),
			IsDeleted: r.bool("isdeleted"),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.ints(map[string]*int64{
			"organizationalunitid": &unit.ID,
			"companyid":            &unit.CompanyID,
		}); err != nil {
			return err
		}
		if err := p.check(r, unit); err != nil {
			return err
		}
		ds.OrgUnits = append(ds.OrgUnits, unit)
		return nil
	}

	key, err := r.dateKey("datekey", now)
	if err != nil {
		return err
	}
	var sourceID, companyID, countryID, unitID int64
	if err := r.ints(map[string]*int64{
		"companyid":            &companyID,
		"countryid":            &countryID,
		"organizationalunitid": &unitID,
	}); err != nil {
		return err
	}

	switch kind {
	case KindInjuries:
		sourceID, err = r.optionalInt("injuryid")
	case KindHeadcount:
		sourceID, err = r.optionalInt("workforceid")
	case KindDiversity:
		sourceID, err = r.optionalInt("diversityid")
	case KindComposition:
		sourceID, err = r.optionalInt("workforcecompositionid")
	case KindTraining:
		sourceID, err = r.optionalInt("trainingid")
	case KindTurnover:
		sourceID, err = r.optionalInt("turnoverid")
	}
	if err != nil {
		return err
	}

	id := p.genID.Generate()
	switch kind {
	case KindInjuries:
		fact := workforcedomain.WorkplaceInjuryFact{
			ID: id, SourceID: sourceID, DateKey: key, CompanyID: companyID, CountryID: countryID,
			OrganizationalUnitID: unitID, CreatedAt: now, UpdatedAt: now,
		}
		if fact.InjuryCount, err = r.int("injurycount"); err != nil {
			return err
		}
		if err := p.check(r, fact); err != nil {
			return err
		}
		ds.InjuryFacts = append(ds.InjuryFacts, fact)

	case KindHeadcount:
		fact := workforcedomain.WorkforceHeadcountFact{
			ID: id, SourceID: sourceID, DateKey: key, CompanyID: companyID, CountryID: countryID,
			OrganizationalUnitID: unitID, CreatedAt: now, UpdatedAt: now,
		}
		if fact.WorkforceCount, err = r.int("workforcecount"); err != nil {
			return err
		}
		if err := p.check(r, fact); err != nil {
			return err
		}
		ds.HeadcountFacts = append(ds.HeadcountFacts, fact)

	case KindDiversity:
		fact := workforcedomain.WorkforceDiversityFact{
			ID: id, SourceID: sourceID, DateKey: key, CompanyID: companyID, CountryID: countryID,
			OrganizationalUnitID: unitID, CreatedAt: now, UpdatedAt: now,
		}
		if fact.DisabilityCount, err = r.int("disabilitycount"); err != nil {
			return err
		}
		if err := p.check(r, fact); err != nil {
			return err
		}
		ds.DiversityFacts = append(ds.DiversityFacts, fact)

	case KindComposition:
		fact := workforcedomain.WorkforceCompositionFact{
			ID: id, SourceID: sourceID, DateKey: key, CompanyID: companyID, CountryID: countryID,
			OrganizationalUnitID: unitID, CreatedAt: now, UpdatedAt: now,
		}
		if fact.GenderID, err = r.int("genderid"); err != nil {
			return err
		}
		if fact.ContractTypeID, err = r.optionalInt("contracttypeid"); err != nil {
			return err
		}
		if fact.EmployeeCount, err = r.int("employeecount"); err != nil {
			return err
		}
		if err := p.check(r, fact); err != nil {
			return err
		}
		ds.CompositionFacts = append(ds.CompositionFacts, fact)

	case KindTraining:
		fact := workforcedomain.EmployeeTrainingFact{
			ID: id, SourceID: sourceID, DateKey: key, CompanyID: companyID, CountryID: countryID,
			OrganizationalUnitID: unitID, CreatedAt: now, UpdatedAt: now,
		}
		if fact.TotalTrainingHours, err = r.float("totaltraininghours"); err != nil {
			return err
		}
		if err := p.check(r, fact); err != nil {
			return err
		}
		ds.TrainingFacts = append(ds.TrainingFacts, fact)

	case KindTurnover:
		fact := workforcedomain.EmployeeTurnoverFact{
			ID: id, SourceID: sourceID, DateKey: key, CompanyID: companyID, CountryID: countryID,
			OrganizationalUnitID: unitID, CreatedAt: now, UpdatedAt: now,
		}
		if fact.GenderID, err = r.int("genderid"); err != nil {
			return err
		}
		if fact.AgeGroupID, err = r.optionalInt("agegroupid"); err != nil {
			return err
		}
		if fact.ContractTypeID, err = r.optionalInt("contracttypeid"); err != nil {
			return err
		}
		if fact.EmployeesDeparted, err = r.int("employeesdeparted"); err != nil {
			return err
		}
		if err := p.check(r, fact); err != nil {
			return err
		}
		ds.TurnoverFacts = append(ds.TurnoverFacts, fact)
	}
	return nil
}

func (r row) ints(targets map[string]*int64) error {
	for _, col := range sortedKeys(targets) {
		v, err := r.int(col)
		if err != nil {
			return err
		}
		*targets[col] = v
	}
	return nil
}

func (p *Parser) check(r row, v any) error {
	err := p.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		return r.fail(fe.Field(), fmt.Errorf("failed %s", rule))
	}
	return r.fail("", err)
}
