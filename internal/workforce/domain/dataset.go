package domain

// Dataset is one consistent read of the dimension and fact tables.
type Dataset struct {
	OrgUnits         []OrganizationalUnit
	CompositionFacts []WorkforceCompositionFact
	DiversityFacts   []WorkforceDiversityFact
	TurnoverFacts    []EmployeeTurnoverFact
	TrainingFacts    []EmployeeTrainingFact
	InjuryFacts      []WorkplaceInjuryFact
	HeadcountFacts   []WorkforceHeadcountFact
}

func (d *Dataset) Units() []OrganizationalUnit { return d.OrgUnits }
func (d *Dataset) Composition() []WorkforceCompositionFact { return d.CompositionFacts }
func (d *Dataset) Diversity() []WorkforceDiversityFact { return d.DiversityFacts }
func (d *Dataset) Turnover() []EmployeeTurnoverFact { return d.TurnoverFacts }
func (d *Dataset) Training() []EmployeeTrainingFact { return d.TrainingFacts }
func (d *Dataset) Injuries() []WorkplaceInjuryFact { return d.InjuryFacts }

// RowCounts reports the number of fact rows per table.
func (d *Dataset) RowCounts() map[string]int {
	return map[string]int{
		WorkforceCompositionFact{}.TableName(): len(d.CompositionFacts),
		WorkforceDiversityFact{}.TableName():   len(d.DiversityFacts),
		EmployeeTurnoverFact{}.TableName():     len(d.TurnoverFacts),
		EmployeeTrainingFact{}.TableName():     len(d.TrainingFacts),
		WorkplaceInjuryFact{}.TableName():      len(d.InjuryFacts),
		WorkforceHeadcountFact{}.TableName():   len(d.HeadcountFacts),
	}
}
