package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// FactKey carries the dimensions every fact row shares.
type FactKey struct {
	CompanyID            int64
	OrganizationalUnitID int64
	CountryID            int64
	// DateKey is the canonical text form of the source date key. Its first
	// four characters are the reporting year.
	DateKey string
}

type WorkforceCompositionFact struct {
	ID                   snowflake.ID `gorm:"primaryKey"`
	SourceID             int64        `gorm:"not null;default:0" validate:"gte=0"`
	DateKey              string       `gorm:"not null" validate:"required"`
	GenderID             int64        `gorm:"not null" validate:"gte=0"`
	ContractTypeID       int64        `gorm:"not null;default:0" validate:"gte=0"`
	CountryID            int64        `gorm:"not null" validate:"gte=0"`
	EmployeeCount        int64        `gorm:"not null" validate:"gte=0"`
	CompanyID            int64        `gorm:"not null;index:ix_workforce_composition_facts_company,priority:1" validate:"gt=0"`
	OrganizationalUnitID int64        `gorm:"not null;index:ix_workforce_composition_facts_company,priority:2" validate:"gt=0"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (WorkforceCompositionFact) TableName() string { return "workforce_composition_facts" }

func (f WorkforceCompositionFact) Key() FactKey {
	return FactKey{CompanyID: f.CompanyID, OrganizationalUnitID: f.OrganizationalUnitID, CountryID: f.CountryID, DateKey: f.DateKey}
}

type WorkforceDiversityFact struct {
	ID                   snowflake.ID `gorm:"primaryKey"`
	SourceID             int64        `gorm:"not null;default:0" validate:"gte=0"`
	DateKey              string       `gorm:"not null" validate:"required"`
	CountryID            int64        `gorm:"not null" validate:"gte=0"`
	CompanyID            int64        `gorm:"not null;index:ix_workforce_diversity_facts_company,priority:1" validate:"gt=0"`
	DisabilityCount      int64        `gorm:"not null" validate:"gte=0"`
	OrganizationalUnitID int64        `gorm:"not null;index:ix_workforce_diversity_facts_company,priority:2" validate:"gt=0"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (WorkforceDiversityFact) TableName() string { return "workforce_diversity_facts" }

func (f WorkforceDiversityFact) Key() FactKey {
	return FactKey{CompanyID: f.CompanyID, OrganizationalUnitID: f.OrganizationalUnitID, CountryID: f.CountryID, DateKey: f.DateKey}
}

type EmployeeTurnoverFact struct {
	ID                   snowflake.ID `gorm:"primaryKey"`
	SourceID             int64        `gorm:"not null;default:0" validate:"gte=0"`
	DateKey              string       `gorm:"not null" validate:"required"`
	GenderID             int64        `gorm:"not null" validate:"gte=0"`
	AgeGroupID           int64        `gorm:"not null;default:0" validate:"gte=0"`
	EmployeesDeparted    int64        `gorm:"not null" validate:"gte=0"`
	CompanyID            int64        `gorm:"not null;index:ix_employee_turnover_facts_company,priority:1" validate:"gt=0"`
	ContractTypeID       int64        `gorm:"not null;default:0" validate:"gte=0"`
	CountryID            int64        `gorm:"not null" validate:"gte=0"`
	OrganizationalUnitID int64        `gorm:"not null;index:ix_employee_turnover_facts_company,priority:2" validate:"gt=0"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (EmployeeTurnoverFact) TableName() string { return "employee_turnover_facts" }

func (f EmployeeTurnoverFact) Key() FactKey {
	return FactKey{CompanyID: f.CompanyID, OrganizationalUnitID: f.OrganizationalUnitID, CountryID: f.CountryID, DateKey: f.DateKey}
}

type EmployeeTrainingFact struct {
	ID                   snowflake.ID `gorm:"primaryKey"`
	SourceID             int64        `gorm:"not null;default:0" validate:"gte=0"`
	DateKey              string       `gorm:"not null" validate:"required"`
	TotalTrainingHours   float64      `gorm:"not null" validate:"gte=0"`
	CompanyID            int64        `gorm:"not null;index:ix_employee_training_facts_company,priority:1" validate:"gt=0"`
	CountryID            int64        `gorm:"not null" validate:"gte=0"`
	OrganizationalUnitID int64        `gorm:"not null;index:ix_employee_training_facts_company,priority:2" validate:"gt=0"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (EmployeeTrainingFact) TableName() string { return "employee_training_facts" }

func (f EmployeeTrainingFact) Key() FactKey {
	return FactKey{CompanyID: f.CompanyID, OrganizationalUnitID: f.OrganizationalUnitID, CountryID: f.CountryID, DateKey: f.DateKey}
}

type WorkplaceInjuryFact struct {
	ID                   snowflake.ID `gorm:"primaryKey"`
	SourceID             int64        `gorm:"not null;default:0" validate:"gte=0"`
	DateKey              string       `gorm:"not null" validate:"required"`
	InjuryCount          int64        `gorm:"not null" validate:"gte=0"`
	CompanyID            int64        `gorm:"not null;index:ix_workplace_injury_facts_company,priority:1" validate:"gt=0"`
	CountryID            int64        `gorm:"not null" validate:"gte=0"`
	OrganizationalUnitID int64        `gorm:"not null;index:ix_workplace_injury_facts_company,priority:2" validate:"gt=0"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (WorkplaceInjuryFact) TableName() string { return "workplace_injury_facts" }

func (f WorkplaceInjuryFact) Key() FactKey {
	return FactKey{CompanyID: f.CompanyID, OrganizationalUnitID: f.OrganizationalUnitID, CountryID: f.CountryID, DateKey: f.DateKey}
}

// WorkforceHeadcountFact holds total headcount rows from older workbooks.
// It is stored for completeness and does not feed any KPI.
type WorkforceHeadcountFact struct {
	ID                   snowflake.ID `gorm:"primaryKey"`
	SourceID             int64        `gorm:"not null;default:0" validate:"gte=0"`
	DateKey              string       `gorm:"not null" validate:"required"`
	WorkforceCount       int64        `gorm:"not null" validate:"gte=0"`
	CompanyID            int64        `gorm:"not null" validate:"gt=0"`
	CountryID            int64        `gorm:"not null" validate:"gte=0"`
	OrganizationalUnitID int64        `gorm:"not null" validate:"gt=0"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (WorkforceHeadcountFact) TableName() string { return "workforce_headcount_facts" }

func (f WorkforceHeadcountFact) Key() FactKey {
	return FactKey{CompanyID: f.CompanyID, OrganizationalUnitID: f.OrganizationalUnitID, CountryID: f.CountryID, DateKey: f.DateKey}
}

// Models lists every table owned by the workforce domain in creation order.
func Models() []any {
	return []any{
		&OrganizationalUnit{},
		&WorkforceCompositionFact{},
		&WorkforceDiversityFact{},
		&EmployeeTurnoverFact{},
		&EmployeeTrainingFact{},
		&WorkplaceInjuryFact{},
		&WorkforceHeadcountFact{},
	}
}
