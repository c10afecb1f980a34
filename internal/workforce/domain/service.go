package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Snapshot loads a consistent dataset for one company.
	Snapshot(ctx context.Context, companyID int64) (*Dataset, error)
	// ListUnits returns the company's active units ordered by id.
	ListUnits(ctx context.Context, companyID int64) ([]OrganizationalUnit, error)
	// Version identifies the current fact data. It changes after every
	// successful ingestion and is InitialVersion before the first one.
	Version(ctx context.Context) (string, error)
}

const InitialVersion = "initial"

// RunStatusSucceeded marks an ingestion run whose facts are live.
const RunStatusSucceeded = "succeeded"

var (
	ErrInvalidCompany = errors.New("invalid_company")
)
