package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Compute returns every KPI for the filter.
	Compute(ctx context.Context, filter Filter) (Data, error)
	// Compare computes the filter restricted to year and to year-1.
	Compare(ctx context.Context, filter Filter, year int) (Comparison, error)
}

var (
	ErrInvalidFilter   = errors.New("invalid_filter")
	ErrDataUnavailable = errors.New("data_unavailable")
	ErrUnknownKPI      = errors.New("unknown_kpi")
)
