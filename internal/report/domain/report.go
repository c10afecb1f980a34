package domain

import (
	"context"
	"errors"
	"strings"

	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
)

type Type string

const (
	TypePDF  Type = "pdf"
	TypeDOCX Type = "docx"
	TypeXLSX Type = "xlsx"
)

// ParseType defaults to PDF when s is empty.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TypePDF, nil
	case TypePDF, TypeDOCX, TypeXLSX:
		return t, nil
	default:
		return "", ErrUnsupportedType
	}
}

type Request struct {
	CompanyID   int64  `json:"company_id"`
	Year        int    `json:"year"`
	CompanyName string `json:"company_name,omitempty"`
	// KPIData is computed for Year when absent.
	KPIData *kpidomain.Data `json:"kpi_data,omitempty"`
	// HistoricalKPIData is computed for Year-1 when absent.
	HistoricalKPIData *kpidomain.Data `json:"historical_kpi_data,omitempty"`
	Type              string          `json:"type"`
}

type File struct {
	Name   string `json:"name"`
	Base64 string `json:"base64"`
}

type Response struct {
	Sections map[string]string `json:"sections"`
	// Charts maps every chart key to base64 PNG, or null when not drawn.
	Charts map[string]*string `json:"charts"`
	File   File               `json:"file"`
}

type Service interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

var (
	ErrInvalidRequest  = errors.New("invalid_report_request")
	ErrUnsupportedType = errors.New("unsupported_report_type")
)
