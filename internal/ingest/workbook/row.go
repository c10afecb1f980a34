package workbook

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	ingestdomain "github.com/smallbiznis/workforcekpi/internal/ingest/domain"
	"github.com/xuri/excelize/v2"
)

// excelSerialLimit separates Excel date serials from YYYYMM and YYYYMMDD keys.
const excelSerialLimit = 100000

// RowError locates an invalid cell.
type RowError struct {
	Sheet  string
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("sheet %q row %d: %v", e.Sheet, e.Row, e.Err)
	}
	return fmt.Sprintf("sheet %q row %d column %s: %v", e.Sheet, e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ingestdomain.ErrInvalidRow, e.Err}
}

type row struct {
	sheet string
	line  int
	cells []string
	cols  map[string]int
}

func (r row) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r row) text(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r row) fail(col string, err error) error {
	return &RowError{Sheet: r.sheet, Row: r.line, Column: col, Err: err}
}

func (r row) int(col string) (int64, error) {
	raw := r.text(col)
	if raw == "" {
		return 0, r.fail(col, fmt.Errorf("value is required"))
	}
	return r.parseInt(col, raw)
}

// optionalInt reads blank cells as zero.
func (r row) optionalInt(col string) (int64, error) {
	raw := r.text(col)
	if raw == "" {
		return 0, nil
	}
	return r.parseInt(col, raw)
}

func (r row) parseInt(col, raw string) (int64, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, r.fail(col, fmt.Errorf("%q is not an integer", raw))
	}
	return int64(f), nil
}

func (r row) float(col string) (float64, error) {
	raw := r.text(col)
	if raw == "" {
		return 0, r.fail(col, fmt.Errorf("value is required"))
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, r.fail(col, fmt.Errorf("%q is not a number", raw))
	}
	return f, nil
}

func (r row) bool(col string) bool {
	switch strings.ToLower(r.text(col)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

// dateKey canonicalises the date key cell. Integer keys keep their digits,
// Excel date serials and ISO dates become YYYY-MM-DD and a blank cell
// becomes today's date as YYYYMMDD.
func (r row) dateKey(col string, now time.Time) (string, error) {
	raw := r.text(col)
	if raw == "" {
		return now.Format("20060102"), nil
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		switch {
		case f >= excelSerialLimit && f == math.Trunc(f):
			return strconv.FormatInt(int64(f), 10), nil
		case f > 0 && f < excelSerialLimit:
			t, err := excelize.ExcelDateToTime(f, false)
			if err != nil {
				return "", r.fail(col, err)
			}
			return t.Format("2006-01-02"), nil
		default:
			return "", r.fail(col, fmt.Errorf("%q is not a date key", raw))
		}
	}

	if len(raw) >= 10 {
		if _, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return raw[:10], nil
		}
	}
	return raw, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
