package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/smallbiznis/workforcekpi/internal/config"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/internal/narrative"
	"github.com/smallbiznis/workforcekpi/internal/report/chart"
	"github.com/smallbiznis/workforcekpi/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type kpiMock struct {
	mock.Mock
}

func (m *kpiMock) Compute(ctx context.Context, filter kpidomain.Filter) (kpidomain.Data, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(kpidomain.Data), args.Error(1)
}

func (m *kpiMock) Compare(ctx context.Context, filter kpidomain.Filter, year int) (kpidomain.Comparison, error) {
	args := m.Called(ctx, filter, year)
	return args.Get(0).(kpidomain.Comparison), args.Error(1)
}

func newTestService(kpi kpidomain.Service) *Service {
	svc := New(Params{
		Log:       zap.NewNop(),
		KPI:       kpi,
		Narrative: narrative.NewWithCompleter(nil, zap.NewNop()),
		Layout:    config.NewStaticLayoutHolder(config.DefaultReportLayout()),
	}).(*Service)
	svc.now = func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func kpis(average float64) kpidomain.Data {
	return kpidomain.Data{
		WorkforceByGender: []kpidomain.GenderCount{{Gender: "Female", EmployeeCount: 4}, {Gender: "Male", EmployeeCount: 6}},
		TurnoverRate:      kpidomain.TurnoverRate{TotalEmployees: 10},
		AverageTrainingHours: kpidomain.AverageTrainingHours{
			OverallAverageHours: average,
			BreakdownByGender:   []kpidomain.TrainingByGender{{Gender: "Female", TotalTrainingHours: 12}},
		},
	}.Normalized()
}

func TestGenerate_ComputesKPIs(t *testing.T) {
	m := &kpiMock{}
	prior := kpis(1.5)
	m.On("Compare", mock.Anything, kpidomain.Filter{CompanyID: 7}, 2025).
		Return(kpidomain.Comparison{Current: kpis(2.5), Historical: &prior}, nil).Once()

	resp, err := newTestService(m).Generate(context.Background(), domain.Request{
		CompanyID:   7,
		Year:        2025,
		CompanyName: "Acme GmbH",
		Type:        "XLSX",
	})
	require.NoError(t, err)
	m.AssertExpectations(t)

	assert.Equal(t, "S1_Report_acme-gmbh_2025.xlsx", resp.File.Name)
	raw, err := base64.StdEncoding.DecodeString(resp.File.Base64)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(raw[:2]))

	require.Len(t, resp.Sections, len(narrative.SectionKeys()))
	assert.Equal(t, narrative.Fallback(narrative.SectionClosing), resp.Sections[narrative.SectionClosing])

	require.Len(t, resp.Charts, 3)
	for _, key := range chart.Keys() {
		assert.NotNil(t, resp.Charts[key], key)
	}
}

func TestGenerate_UsesProvidedData(t *testing.T) {
	m := &kpiMock{}
	current, prior := kpis(2), kpis(1)

	resp, err := newTestService(m).Generate(context.Background(), domain.Request{
		CompanyID:         42,
		Year:              2025,
		KPIData:           &current,
		HistoricalKPIData: &prior,
	})
	require.NoError(t, err)
	m.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything, mock.Anything)

	assert.Equal(t, "S1_Report_42_2025.pdf", resp.File.Name)
	raw, err := base64.StdEncoding.DecodeString(resp.File.Base64)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestGenerate_NoHistoryLeavesTrendEmpty(t *testing.T) {
	m := &kpiMock{}
	current := kpis(2)
	m.On("Compare", mock.Anything, kpidomain.Filter{CompanyID: 42}, 2025).
		Return(kpidomain.Comparison{}, fmt.Errorf("%w: boom", kpidomain.ErrDataUnavailable)).Once()

	resp, err := newTestService(m).Generate(context.Background(), domain.Request{
		CompanyID: 42,
		Year:      2025,
		KPIData:   &current,
		Type:      "docx",
	})
	require.NoError(t, err)

	assert.Equal(t, "S1_Report_42_2025.docx", resp.File.Name)
	assert.Nil(t, resp.Charts[chart.KeyTrainingHoursTrend])
	assert.NotNil(t, resp.Charts[chart.KeyWorkforceByGender])
}

func TestGenerate_StorageFailure(t *testing.T) {
	m := &kpiMock{}
	m.On("Compare", mock.Anything, mock.Anything, 2025).
		Return(kpidomain.Comparison{}, fmt.Errorf("%w: boom", kpidomain.ErrDataUnavailable)).Once()

	_, err := newTestService(m).Generate(context.Background(), domain.Request{CompanyID: 1, Year: 2025})
	assert.ErrorIs(t, err, kpidomain.ErrDataUnavailable)
}

func TestGenerate_RejectsBadRequests(t *testing.T) {
	svc := newTestService(&kpiMock{})

	_, err := svc.Generate(context.Background(), domain.Request{CompanyID: 1, Year: 2025, Type: "odt"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = svc.Generate(context.Background(), domain.Request{CompanyID: 0, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.Generate(context.Background(), domain.Request{CompanyID: 1, Year: 25})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "S1_Report_acme-holdings-ltd_2024.pdf", fileName(3, "Acme Holdings Ltd.", 2024, domain.TypePDF))
	assert.Equal(t, "S1_Report_3_2024.pdf", fileName(3, "  ", 2024, domain.TypePDF))
}
