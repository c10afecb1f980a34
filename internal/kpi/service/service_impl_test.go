package service

import (
	"context"
	"errors"
	"testing"

	"github.com/smallbiznis/workforcekpi/internal/cache"
	"github.com/smallbiznis/workforcekpi/internal/config"
	"github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type workforceMock struct {
	mock.Mock
}

func (m *workforceMock) Snapshot(ctx context.Context, companyID int64) (*workforcedomain.Dataset, error) {
	args := m.Called(ctx, companyID)
	ds, _ := args.Get(0).(*workforcedomain.Dataset)
	return ds, args.Error(1)
}

func (m *workforceMock) ListUnits(ctx context.Context, companyID int64) ([]workforcedomain.OrganizationalUnit, error) {
	args := m.Called(ctx, companyID)
	units, _ := args.Get(0).([]workforcedomain.OrganizationalUnit)
	return units, args.Error(1)
}

func (m *workforceMock) Version(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func dataset() *workforcedomain.Dataset {
	row := func(date string, count int64) workforcedomain.WorkforceCompositionFact {
		return workforcedomain.WorkforceCompositionFact{
			CompanyID: 1, OrganizationalUnitID: 5, CountryID: 1, GenderID: 1, EmployeeCount: count, DateKey: date,
		}
	}
	return &workforcedomain.Dataset{
		OrgUnits:         []workforcedomain.OrganizationalUnit{{ID: 5, Name: "HQ", CompanyID: 1}},
		CompositionFacts: []workforcedomain.WorkforceCompositionFact{row("20240101", 20), row("20250101", 25)},
		InjuryFacts: []workforcedomain.WorkplaceInjuryFact{
			{CompanyID: 1, OrganizationalUnitID: 5, CountryID: 1, DateKey: "20250101", InjuryCount: 1},
		},
	}
}

func newService(wf workforcedomain.Service) domain.Service {
	return New(Params{
		Log:       zap.NewNop(),
		Workforce: wf,
		Cache:     cache.NewKPICache(config.Config{}, nil, zap.NewNop()),
	})
}

func TestCompute_CachesPerVersion(t *testing.T) {
	wf := &workforceMock{}
	wf.On("Version", mock.Anything).Return("run-1", nil)
	wf.On("Snapshot", mock.Anything, int64(1)).Return(dataset(), nil).Once()

	svc := newService(wf)
	filter := domain.Filter{CompanyID: 1, Years: []int{2025}}

	first, err := svc.Compute(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(25), first.InjuryRate.TotalEmployees)
	assert.Equal(t, 0.04, first.InjuryRate.OverallInjuryRate)

	second, err := svc.Compute(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	wf.AssertExpectations(t)
}

func TestCompute_NewVersionRecomputes(t *testing.T) {
	wf := &workforceMock{}
	wf.On("Version", mock.Anything).Return("run-1", nil).Once()
	wf.On("Version", mock.Anything).Return("run-2", nil).Once()
	wf.On("Snapshot", mock.Anything, int64(1)).Return(dataset(), nil).Twice()

	svc := newService(wf)
	filter := domain.Filter{CompanyID: 1}

	_, err := svc.Compute(context.Background(), filter)
	require.NoError(t, err)
	_, err = svc.Compute(context.Background(), filter)
	require.NoError(t, err)

	wf.AssertExpectations(t)
}

func TestCompute_InvalidFilter(t *testing.T) {
	svc := newService(&workforceMock{})

	_, err := svc.Compute(context.Background(), domain.Filter{})
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestCompute_StorageFailure(t *testing.T) {
	wf := &workforceMock{}
	wf.On("Version", mock.Anything).Return("", errors.New("connection refused"))

	_, err := newService(wf).Compute(context.Background(), domain.Filter{CompanyID: 1})
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestCompare(t *testing.T) {
	wf := &workforceMock{}
	wf.On("Version", mock.Anything).Return("run-1", nil)
	wf.On("Snapshot", mock.Anything, int64(1)).Return(dataset(), nil)

	svc := newService(wf)

	cmp, err := svc.Compare(context.Background(), domain.Filter{CompanyID: 1}, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(25), cmp.Current.TurnoverRate.TotalEmployees)
	require.NotNil(t, cmp.Historical)
	assert.Equal(t, int64(20), cmp.Historical.TurnoverRate.TotalEmployees)

	cmp, err = svc.Compare(context.Background(), domain.Filter{CompanyID: 1}, 2024)
	require.NoError(t, err)
	assert.Nil(t, cmp.Historical)
}
