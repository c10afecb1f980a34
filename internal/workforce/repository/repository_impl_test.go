package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Models()...))
	require.NoError(t, db.Exec(`CREATE TABLE ingestion_runs (id TEXT PRIMARY KEY, status TEXT NOT NULL, finished_at DATETIME)`).Error)
	return db
}

func TestReplaceFactsAndLoadDataset(t *testing.T) {
	db := openDB(t)
	r := Provide()
	ctx := context.Background()

	require.NoError(t, r.UpsertUnits(ctx, db, []domain.OrganizationalUnit{
		{ID: 1, Name: "HQ", CompanyID: 7},
		{ID: 2, Name: "Other", CompanyID: 8},
	}))

	ds := &domain.Dataset{
		CompositionFacts: []domain.WorkforceCompositionFact{
			{ID: 1, CompanyID: 7, OrganizationalUnitID: 1, GenderID: 1, EmployeeCount: 3, DateKey: "20240101"},
			{ID: 2, CompanyID: 8, OrganizationalUnitID: 2, GenderID: 1, EmployeeCount: 9, DateKey: "20240101"},
		},
		InjuryFacts: []domain.WorkplaceInjuryFact{
			{ID: 3, CompanyID: 7, OrganizationalUnitID: 1, InjuryCount: 1, DateKey: "20240101"},
		},
	}
	require.NoError(t, r.ReplaceFacts(ctx, db, ds))

	loaded, err := r.LoadDataset(ctx, db, 7)
	require.NoError(t, err)
	require.Len(t, loaded.OrgUnits, 1)
	require.Len(t, loaded.CompositionFacts, 1)
	assert.Equal(t, int64(3), loaded.CompositionFacts[0].EmployeeCount)
	assert.Len(t, loaded.InjuryFacts, 1)

	require.NoError(t, r.ReplaceFacts(ctx, db, &domain.Dataset{}))
	loaded, err = r.LoadDataset(ctx, db, 7)
	require.NoError(t, err)
	assert.Empty(t, loaded.CompositionFacts)
	assert.Len(t, loaded.OrgUnits, 1)
}

func TestUpsertUnitsUpdatesExisting(t *testing.T) {
	db := openDB(t)
	r := Provide()
	ctx := context.Background()

	require.NoError(t, r.UpsertUnits(ctx, db, []domain.OrganizationalUnit{{ID: 1, Name: "HQ", CompanyID: 7}}))
	require.NoError(t, r.UpsertUnits(ctx, db, []domain.OrganizationalUnit{{ID: 1, Name: "Head Office", CompanyID: 7, IsDeleted: true}}))

	units, err := r.ListUnits(ctx, db, 7)
	require.NoError(t, err)
	assert.Empty(t, units)

	var unit domain.OrganizationalUnit
	require.NoError(t, db.First(&unit, 1).Error)
	assert.Equal(t, "Head Office", unit.Name)
}

func TestLatestVersion(t *testing.T) {
	db := openDB(t)
	r := Provide()
	ctx := context.Background()

	version, err := r.LatestVersion(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, version)

	now := time.Now().UTC()
	require.NoError(t, db.Exec(`INSERT INTO ingestion_runs (id, status, finished_at) VALUES (?, ?, ?), (?, ?, ?), (?, ?, ?)`,
		"01A", domain.RunStatusSucceeded, now.Add(-time.Hour),
		"01B", domain.RunStatusSucceeded, now,
		"01C", "failed", now.Add(time.Hour),
	).Error)

	version, err = r.LatestVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "01B", version)
}
