package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLayoutHolderFallsBackToDefaults(t *testing.T) {
	holder, err := NewLayoutHolder(Config{ReportLayoutPath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)

	layout := holder.Get()
	assert.Equal(t, "ESRS S1 Management Report", layout.Cover.Title)
	assert.Equal(t, []string{"Metric", "Value"}, layout.KPISummary.Columns)
	assert.Len(t, layout.Narrative.Sections, 7)
	assert.Equal(t, "closing", layout.Closing.Key)
}

func TestLayoutHolderOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("layout:\n  cover_page:\n    title: Workforce Report 2024\n    show_logo: false\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.yml"), content, 0o600))

	holder, err := NewLayoutHolder(Config{ReportLayoutPath: dir}, zap.NewNop())
	require.NoError(t, err)

	layout := holder.Get()
	assert.Equal(t, "Workforce Report 2024", layout.Cover.Title)
	assert.False(t, layout.Cover.ShowLogo)
	assert.Equal(t, "KPI Summary", layout.KPISummary.Title)
}

func TestValidateLayoutRejectsBadColumns(t *testing.T) {
	layout := DefaultReportLayout()
	layout.KPISummary.Columns = []string{"Metric"}
	assert.Error(t, validateLayout(layout))
}
