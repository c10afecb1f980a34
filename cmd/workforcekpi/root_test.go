package main

import (
	"bytes"
	"testing"

	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "ingest", "kpi", "report", "apikey"}, names)
}

func TestKPICmd_RejectsUnknownSlug(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"kpi", "--company", "1", "--kpi", "headcount"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, kpidomain.ErrUnknownKPI)
}

func TestReportCmd_RequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "--company", "1"})

	assert.Error(t, cmd.Execute())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
