package heapsched

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoScenarioYAML = `
end_time: 8
tasks:
  - {id: A, priority: 5, arrival_time: 0, deadline: 10, duration: 2}
  - {id: B, priority: 9, arrival_time: 1, deadline: 5}
  - {id: C, priority: 5, arrival_time: 1, deadline: 3, duration: 2}
  - {id: D, priority: 1, arrival_time: 2, deadline: 9}
`

func TestScenarioLoader_Load(t *testing.T) {
	sc, err := NewScenarioLoader().Load(strings.NewReader(demoScenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, 8, sc.EndTime)
	assert.Equal(t, IdleMarker, sc.IdleMarker)
	assert.Equal(t, "info", sc.LogLevel)
	require.Len(t, sc.Tasks, 4)
	assert.Equal(t, demoTasks(), sc.Tasks)

	timeline, err := Simulate(sc.Tasks, sc.EndTime)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A", "B", "C", "C", "D", IdleMarker, IdleMarker}, timeline)
}

func TestScenarioLoader_Overrides(t *testing.T) {
	l := NewScenarioLoader()
	l.SetOverride("end_time", 3)
	l.SetOverride("idle_marker", "-")

	sc, err := l.Load(strings.NewReader(demoScenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, 3, sc.EndTime)
	assert.Equal(t, "-", sc.IdleMarker)
}

func TestScenarioLoader_Env(t *testing.T) {
	t.Setenv("HEAPSCHED_LOG_LEVEL", "debug")

	sc, err := NewScenarioLoader().Load(strings.NewReader(demoScenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "debug", sc.LogLevel)
}

func TestScenarioLoader_ValidationErrors(t *testing.T) {
	input := `
end_time: -1
log_level: loud
tasks:
  - {id: A, priority: 1, duration: 0}
  - {id: B, priority: 2, duration: -1}
`
	_, err := NewScenarioLoader().Load(strings.NewReader(input))
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "Scenario.EndTime")
	assert.Contains(t, fields, "Scenario.LogLevel")
	assert.Contains(t, fields, "Scenario.Tasks[0].Duration")
	assert.Contains(t, fields, "Scenario.Tasks[1].Duration")
	assert.Contains(t, err.Error(), "'EndTime' must be at least 0")
}

func TestWriteScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, WriteScenario(DemoScenario(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "end_time: 8")

	sc, err := NewScenarioLoader().LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, DemoScenario(), sc)
}

func TestScenarioLoader_MissingFile(t *testing.T) {
	_, err := NewScenarioLoader().LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
