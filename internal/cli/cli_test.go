package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDemoCommand(t *testing.T) {
	out, _, err := execute(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "Timeline: [A, A, B, C, C, D, IDLE, IDLE]")
	assert.Contains(t, out, "Summary:  A*2 B C*2 D IDLE*2")
	assert.Contains(t, out, "Busy:     75%")
}

func TestSimulateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	scenario := `
end_time: 4
log_level: error
tasks:
  - {id: long, priority: 1, arrival_time: 0, duration: 6}
  - {id: next, priority: 2, arrival_time: 1}
  - {id: late, priority: 2, arrival_time: 9}
`
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o644))

	out, _, err := execute(t, "simulate", "--file", path, "--idle-marker", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "Timeline: [long, long, long, long]")
	assert.Contains(t, out, "Pending:  long, next")
	assert.Contains(t, out, "Dropped:  late")
}

func TestSimulateCommand_Duplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	scenario := `
end_time: 4
log_level: disabled
tasks:
  - {id: A, priority: 1}
  - {id: A, priority: 2}
`
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o644))

	_, _, err := execute(t, "simulate", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task id already in queue")
}

func TestSimulateCommand_FlagsDoNotLeak(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idle.yaml")
	scenario := `
end_time: 2
log_level: disabled
tasks:
  - {id: A, priority: 1, arrival_time: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o644))

	out, _, err := execute(t, "simulate", "--file", path, "--idle-marker", "-", "--end-time", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Timeline: [-, A, -]")

	out, _, err = execute(t, "simulate", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Timeline: [IDLE, A]")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "heapsched dev\n", out)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger(nil, "nonsense", false)
	assert.Error(t, err)

	var buf bytes.Buffer
	logger, err := newLogger(&buf, "error", true)
	require.NoError(t, err)
	logger.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
