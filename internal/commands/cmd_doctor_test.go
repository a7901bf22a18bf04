package commands

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorCmd_Text(t *testing.T) {
	tc := newTestCLI(t)
	tc.mustRun(t, "add", "buy milk")

	out := tc.mustRun(t, "doctor")
	assert.Contains(t, out, "Configuration")
	assert.Contains(t, out, "Task File")
	assert.Contains(t, out, "0 failed")
}

func TestDoctorCmd_JSON(t *testing.T) {
	tc := newTestCLI(t)
	tc.mustRun(t, "add", "buy milk")

	out := tc.mustRun(t, "doctor", "--format", "json")

	var report struct {
		Healthy bool `json:"healthy"`
		Summary struct {
			Failed int `json:"failed"`
		} `json:"summary"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Healthy)
	assert.Len(t, report.Checks, 2)
}

func TestDoctorCmd_FailureReturnsError(t *testing.T) {
	tc := newTestCLI(t)
	require.NoError(t, os.WriteFile(tc.app.Tasks.Path(), []byte(`[{"id": 1}]`), 0o644))

	out, err := tc.run("doctor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 failed")
	assert.Contains(t, out, "decode")
}

func TestDoctorCmd_Autofix(t *testing.T) {
	tc := newTestCLI(t)
	legacy := `[{"id":"0","description":"old","status":"in-progess","createdAt":"2023/01/01 00:00:00","updatedAt":"2023/01/01 00:00:00"}]`
	require.NoError(t, os.WriteFile(tc.app.Tasks.Path(), []byte(legacy), 0o644))

	out := tc.mustRun(t, "doctor")
	assert.Contains(t, out, "--autofix")

	out = tc.mustRun(t, "doctor", "--autofix")
	assert.Contains(t, out, "0 warnings")

	data, err := os.ReadFile(tc.app.Tasks.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"in-progress"`)
}

func TestDoctorCmd_BadFormat(t *testing.T) {
	tc := newTestCLI(t)

	_, err := tc.run("doctor", "--format", "xml")
	require.Error(t, err)
}
