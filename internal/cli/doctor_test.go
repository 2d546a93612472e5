package cli

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pollboard/internal/doctor"
	"github.com/rileyhilliard/pollboard/internal/errors"
)

type stubCheck struct {
	name     string
	category string
	result   doctor.CheckResult
}

func (s *stubCheck) Name() string            { return s.name }
func (s *stubCheck) Category() string        { return s.category }
func (s *stubCheck) Run() doctor.CheckResult { return s.result }

func TestBuildDoctorOutput(t *testing.T) {
	checks := []doctor.Check{
		&stubCheck{name: "a", category: "CONFIG"},
		&stubCheck{name: "b", category: "SOURCE"},
		&stubCheck{name: "c", category: "CONFIG"},
	}
	results := []doctor.CheckResult{
		{Name: "a", Status: doctor.StatusPass},
		{Name: "b", Status: doctor.StatusWarn},
		{Name: "c", Status: doctor.StatusPass},
	}

	out := buildDoctorOutput(checks, results)
	require.Len(t, out.Categories, 2)
	assert.Equal(t, "CONFIG", out.Categories[0].Name)
	assert.Len(t, out.Categories[0].Results, 2)
	assert.Equal(t, "SOURCE", out.Categories[1].Name)
	assert.Equal(t, SummaryOutput{
		Pass:    2,
		Warn:    1,
		Message: "1 issue found; the dashboard will still run",
	}, out.Summary)
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"✗ Invalid interval\n\n  cause\n\n  hint", "Invalid interval"},
		{"  padded  ", "padded"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, firstLine(tt.in))
		})
	}
}

func TestDoctorCommand_AllPass(t *testing.T) {
	srv := rowsServer(t, http.StatusOK, `[{"id":1}]`)
	withConfig(t, "version: 1\nsource:\n  url: "+srv.URL+"\nserver:\n  listen: 127.0.0.1:0\n")

	var buf bytes.Buffer
	require.NoError(t, doctorCommand(&buf, false))

	out := buf.String()
	assert.Contains(t, out, "pollboard diagnostic report")
	assert.Contains(t, out, "Ready to serve")
}

func TestDoctorCommand_EndpointFailsJSON(t *testing.T) {
	srv := rowsServer(t, http.StatusUnauthorized, `nope`)
	withConfig(t, "version: 1\nsource:\n  url: "+srv.URL+"\nserver:\n  listen: 127.0.0.1:0\n")

	var buf bytes.Buffer
	err := doctorCommand(&buf, true)
	code, ok := errors.GetExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)

	var env struct {
		Success bool         `json:"success"`
		Data    DoctorOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success, "the report itself succeeded")
	assert.Equal(t, 1, env.Data.Summary.Fail)
	assert.False(t, env.Data.Summary.AllClear)
	assert.Equal(t, "http-status", env.Data.Summary.FetchKind)
	assert.Contains(t, env.Data.Summary.Message, "would open with no data")

	var names []string
	for _, cat := range env.Data.Categories {
		names = append(names, cat.Name)
	}
	assert.Equal(t, []string{"CONFIG", "SOURCE", "SERVER"}, names)
}
