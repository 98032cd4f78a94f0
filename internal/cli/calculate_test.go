package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/footprint/internal/cli"
	"github.com/rshade/footprint/internal/config"
)

const privateVehicle = `{"category": "Mobility", "type": "multiple_choice", "topic": "transport_mode", "selectedOption": "Private vehicle"}`

// setupCLITest isolates config discovery and registers cleanup for global state.
func setupCLITest(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "error")
	t.Cleanup(config.ResetGlobalConfigForTest)
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type resultJSON struct {
	Results []struct {
		Category   string  `json:"category"`
		Emissions  float64 `json:"emissions"`
		Difference float64 `json:"difference"`
		Percentage float64 `json:"percentage"`
	} `json:"results"`
	TotalEmissions float64 `json:"total_emissions"`
	TotalAverage   float64 `json:"total_average"`
}

func TestCalculate_SingleAnswerSet(t *testing.T) {
	setupCLITest(t)

	path := writeFile(t, "answers.json", `{"answers": [`+privateVehicle+`]}`)
	out, err := execute(t, "", "calculate", "--input", path, "--output", "json")
	require.NoError(t, err, out)

	var got resultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Results, 4)

	assert.Equal(t, "Mobility", got.Results[0].Category, "largest deviation ranks first")
	assert.InDelta(t, 912.5, got.Results[0].Emissions, 1e-9)
	assert.InDelta(t, -1587.5, got.Results[0].Difference, 1e-9)
	assert.InDelta(t, -64.0, got.Results[0].Percentage, 1e-9)
	assert.InDelta(t, 1100.0, got.TotalEmissions, 1e-9)
	assert.InDelta(t, 8000.0, got.TotalAverage, 1e-9)
}

func TestCalculate_Stdin(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "["+privateVehicle+"]", "calculate")
	require.NoError(t, err, out)

	var got resultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 1100.0, got.TotalEmissions, 1e-9)
}

func TestCalculate_Table(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "["+privateVehicle+"]", "calculate", "--output", "table")
	require.NoError(t, err, out)

	assert.Contains(t, out, "Mobility")
	assert.Contains(t, out, "Total:")
	assert.Contains(t, out, "1,100 kg")
}

func TestCalculate_Summary(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "["+privateVehicle+"]", "calculate", "--mode", "summary", "--output", "json")
	require.NoError(t, err, out)

	var got struct {
		Total        float64            `json:"total"`
		DatasetMean  float64            `json:"dataset_mean"`
		FeaturesUsed []any              `json:"features_used"`
		Percentages  map[string]float64 `json:"percentages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 1100.0, got.Total, 1e-9)
	assert.InDelta(t, 2269.15, got.DatasetMean, 1e-9)
	assert.Len(t, got.FeaturesUsed, 1)
	assert.InDelta(t, 37.0, got.Percentages["Mobility"], 1e-9, "summary mode reports share of baseline")
}

func TestCalculate_JSONLines(t *testing.T) {
	setupCLITest(t)

	lines := strings.Join([]string{
		"[" + privateVehicle + "]",
		"",
		`{"answers": []}`,
		`[{"category": "Food", "topic": "diet", "text": "Vegan"}]`,
	}, "\n")
	path := writeFile(t, "survey.jsonl", lines)

	out, err := execute(t, "", "calculate", "--input", path, "--output", "json",
		"--batch-size", "1", "--concurrency", "2")
	require.NoError(t, err, out)

	var got []struct {
		Index  int         `json:"index"`
		Result *resultJSON `json:"result"`
		Error  string      `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)

	for i, o := range got {
		assert.Equal(t, i, o.Index)
		assert.Empty(t, o.Error)
		require.NotNil(t, o.Result)
	}
	assert.InDelta(t, 1100.0, got[0].Result.TotalEmissions, 1e-9)
	assert.InDelta(t, 250.0, got[1].Result.TotalEmissions, 1e-9, "empty set is offsets only")
	assert.InDelta(t, 550.0, got[2].Result.TotalEmissions, 1e-9)
}

func TestCalculate_JSONLinesTable(t *testing.T) {
	setupCLITest(t)

	lines := "[" + privateVehicle + "]\n[]\n"
	out, err := execute(t, lines, "calculate", "--output", "table", "--mode", "summary")
	require.NoError(t, err, out)

	assert.Contains(t, out, "Respondent 1")
	assert.Contains(t, out, "Respondent 2")
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{name: "unknown mode", stdin: "[]", args: []string{"--mode", "average"}, wantErr: "unknown mode"},
		{name: "unknown format", stdin: "[]", args: []string{"--output", "xml"}, wantErr: "unsupported output format"},
		{name: "empty input", stdin: "  \n", wantErr: "no answer sets"},
		{name: "scalar document", stdin: `"answers"`, wantErr: "decoding answers"},
		{name: "bad line", stdin: "[]\n{nope\n", wantErr: "line 2"},
		{name: "missing file", args: []string{"--input", "/does/not/exist.json"}, wantErr: "reading input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			out, err := execute(t, tt.stdin, append([]string{"calculate"}, tt.args...)...)
			require.Error(t, err, out)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
