package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/basket/internal/common"
)

const groceries = `milk,bread,nuts,apple
milk,bread,nuts
milk,bread
milk,bread,apple
bread,apple
`

// execute runs the CLI with a fresh viper instance and HOME.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "groceries.csv")
	require.NoError(t, os.WriteFile(path, []byte(groceries), 0600))
	return path
}

func TestMineCommand(t *testing.T) {
	input := writeInput(t)
	outDir := filepath.Join(t.TempDir(), "reports")

	out, err := execute(t, "mine", "3", "0.7", input, "-o", outDir, "--suffix", "01", "--no-history")
	require.NoError(t, err)
	assert.Contains(t, out, "Mining complete")

	rules, err := os.ReadFile(filepath.Join(outDir, "rules01.txt"))
	require.NoError(t, err)
	assert.Equal(t, `apple|bread|3|0.600|1.000|1.000
bread|milk|4|0.800|0.800|1.000
milk|bread|4|0.800|1.000|1.000
`, string(rules))

	_, err = os.Stat(filepath.Join(outDir, "info01.txt"))
	assert.NoError(t, err)
}

func TestMineCommandJSONAndPrecision(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()

	_, err := execute(t, "mine", "3", "0.5", input, "-o", outDir, "--report-format", "json", "--precision", "1", "--join", "apriori-gen", "--no-history")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "rules.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"confidence": 0.6`)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err         error
		name        string
		want        int
		interrupted bool
	}{
		{name: "success", want: 0},
		{name: "success after interrupt", interrupted: true, want: 0},
		{name: "bad parameter", err: common.NewInvalidParameterError("min_support", 0, "must be positive"), want: 2},
		{name: "bad report format", err: common.NewUserError("Invalid configuration",
			common.WrapInvalidParameterError("output.format", "xml", "must be txt, json or yaml", common.ErrInvalidConfig)), want: 2},
		{name: "storage failure", err: fmt.Errorf("run 3: %w", common.ErrNotFound), want: 1},
		{name: "interrupted", err: fmt.Errorf("mining failed: %w", context.Canceled), interrupted: true, want: 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err, tt.interrupted))
		})
	}
}

func TestMineCommandErrors(t *testing.T) {
	input := writeInput(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "zero support", args: []string{"mine", "0", "0.7", input, "--no-history"}},
		{name: "confidence above one", args: []string{"mine", "2", "1.5", input, "--no-history"}},
		{name: "non-numeric support", args: []string{"mine", "two", "0.7", input, "--no-history"}},
		{name: "unknown join", args: []string{"mine", "2", "0.7", input, "--join", "zip", "--no-history"}},
		{name: "unknown input format", args: []string{"mine", "2", "0.7", input, "--format", "xlsx", "--no-history"}},
		{name: "unknown report format", args: []string{"mine", "2", "0.7", input, "--report-format", "xml", "--no-history"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, common.IsInputError(err), "%v", err)
		})
	}

	_, err := execute(t, "mine", "2", "0.7", filepath.Join(t.TempDir(), "missing.txt"), "--no-history")
	assert.Error(t, err)

	_, err = execute(t, "mine", "2", "0.7")
	assert.Error(t, err, "three arguments are required")
}

func TestMineThenHistory(t *testing.T) {
	input := writeInput(t)
	db := filepath.Join(t.TempDir(), "runs.db")
	outDir := t.TempDir()

	_, err := execute(t, "mine", "3", "0.7", input, "-o", outDir, "--db", db)
	require.NoError(t, err)
	_, err = execute(t, "mine", "2", "0.7", input, "-o", outDir, "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "groceries.csv")

	out, err = execute(t, "history", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Run 1")
	assert.Contains(t, out, "Min support: 3")

	_, err = execute(t, "history", "99", "--db", db)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = execute(t, "history", "--no-history")
	assert.Error(t, err)
}

func TestSweepCommand(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()

	out, err := execute(t, "sweep", input, "--supports", "2,3,4", "--min-confidence", "0.6", "--reports", "-o", outDir, "--no-history")
	require.NoError(t, err)
	assert.Contains(t, out, "Itemset secs")

	for _, name := range []string{"items01.txt", "items02.txt", "items03.txt"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	_, err = execute(t, "sweep", input, "--no-history")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "basket dev\n", out)
}
