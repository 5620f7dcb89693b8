package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/equityrank/internal/contracts"
)

const companiesJSON = `[
	{"ticker": "AAA", "name": "Alpha", "sector": "Technology", "pe_ratio": 10, "debt_to_equity": 0.5, "return_on_equity": 0.25, "dividend_yield": 0.04},
	{"ticker": "BBB", "name": "Beta", "sector": "Technology", "pe_ratio": 20, "debt_to_equity": "N/A", "return_on_equity": 0.15, "dividend_yield": 0.02},
	{"ticker": "CCC", "name": "Gamma", "sector": "Energy", "pe_ratio": 30, "debt_to_equity": 2.0, "return_on_equity": 0.05, "dividend_yield": 0}
]`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENV", "development")
	t.Setenv("LOG_LEVEL", "error")

	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags clears values left by a previous Execute
func resetFlags() {
	rankGoal, rankRisk, rankSector = "balanced", "moderate", "all"
	rankLimit, rankJSON = 0, false
	rankSources = sourceFlags{workers: 4}
	profileRisk = "moderate"
	dataCheckSector, dataCheckSave = "", false
	dataCheckSources = sourceFlags{workers: 4}
}

func writeCompanies(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.json")
	require.NoError(t, os.WriteFile(path, []byte(companiesJSON), 0o600))
	return path
}

func TestRankCommand_JSON(t *testing.T) {
	out, err := execute(t, "rank", "--goal", "value", "--risk", "moderate", "--input", writeCompanies(t), "--json", "--limit", "2")
	require.NoError(t, err)

	var ranked []contracts.RankedCompany
	require.NoError(t, json.Unmarshal([]byte(out[strings.Index(out, "["):]), &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "AAA", ranked[0].Ticker)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
}

func TestRankCommand_Table(t *testing.T) {
	out, err := execute(t, "rank", "--goal", "value", "--sector", "energy", "--input", writeCompanies(t))
	require.NoError(t, err)

	assert.Contains(t, out, "sector=energy")
	assert.Contains(t, out, "CCC")
	assert.NotContains(t, out, "AAA")
	assert.Contains(t, out, "data issues")
}

func TestRankCommand_Errors(t *testing.T) {
	_, err := execute(t, "rank", "--risk", "yolo", "--input", writeCompanies(t))
	assert.Error(t, err)

	_, err = execute(t, "rank", "--goal", "growth")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input")
}

func TestProfileCommand(t *testing.T) {
	out, err := execute(t, "profile", "income", "--risk", "conservative")
	require.NoError(t, err)

	assert.Contains(t, out, "Profile: income / conservative")
	assert.Contains(t, out, "dividend_yield")
	assert.NotContains(t, out, "Profile: growth")
}

func TestDataCheckCommand(t *testing.T) {
	out, err := execute(t, "data-check", "--input", writeCompanies(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Data Check")
	assert.Contains(t, out, "BBB.debt_to_equity")
	assert.Contains(t, out, "fair_value")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "-", formatOptional(nil))
	assert.Equal(t, "12.5", formatOptional(contracts.Float(12.5)))
	assert.Equal(t, "41.7%", formatPercent(0.41666))
	assert.Equal(t, "Semicond…", truncate("Semiconductors", 9))
	assert.Equal(t, "Energy", truncate("Energy", 9))

	var buf bytes.Buffer
	PrintTableHeader(&buf, []string{"A", "B"}, []int{3, 2})
	assert.Equal(t, "A    B \n"+strings.Repeat("─", 7)+"\n", buf.String())
}
