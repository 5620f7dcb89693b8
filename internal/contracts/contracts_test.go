package contracts

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGoal(t *testing.T) {
	tests := []struct {
		input  string
		want   Goal
		wantOK bool
	}{
		{"growth", GoalGrowth, true},
		{"VALUE", GoalValue, true},
		{" income ", GoalIncome, true},
		{"balanced", GoalBalanced, true},
		{"speculation", GoalBalanced, false},
		{"", GoalBalanced, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseGoal(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseRisk(t *testing.T) {
	tests := []struct {
		input   string
		want    Risk
		wantErr bool
	}{
		{"conservative", RiskConservative, false},
		{"Aggressive", RiskAggressive, false},
		{"moderate", RiskModerate, false},
		{"", RiskModerate, false},
		{"yolo", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRisk(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownRisk))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMetric(t *testing.T) {
	m, ok := ParseMetric("PE_Ratio")
	assert.True(t, ok)
	assert.Equal(t, MetricPERatio, m)

	_, ok = ParseMetric("dividend_yeild")
	assert.False(t, ok)
}

func TestMetricSet_ValueAndSet(t *testing.T) {
	var s MetricSet

	for _, m := range AllMetrics() {
		assert.Nil(t, s.Value(m), "metric %s should start missing", m)
		require.True(t, s.Set(m, Float(1.5)), "metric %s should be settable", m)
		require.NotNil(t, s.Value(m))
		assert.Equal(t, 1.5, *s.Value(m))
	}

	assert.False(t, s.Set(Metric("ebitda"), Float(1)))
	assert.Nil(t, s.Value(Metric("ebitda")))
}

func TestMetricSet_JSONKeepsNullFields(t *testing.T) {
	s := MetricSet{Ticker: "AAPL", PERatio: Float(28.5)}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"pe_ratio":28.5`)
	for _, m := range AllMetrics() {
		assert.True(t, strings.Contains(body, `"`+string(m)+`":`), "key %s must be present", m)
	}
	assert.Contains(t, body, `"dividend_yield":null`)
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(Float(math.NaN())))
	assert.True(t, IsMissing(Float(math.Inf(1))))
	assert.False(t, IsMissing(Float(0)))
}

func TestProfileConfig_IsImmutable(t *testing.T) {
	entries := []WeightEntry{
		{Metric: MetricPERatio, Weight: 0.6, HigherBetter: false},
		{Metric: MetricDividendYield, Weight: 0.4, HigherBetter: true},
	}
	p := NewProfileConfig(GoalValue, RiskModerate, entries)

	entries[0].Weight = 99
	got := p.Entries()
	got[1].Weight = 42

	e, ok := p.Lookup(MetricPERatio)
	require.True(t, ok)
	assert.Equal(t, 0.6, e.Weight)
	e, _ = p.Lookup(MetricDividendYield)
	assert.Equal(t, 0.4, e.Weight)
	assert.InDelta(t, 1.0, p.Sum(), 1e-12)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, GoalValue, p.Goal())
	assert.Equal(t, RiskModerate, p.Risk())

	_, ok = p.Lookup(MetricMarketCap)
	assert.False(t, ok)
}

func TestRankedCompany_IsTopRanked(t *testing.T) {
	r := RankedCompany{Rank: 3}
	assert.True(t, r.IsTopRanked(3))
	assert.False(t, r.IsTopRanked(2))
	assert.False(t, (&RankedCompany{}).IsTopRanked(5))
}

func TestDataQualitySnapshot(t *testing.T) {
	d := DataQualitySnapshot{
		TotalCompanies: 4,
		Coverage:       map[Metric]float64{MetricPERatio: 0.75},
		QualityScore:   0.6,
	}
	assert.Equal(t, 0.75, d.CoverageOf(MetricPERatio))
	assert.Equal(t, 0.0, d.CoverageOf(MetricFairValue))
	assert.True(t, d.IsValid())
}

func TestMetricSet_Clone(t *testing.T) {
	s := MetricSet{Ticker: "MSFT", Sector: "Technology", PERatio: Float(31), DividendYield: Float(0.008), FairValue: Float(math.NaN())}

	c := s.Clone()
	*s.PERatio = 99

	require.NotNil(t, c.PERatio)
	assert.Equal(t, 31.0, *c.PERatio)
	assert.Equal(t, 0.008, *c.DividendYield)
	assert.Nil(t, c.MarketCap)
	assert.Nil(t, c.FairValue)
	assert.Equal(t, "MSFT", c.Ticker)

	_, err := json.Marshal(c)
	assert.NoError(t, err)
}
