package quality

import (
	"time"

	"github.com/wonny/equityrank/internal/contracts"
)

// QualityGate measures metric coverage over a peer universe
type QualityGate struct {
	config Config
}

// Config holds quality gate thresholds
type Config struct {
	MinQualityScore float64 `yaml:"min_quality_score"` // 0.5
	MinCoverage     float64 `yaml:"min_coverage"`      // per scored metric, 0.3
}

// DefaultConfig returns the default thresholds
func DefaultConfig() Config {
	return Config{
		MinQualityScore: 0.5,
		MinCoverage:     0.3,
	}
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(config Config) *QualityGate {
	return &QualityGate{config: config}
}

// Report is a snapshot plus the metrics that fell under MinCoverage
type Report struct {
	Snapshot    *contracts.DataQualitySnapshot `json:"snapshot"`
	LowCoverage []contracts.Metric             `json:"low_coverage"`
	Passed      bool                           `json:"passed"`
}

// Check measures coverage of metrics over companies.
// An empty metrics list measures every contract metric.
// ⭐ SSOT: 지표 커버리지 검증
func (g *QualityGate) Check(companies []contracts.MetricSet, metrics []contracts.Metric) *Report {
	snapshot := Check(companies, metrics)

	report := &Report{
		Snapshot:    snapshot,
		LowCoverage: make([]contracts.Metric, 0),
	}
	for _, m := range measured(metrics) {
		if snapshot.Coverage[m] < g.config.MinCoverage {
			report.LowCoverage = append(report.LowCoverage, m)
		}
	}
	report.Passed = snapshot.TotalCompanies > 0 && snapshot.QualityScore >= g.config.MinQualityScore

	return report
}

// Check returns the non-missing share of each metric and their mean as QualityScore
func Check(companies []contracts.MetricSet, metrics []contracts.Metric) *contracts.DataQualitySnapshot {
	metrics = measured(metrics)
	snapshot := &contracts.DataQualitySnapshot{
		Date:           time.Now().UTC().Truncate(24 * time.Hour),
		TotalCompanies: len(companies),
		Coverage:       make(map[contracts.Metric]float64, len(metrics)),
	}

	if len(companies) == 0 || len(metrics) == 0 {
		for _, m := range metrics {
			snapshot.Coverage[m] = 0
		}
		return snapshot
	}

	total := 0.0
	for _, m := range metrics {
		present := 0
		for i := range companies {
			if !contracts.IsMissing(companies[i].Value(m)) {
				present++
			}
		}
		cov := float64(present) / float64(len(companies))
		snapshot.Coverage[m] = cov
		total += cov
	}
	snapshot.QualityScore = total / float64(len(metrics))

	return snapshot
}

func measured(metrics []contracts.Metric) []contracts.Metric {
	if len(metrics) == 0 {
		return contracts.AllMetrics()
	}
	return metrics
}
