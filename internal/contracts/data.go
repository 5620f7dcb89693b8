package contracts

import "time"

// DataQualitySnapshot describes metric coverage over a peer universe
// ⭐ SSOT: 데이터 품질 정보 전달
type DataQualitySnapshot struct {
	Date           time.Time          `json:"date"`
	TotalCompanies int                `json:"total_companies"`
	Coverage       map[Metric]float64 `json:"coverage"`      // non-null share per metric
	QualityScore   float64            `json:"quality_score"` // 0.0 ~ 1.0
}

// CoverageOf returns the coverage for m (0 when never measured)
func (d *DataQualitySnapshot) CoverageOf(m Metric) float64 {
	return d.Coverage[m]
}

// IsValid checks if the snapshot meets minimum requirements
func (d *DataQualitySnapshot) IsValid() bool {
	return d.QualityScore >= 0.5 && d.TotalCompanies > 0
}
