package contracts

import "context"

// MetricsRepository supplies MetricSets from storage
// ⭐ SSOT: 지표 조회 인터페이스
type MetricsRepository interface {
	// ListMetricSets returns companies in ticker order.
	// sector "" or "all" returns every company.
	ListMetricSets(ctx context.Context, sector string) ([]MetricSet, error)
}

// Ranker scores and orders companies for an investor profile
// ⭐ SSOT: 랭킹 인터페이스
type Ranker interface {
	Rank(ctx context.Context, goal Goal, risk Risk, companies []MetricSet, sector string) ([]RankedCompany, error)
}
