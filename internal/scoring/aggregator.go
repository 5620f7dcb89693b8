package scoring

import "github.com/wonny/equityrank/internal/contracts"

// NeutralScore is the composite score of a company with no scorable metric
const NeutralScore = 50.0

// Contribution is one metric that took part in a composite score
type Contribution struct {
	Metric       contracts.Metric
	Raw          float64
	Normalized   float64
	Weight       float64
	HigherBetter bool
}

// Result is the composite score of one company under one profile
type Result struct {
	Score         float64 // 0 ~ 100
	AppliedWeight float64
	Contributions []Contribution // profile order
}

// Aggregate computes the weighted composite score of company.
// Missing metrics are skipped and do not consume weight.
func Aggregate(company *contracts.MetricSet, profile *contracts.ProfileConfig, peers Peers) Result {
	res := Result{Contributions: make([]Contribution, 0, profile.Len())}

	weightedSum := 0.0
	for _, e := range profile.Entries() {
		v := company.Value(e.Metric)
		if contracts.IsMissing(v) {
			continue
		}

		n := Normalize(v, peers[e.Metric], e.HigherBetter)
		weightedSum += n * e.Weight
		res.AppliedWeight += e.Weight

		res.Contributions = append(res.Contributions, Contribution{
			Metric:       e.Metric,
			Raw:          *v,
			Normalized:   n,
			Weight:       e.Weight,
			HigherBetter: e.HigherBetter,
		})
	}

	if res.AppliedWeight > 0 {
		res.Score = clamp(weightedSum/res.AppliedWeight*100, 0, 100)
	} else {
		res.Score = NeutralScore
	}

	return res
}
