package contracts

// Category classifies an insight
type Category string

const (
	CategoryStrength Category = "strength"
	CategoryCaution  Category = "caution"
	CategoryNeutral  Category = "neutral"
)

// Insight is a human-readable annotation on one scored metric
type Insight struct {
	Metric     Metric   `json:"metric"`
	Value      float64  `json:"value"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Importance float64  `json:"importance"` // metric weight in the profile
}

// RankedCompany is one row of a ranking result
// ⭐ SSOT: 랭킹 결과 전달
type RankedCompany struct {
	Rank          int       `json:"rank"` // 1-based
	Ticker        string    `json:"ticker"`
	Name          string    `json:"name"`
	Score         float64   `json:"score"` // 0 ~ 100
	Sector        string    `json:"sector"`
	MarketCap     *float64  `json:"market_cap"`
	CurrentPrice  *float64  `json:"current_price"`
	PERatio       *float64  `json:"pe_ratio"`
	DividendYield *float64  `json:"dividend_yield"`
	Strengths     []Insight `json:"strengths"`
	Cautions      []Insight `json:"cautions"`
	Metrics       MetricSet `json:"metrics"`
}

// IsTopRanked checks if the company is in the top n ranks
func (r *RankedCompany) IsTopRanked(n int) bool {
	return r.Rank <= n && r.Rank > 0
}
