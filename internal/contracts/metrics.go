package contracts

import (
	"math"
	"strings"
)

// Metric names a numeric field of a MetricSet
type Metric string

const (
	MetricMarketCap         Metric = "market_cap"
	MetricCurrentPrice      Metric = "current_price"
	MetricPERatio           Metric = "pe_ratio"
	MetricReturnOnEquity    Metric = "return_on_equity"
	MetricDividendYield     Metric = "dividend_yield"
	MetricPayoutRatio       Metric = "payout_ratio"
	MetricDebtToEquity      Metric = "debt_to_equity"
	MetricRevenueGrowth     Metric = "revenue_growth"
	MetricEarningsGrowth    Metric = "earnings_growth"
	MetricReturnOnAssets    Metric = "return_on_assets"
	MetricFreeCashFlowYield Metric = "free_cash_flow_yield"
	MetricFairValue         Metric = "fair_value"
	MetricPriceToIntrinsic  Metric = "price_to_intrinsic"
)

var allMetrics = []Metric{
	MetricMarketCap,
	MetricCurrentPrice,
	MetricPERatio,
	MetricReturnOnEquity,
	MetricDividendYield,
	MetricPayoutRatio,
	MetricDebtToEquity,
	MetricRevenueGrowth,
	MetricEarningsGrowth,
	MetricReturnOnAssets,
	MetricFreeCashFlowYield,
	MetricFairValue,
	MetricPriceToIntrinsic,
}

// AllMetrics returns every numeric field in contract order
func AllMetrics() []Metric {
	out := make([]Metric, len(allMetrics))
	copy(out, allMetrics)
	return out
}

// ParseMetric resolves a metric name (case-insensitive)
func ParseMetric(s string) (Metric, bool) {
	name := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range allMetrics {
		if m == name {
			return m, true
		}
	}
	return "", false
}

// MetricSet is one company's fundamentals as supplied by the metrics collaborator.
// Missing values are nil and serialize as JSON null, never as an omitted key.
type MetricSet struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Sector string `json:"sector"`

	MarketCap         *float64 `json:"market_cap"`
	CurrentPrice      *float64 `json:"current_price"`
	PERatio           *float64 `json:"pe_ratio"`
	ReturnOnEquity    *float64 `json:"return_on_equity"`
	DividendYield     *float64 `json:"dividend_yield"`
	PayoutRatio       *float64 `json:"payout_ratio"`
	DebtToEquity      *float64 `json:"debt_to_equity"`
	RevenueGrowth     *float64 `json:"revenue_growth"`
	EarningsGrowth    *float64 `json:"earnings_growth"`
	ReturnOnAssets    *float64 `json:"return_on_assets"`
	FreeCashFlowYield *float64 `json:"free_cash_flow_yield"`
	FairValue         *float64 `json:"fair_value"`
	PriceToIntrinsic  *float64 `json:"price_to_intrinsic"`
}

// field returns the address of the pointer backing metric m
func (s *MetricSet) field(m Metric) **float64 {
	switch m {
	case MetricMarketCap:
		return &s.MarketCap
	case MetricCurrentPrice:
		return &s.CurrentPrice
	case MetricPERatio:
		return &s.PERatio
	case MetricReturnOnEquity:
		return &s.ReturnOnEquity
	case MetricDividendYield:
		return &s.DividendYield
	case MetricPayoutRatio:
		return &s.PayoutRatio
	case MetricDebtToEquity:
		return &s.DebtToEquity
	case MetricRevenueGrowth:
		return &s.RevenueGrowth
	case MetricEarningsGrowth:
		return &s.EarningsGrowth
	case MetricReturnOnAssets:
		return &s.ReturnOnAssets
	case MetricFreeCashFlowYield:
		return &s.FreeCashFlowYield
	case MetricFairValue:
		return &s.FairValue
	case MetricPriceToIntrinsic:
		return &s.PriceToIntrinsic
	default:
		return nil
	}
}

// Value returns the raw value of m, or nil when missing or unknown
func (s *MetricSet) Value(m Metric) *float64 {
	f := s.field(m)
	if f == nil {
		return nil
	}
	return *f
}

// Set stores v under m. Returns false for an unknown metric.
func (s *MetricSet) Set(m Metric, v *float64) bool {
	f := s.field(m)
	if f == nil {
		return false
	}
	*f = v
	return true
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// IsMissing reports whether v carries no usable number (nil, NaN or ±Inf)
func IsMissing(v *float64) bool {
	return v == nil || math.IsNaN(*v) || math.IsInf(*v, 0)
}

// Clone returns a copy that shares no pointers with s.
// NaN and ±Inf become nil so the copy is always JSON-encodable.
func (s MetricSet) Clone() MetricSet {
	out := MetricSet{Ticker: s.Ticker, Name: s.Name, Sector: s.Sector}
	for _, m := range allMetrics {
		if v := s.Value(m); !IsMissing(v) {
			out.Set(m, Float(*v))
		}
	}
	return out
}
