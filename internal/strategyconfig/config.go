package strategyconfig

import "github.com/wonny/equityrank/internal/contracts"

// Config는 프로필 가중치 테이블 전체 설정
type Config struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	Profiles Profiles `yaml:"profiles" json:"profiles"`
	Risk     Risk     `yaml:"risk" json:"risk"`
	Insights Insights `yaml:"insights" json:"insights"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Profiles holds the base weight table of every goal
type Profiles struct {
	Growth   []WeightSpec `yaml:"growth" json:"growth"`
	Value    []WeightSpec `yaml:"value" json:"value"`
	Income   []WeightSpec `yaml:"income" json:"income"`
	Balanced []WeightSpec `yaml:"balanced" json:"balanced"`
}

// WeightSpec is one row of a base table
type WeightSpec struct {
	Metric       string  `yaml:"metric" json:"metric"`
	Weight       float64 `yaml:"weight" json:"weight"`
	HigherBetter bool    `yaml:"higher_better" json:"higher_better"`
}

// Table returns the base table for goal. Unknown goals get the balanced table.
func (p Profiles) Table(goal contracts.Goal) []WeightSpec {
	switch goal {
	case contracts.GoalGrowth:
		return p.Growth
	case contracts.GoalValue:
		return p.Value
	case contracts.GoalIncome:
		return p.Income
	default:
		return p.Balanced
	}
}

// tables lists every goal table with its YAML path, for validation
func (p Profiles) tables() []namedTable {
	return []namedTable{
		{"profiles.growth", p.Growth},
		{"profiles.value", p.Value},
		{"profiles.income", p.Income},
		{"profiles.balanced", p.Balanced},
	}
}

type namedTable struct {
	field string
	specs []WeightSpec
}

// Risk holds the multipliers applied per risk tolerance
type Risk struct {
	Conservative RiskAdjustment `yaml:"conservative" json:"conservative"`
	Aggressive   RiskAdjustment `yaml:"aggressive" json:"aggressive"`
}

// RiskAdjustment multiplies debt_to_equity (Leverage) and
// revenue_growth/earnings_growth (Growth) before renormalization
type RiskAdjustment struct {
	Leverage float64 `yaml:"leverage" json:"leverage"`
	Growth   float64 `yaml:"growth" json:"growth"`
}

// NoAdjustment leaves every weight unchanged
var NoAdjustment = RiskAdjustment{Leverage: 1, Growth: 1}

// Adjustment returns the multipliers for risk. Moderate and unknown values are unadjusted.
func (r Risk) Adjustment(risk contracts.Risk) RiskAdjustment {
	switch risk {
	case contracts.RiskConservative:
		return r.Conservative
	case contracts.RiskAggressive:
		return r.Aggressive
	default:
		return NoAdjustment
	}
}

// Insights holds classification thresholds and list limits
type Insights struct {
	StrengthMin            float64 `yaml:"strength_min" json:"strength_min"` // normalized >= → strength
	CautionMax             float64 `yaml:"caution_max" json:"caution_max"`   // normalized <= → caution
	MaxStrengths           int     `yaml:"max_strengths" json:"max_strengths"`
	MaxCautions            int     `yaml:"max_cautions" json:"max_cautions"`
	IntrinsicStrengthBelow float64 `yaml:"intrinsic_strength_below" json:"intrinsic_strength_below"`
	IntrinsicCautionAbove  float64 `yaml:"intrinsic_caution_above" json:"intrinsic_caution_above"`
}

// Default returns the built-in tables
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "equity_profiles_default",
			Version:    "1.0.0",
		},
		Profiles: Profiles{
			Growth: []WeightSpec{
				{Metric: "revenue_growth", Weight: 0.30, HigherBetter: true},
				{Metric: "earnings_growth", Weight: 0.25, HigherBetter: true},
				{Metric: "return_on_equity", Weight: 0.20, HigherBetter: true},
				{Metric: "pe_ratio", Weight: 0.15, HigherBetter: false},
				{Metric: "debt_to_equity", Weight: 0.10, HigherBetter: false},
			},
			Value: []WeightSpec{
				{Metric: "pe_ratio", Weight: 0.40, HigherBetter: false},
				{Metric: "debt_to_equity", Weight: 0.20, HigherBetter: false},
				{Metric: "return_on_equity", Weight: 0.20, HigherBetter: true},
				{Metric: "dividend_yield", Weight: 0.20, HigherBetter: true},
			},
			Income: []WeightSpec{
				{Metric: "dividend_yield", Weight: 0.50, HigherBetter: true},
				{Metric: "debt_to_equity", Weight: 0.20, HigherBetter: false},
				{Metric: "pe_ratio", Weight: 0.15, HigherBetter: false},
				{Metric: "earnings_growth", Weight: 0.15, HigherBetter: true},
			},
			Balanced: []WeightSpec{
				{Metric: "return_on_equity", Weight: 0.25, HigherBetter: true},
				{Metric: "pe_ratio", Weight: 0.25, HigherBetter: false},
				{Metric: "dividend_yield", Weight: 0.25, HigherBetter: true},
				{Metric: "revenue_growth", Weight: 0.15, HigherBetter: true},
				{Metric: "debt_to_equity", Weight: 0.10, HigherBetter: false},
			},
		},
		Risk: Risk{
			Conservative: RiskAdjustment{Leverage: 1.5, Growth: 0.5},
			Aggressive:   RiskAdjustment{Leverage: 0.5, Growth: 1.5},
		},
		Insights: Insights{
			StrengthMin:            0.7,
			CautionMax:             0.3,
			MaxStrengths:           3,
			MaxCautions:            2,
			IntrinsicStrengthBelow: 0.8,
			IntrinsicCautionAbove:  1.2,
		},
	}
}
