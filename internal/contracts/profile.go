package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Goal is the investor objective selecting the base weight table
type Goal string

const (
	GoalGrowth   Goal = "growth"
	GoalValue    Goal = "value"
	GoalIncome   Goal = "income"
	GoalBalanced Goal = "balanced"
)

// Goals returns every supported goal
func Goals() []Goal {
	return []Goal{GoalGrowth, GoalValue, GoalIncome, GoalBalanced}
}

// ParseGoal resolves a goal name (case-insensitive).
// Unrecognized names fall back to GoalBalanced with ok=false.
func ParseGoal(s string) (goal Goal, ok bool) {
	switch g := Goal(strings.ToLower(strings.TrimSpace(s))); g {
	case GoalGrowth, GoalValue, GoalIncome, GoalBalanced:
		return g, true
	default:
		return GoalBalanced, false
	}
}

// Risk is the investor's risk tolerance
type Risk string

const (
	RiskConservative Risk = "conservative"
	RiskModerate     Risk = "moderate"
	RiskAggressive   Risk = "aggressive"
)

// Risks returns every supported risk tolerance
func Risks() []Risk {
	return []Risk{RiskConservative, RiskModerate, RiskAggressive}
}

// ErrUnknownRisk is returned by ParseRisk for an unrecognized name
var ErrUnknownRisk = errors.New("unknown risk tolerance")

// ParseRisk resolves a risk name (case-insensitive). Empty means moderate.
func ParseRisk(s string) (Risk, error) {
	r := Risk(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case "":
		return RiskModerate, nil
	case RiskConservative, RiskModerate, RiskAggressive:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRisk, s)
	}
}

// WeightEntry is one row of a profile weight table
type WeightEntry struct {
	Metric       Metric  `json:"metric"`
	Weight       float64 `json:"weight"`
	HigherBetter bool    `json:"higher_better"`
}

// ProfileConfig is the risk-adjusted, renormalized weight table for one (goal, risk) pair.
// Entries keep table order so every iteration over them is deterministic.
type ProfileConfig struct {
	goal    Goal
	risk    Risk
	entries []WeightEntry
}

// NewProfileConfig copies entries into a new ProfileConfig
func NewProfileConfig(goal Goal, risk Risk, entries []WeightEntry) *ProfileConfig {
	cp := make([]WeightEntry, len(entries))
	copy(cp, entries)
	return &ProfileConfig{goal: goal, risk: risk, entries: cp}
}

// Goal returns the goal the table was built for
func (p *ProfileConfig) Goal() Goal { return p.goal }

// Risk returns the risk tolerance the table was built for
func (p *ProfileConfig) Risk() Risk { return p.risk }

// Entries returns a copy of the weight table in table order
func (p *ProfileConfig) Entries() []WeightEntry {
	out := make([]WeightEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Lookup returns the entry for m
func (p *ProfileConfig) Lookup(m Metric) (WeightEntry, bool) {
	for _, e := range p.entries {
		if e.Metric == m {
			return e, true
		}
	}
	return WeightEntry{}, false
}

// Sum returns the total weight
func (p *ProfileConfig) Sum() float64 {
	sum := 0.0
	for _, e := range p.entries {
		sum += e.Weight
	}
	return sum
}

// Len returns the number of metrics in the table
func (p *ProfileConfig) Len() int {
	return len(p.entries)
}
