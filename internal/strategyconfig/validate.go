package strategyconfig

import (
	"errors"
	"fmt"
	"math"

	"github.com/wonny/equityrank/internal/contracts"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Profiles ===
	for _, t := range cfg.Profiles.tables() {
		if err := validateTable(t.field, t.specs); err != nil {
			return err
		}
	}

	// === Risk ===
	if err := validateAdjustment("risk.conservative", cfg.Risk.Conservative); err != nil {
		return err
	}
	if err := validateAdjustment("risk.aggressive", cfg.Risk.Aggressive); err != nil {
		return err
	}

	// === Insights ===
	in := cfg.Insights
	if in.CautionMax < 0 || in.StrengthMin > 1 {
		return ValidationError{"insights", "thresholds must be in range [0, 1]"}
	}
	if in.CautionMax >= in.StrengthMin {
		return ValidationError{"insights", fmt.Sprintf("caution_max=%.2f must be < strength_min=%.2f", in.CautionMax, in.StrengthMin)}
	}
	if in.MaxStrengths < 0 {
		return ValidationError{"insights.max_strengths", "must be >= 0"}
	}
	if in.MaxCautions < 0 {
		return ValidationError{"insights.max_cautions", "must be >= 0"}
	}
	if in.IntrinsicStrengthBelow <= 0 || in.IntrinsicStrengthBelow >= in.IntrinsicCautionAbove {
		return ValidationError{"insights", "must satisfy 0 < intrinsic_strength_below < intrinsic_caution_above"}
	}

	return nil
}

// ValidateTable checks one weight table: known unique metrics, non-negative weights, positive sum
func ValidateTable(field string, specs []WeightSpec) error {
	return validateTable(field, specs)
}

func validateTable(field string, specs []WeightSpec) error {
	if len(specs) == 0 {
		return ValidationError{field, "must not be empty"}
	}

	seen := make(map[string]bool, len(specs))
	weights := make([]float64, 0, len(specs))
	for i, s := range specs {
		itemField := fmt.Sprintf("%s[%d]", field, i)
		m, ok := contracts.ParseMetric(s.Metric)
		if !ok || string(m) != s.Metric {
			return ValidationError{itemField + ".metric", fmt.Sprintf("unknown metric %q", s.Metric)}
		}
		if seen[s.Metric] {
			return ValidationError{itemField + ".metric", fmt.Sprintf("duplicate metric %q", s.Metric)}
		}
		seen[s.Metric] = true

		if math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) || s.Weight < 0 {
			return ValidationError{itemField + ".weight", "must be a finite number >= 0"}
		}
		weights = append(weights, s.Weight)
	}

	if err := validatePositiveSum(weights); err != nil {
		return ValidationError{field, err.Error()}
	}
	return nil
}

func validateAdjustment(field string, adj RiskAdjustment) error {
	if !(adj.Leverage > 0) || math.IsInf(adj.Leverage, 0) {
		return ValidationError{field + ".leverage", "must be > 0"}
	}
	if !(adj.Growth > 0) || math.IsInf(adj.Growth, 0) {
		return ValidationError{field + ".growth", "must be > 0"}
	}
	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	for _, t := range cfg.Profiles.tables() {
		sum := 0.0
		hasLowerBetter := false
		for _, s := range t.specs {
			sum += s.Weight
			if !s.HigherBetter {
				hasLowerBetter = true
			}
		}

		if len(t.specs) > 0 && math.Abs(sum-1.0) > 1e-6 {
			warnings = append(warnings, Warning{
				Code:    "TABLE_NOT_UNIT",
				Message: fmt.Sprintf("%s sums to %.4f; weights are renormalized to 1.0", t.field, sum),
			})
		}
		if len(t.specs) > 0 && !hasLowerBetter {
			warnings = append(warnings, Warning{
				Code:    "NO_LOWER_BETTER",
				Message: fmt.Sprintf("%s has no lower-is-better metric", t.field),
			})
		}
	}

	if cfg.Insights.MaxStrengths == 0 && cfg.Insights.MaxCautions == 0 {
		warnings = append(warnings, Warning{
			Code:    "NO_INSIGHTS",
			Message: "max_strengths and max_cautions are both 0: rankings carry no annotations",
		})
	}

	return warnings
}

// === Helper Functions ===

func validatePositiveSum(weights []float64) error {
	if len(weights) == 0 {
		return errors.New("must not be empty")
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if !(sum > 0) {
		return fmt.Errorf("weights must sum to > 0, got %.4f", sum)
	}
	return nil
}
