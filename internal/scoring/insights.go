package scoring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/strategyconfig"
)

// InsightGenerator classifies scored metrics and formats their messages
// ⭐ SSOT: 인사이트 문구는 여기서만
type InsightGenerator struct {
	cfg strategyconfig.Insights
}

// NewInsightGenerator creates a generator with the given thresholds and limits
func NewInsightGenerator(cfg strategyconfig.Insights) *InsightGenerator {
	return &InsightGenerator{cfg: cfg}
}

// Generate builds the strength and caution lists for one company.
// Each list is sorted by importance (descending, stable) and truncated to its limit.
func (g *InsightGenerator) Generate(contribs []Contribution) (strengths, cautions []contracts.Insight) {
	strengths = make([]contracts.Insight, 0, len(contribs))
	cautions = make([]contracts.Insight, 0, len(contribs))

	for _, c := range contribs {
		in := g.Insight(c)
		switch in.Category {
		case contracts.CategoryStrength:
			strengths = append(strengths, in)
		case contracts.CategoryCaution:
			cautions = append(cautions, in)
		}
	}

	return topByImportance(strengths, g.cfg.MaxStrengths), topByImportance(cautions, g.cfg.MaxCautions)
}

// Insight classifies one contribution and formats its message
func (g *InsightGenerator) Insight(c Contribution) contracts.Insight {
	in := contracts.Insight{
		Metric:     c.Metric,
		Value:      c.Raw,
		Category:   g.classify(c.Normalized),
		Importance: c.Weight,
	}

	if c.Metric == contracts.MetricPriceToIntrinsic {
		in.Category, in.Message = g.intrinsic(c.Raw)
		return in
	}

	p, ok := phrasings[c.Metric]
	if !ok {
		in.Message = fmt.Sprintf("%s: %s", titleCase(string(c.Metric)), strconv.FormatFloat(c.Raw, 'g', -1, 64))
		return in
	}

	in.Message = fmt.Sprintf("%s: %s (%s)", p.label, p.format(c.Raw), p.qualifier(in.Category))
	return in
}

// classify applies the generic threshold rule to a normalized score
func (g *InsightGenerator) classify(normalized float64) contracts.Category {
	switch {
	case normalized >= g.cfg.StrengthMin:
		return contracts.CategoryStrength
	case normalized <= g.cfg.CautionMax:
		return contracts.CategoryCaution
	default:
		return contracts.CategoryNeutral
	}
}

// intrinsic classifies price/intrinsic by its own value, not by peers
func (g *InsightGenerator) intrinsic(v float64) (contracts.Category, string) {
	switch {
	case v < g.cfg.IntrinsicStrengthBelow:
		return contracts.CategoryStrength, fmt.Sprintf("Price/Intrinsic: trading %.0f%% below intrinsic value", (1-v)*100)
	case v > g.cfg.IntrinsicCautionAbove:
		return contracts.CategoryCaution, fmt.Sprintf("Price/Intrinsic: trading %.0f%% above intrinsic value", (v-1)*100)
	default:
		return contracts.CategoryNeutral, "Price/Intrinsic: trading near intrinsic value"
	}
}

func topByImportance(list []contracts.Insight, limit int) []contracts.Insight {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Importance > list[j].Importance
	})
	if limit < 0 {
		limit = 0
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

// titleCase turns "payout_ratio" into "Payout Ratio"
func titleCase(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// === Message phrasing ===

type valueKind int

const (
	kindRatio valueKind = iota
	kindPercent
	kindBillions
)

type phrasing struct {
	label   string
	kind    valueKind
	strong  string
	weak    string
	neutral string
}

func (p phrasing) format(v float64) string {
	switch p.kind {
	case kindPercent:
		return fmt.Sprintf("%.1f%%", v*100)
	case kindBillions:
		return fmt.Sprintf("$%.1fB", v/1e9)
	default:
		return fmt.Sprintf("%.1fx", v)
	}
}

func (p phrasing) qualifier(c contracts.Category) string {
	switch c {
	case contracts.CategoryStrength:
		return p.strong
	case contracts.CategoryCaution:
		return p.weak
	default:
		return p.neutral
	}
}

var phrasings = map[contracts.Metric]phrasing{
	contracts.MetricPERatio:           {"P/E Ratio", kindRatio, "attractively valued", "relatively expensive", "fairly valued"},
	contracts.MetricDebtToEquity:      {"Debt/Equity", kindRatio, "strong balance sheet", "high leverage", "moderate leverage"},
	contracts.MetricRevenueGrowth:     {"Revenue Growth", kindPercent, "strong top-line growth", "weak top-line growth", "steady top-line growth"},
	contracts.MetricEarningsGrowth:    {"Earnings Growth", kindPercent, "strong earnings momentum", "weak earnings growth", "moderate earnings growth"},
	contracts.MetricDividendYield:     {"Dividend Yield", kindPercent, "attractive income", "limited income", "average income"},
	contracts.MetricReturnOnEquity:    {"Return on Equity", kindPercent, "highly profitable", "weak profitability", "average profitability"},
	contracts.MetricReturnOnAssets:    {"Return on Assets", kindPercent, "efficient asset use", "inefficient asset use", "average asset efficiency"},
	contracts.MetricFreeCashFlowYield: {"FCF Yield", kindPercent, "strong cash generation", "weak cash generation", "moderate cash generation"},
	contracts.MetricMarketCap:         {"Market Cap", kindBillions, "large, stable company", "smaller company", "mid-sized company"},
}
