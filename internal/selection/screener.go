package selection

import (
	"strings"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/pkg/logger"
)

// AllSectors disables sector filtering
const AllSectors = "all"

// Screener narrows a company list to one sector
// ⭐ SSOT: 섹터 필터 로직은 여기서만
type Screener struct {
	logger *logger.Logger
}

// NewScreener creates a new screener
func NewScreener(logger *logger.Logger) *Screener {
	return &Screener{logger: logger}
}

// Screen returns the companies in sector, in input order.
// Matching is case-insensitive; "all" or an empty sector returns every company.
func (s *Screener) Screen(companies []contracts.MetricSet, sector string) []contracts.MetricSet {
	if IsAllSectors(sector) {
		return companies
	}

	want := strings.TrimSpace(sector)
	passed := make([]contracts.MetricSet, 0, len(companies))
	for _, c := range companies {
		if strings.EqualFold(c.Sector, want) {
			passed = append(passed, c)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"sector":       want,
		"total_input":  len(companies),
		"passed":       len(passed),
		"filtered_out": len(companies) - len(passed),
	}).Debug("Screening completed")

	return passed
}

// IsAllSectors reports whether sector disables filtering
func IsAllSectors(sector string) bool {
	s := strings.TrimSpace(sector)
	return s == "" || strings.EqualFold(s, AllSectors)
}

// NormalizeSector returns the canonical form of a sector filter ("all" for no filter)
func NormalizeSector(sector string) string {
	if IsAllSectors(sector) {
		return AllSectors
	}
	return strings.ToLower(strings.TrimSpace(sector))
}
