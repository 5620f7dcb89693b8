package selection

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/pkg/logger"
	"github.com/wonny/equityrank/pkg/redis"
)

// CachedRanker serves rankings from Redis when the same request was ranked recently.
// A disabled cache passes every call straight through.
type CachedRanker struct {
	ranker     contracts.Ranker
	cache      *redis.Cache
	ttl        time.Duration
	configHash string
	logger     *logger.Logger
}

var _ contracts.Ranker = (*CachedRanker)(nil)

// NewCachedRanker wraps ranker. configHash must change whenever the weight tables change.
func NewCachedRanker(ranker contracts.Ranker, cache *redis.Cache, ttl time.Duration, configHash string, logger *logger.Logger) *CachedRanker {
	if ttl <= 0 {
		ttl = redis.TTLMedium
	}
	return &CachedRanker{
		ranker:     ranker,
		cache:      cache,
		ttl:        ttl,
		configHash: configHash,
		logger:     logger,
	}
}

// Rank returns the cached ranking for this exact request, or ranks and stores it
func (c *CachedRanker) Rank(ctx context.Context, goal contracts.Goal, risk contracts.Risk, companies []contracts.MetricSet, sector string) ([]contracts.RankedCompany, error) {
	if c.cache == nil || !c.cache.Enabled() {
		return c.ranker.Rank(ctx, goal, risk, companies, sector)
	}

	digest, err := Digest(companies)
	if err != nil {
		return nil, fmt.Errorf("digest companies: %w", err)
	}
	key := redis.RankingKey(c.configHash, string(goal), string(risk), NormalizeSector(sector), digest)

	hit := true
	var ranked []contracts.RankedCompany
	err = c.cache.GetOrSet(ctx, key, &ranked, c.ttl, func() (interface{}, error) {
		hit = false
		return c.ranker.Rank(ctx, goal, risk, companies, sector)
	})
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"key":       key,
		"cache_hit": hit,
		"count":     len(ranked),
	}).Debug("Ranking served")

	return ranked, nil
}

// Digest returns a SHA-256 hex digest of the companies' JSON encoding.
// Non-finite values hash as null, matching how they are scored.
func Digest(companies []contracts.MetricSet) (string, error) {
	clean := make([]contracts.MetricSet, len(companies))
	for i := range companies {
		clean[i] = companies[i].Clone()
	}
	data, err := json.Marshal(clean)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
