package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/equityrank/internal/api"
	"github.com/wonny/equityrank/internal/api/handlers"
	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/profile"
	"github.com/wonny/equityrank/internal/s0_data"
	"github.com/wonny/equityrank/internal/s0_data/quality"
	"github.com/wonny/equityrank/internal/selection"
	"github.com/wonny/equityrank/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

DATABASE_URL이 없으면 POST /api/rankings 와 profiles만 제공합니다.
REDIS_ENABLED=true이면 랭킹 결과 캐시와 공유 레이트 리밋을 사용합니다.

Endpoints:
  GET  /health                 - Health check
  GET  /api/rankings           - DB 종목 순위 (goal, risk, sector, limit)
  POST /api/rankings           - 요청 본문 종목 순위
  GET  /api/profiles/{goal}    - 가중치 프로필 (risk)
  GET  /api/data/quality       - 지표 커버리지

Example:
  go run ./cmd/equityrank api
  go run ./cmd/equityrank api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	cfg, log := rt.cfg, rt.log

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := make(map[string]api.HealthCheck)

	// 1. Metrics repository (optional)
	var repo contracts.MetricsRepository
	if cfg.Database.URL != "" {
		db, err := rt.connectDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		repo = s0_data.NewRepository(db.Pool)
		health["database"] = func(ctx context.Context) error {
			status, err := db.HealthCheck(ctx)
			if err == nil {
				log.WithField("pool", status.Stats).Debug("Database healthy")
			}
			return err
		}
	} else {
		log.Warn("DATABASE_URL not set: GET /api/rankings and /api/data/quality are unavailable")
	}

	// 2. Redis (optional)
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// 3. Ranker + cache
	var ranker contracts.Ranker = selection.NewRanker(rt.strategy, log)
	var shared *redis.RateLimiter
	if redisClient.Enabled() {
		cache := redis.NewCache(redisClient, "equityrank")
		ranker = selection.NewCachedRanker(ranker, cache, cfg.Ranking.CacheTTL, rt.hash, log)
		shared = redis.NewRateLimiter(redisClient, "equityrank")
		health["redis"] = redisClient.Ping
		log.Info("Redis cache enabled")
	}

	// 4. Router + server
	router := api.NewRouter(api.Handlers{
		Ranking: handlers.NewRankingHandler(repo, ranker, log),
		Profile: handlers.NewProfileHandler(profile.NewBuilder(rt.strategy), log),
		Data:    handlers.NewDataHandler(repo, quality.NewQualityGate(quality.DefaultConfig()), log),
		Health:  health,
	}, api.NewRateLimit(cfg.API, shared), log)
	server := api.New(cfg, log, router)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
