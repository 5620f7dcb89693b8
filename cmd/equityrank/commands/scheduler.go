package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/s0_data"
	"github.com/wonny/equityrank/internal/s0_data/quality"
	"github.com/wonny/equityrank/internal/scheduler"
	"github.com/wonny/equityrank/internal/scheduler/jobs"
	"github.com/wonny/equityrank/internal/selection"
	"github.com/wonny/equityrank/pkg/database"
	"github.com/wonny/equityrank/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/equityrank scheduler start --sectors Technology,Energy
  go run ./cmd/equityrank scheduler list
  go run ./cmd/equityrank scheduler run ranking_warmup`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- ranking_warmup: RANKING_WARM_SCHEDULE (기본 15분마다, 랭킹 캐시 예열)
- quality_snapshot: 매일 06:30 (지표 커버리지 스냅샷 저장)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

var warmSectors []string

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().StringSliceVar(&warmSectors, "sectors", nil, "sectors to warm besides \"all\"")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	sched, cleanup, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	// Start scheduler
	sched.Start()

	PrintSuccess(out, "Scheduler started successfully")
	fmt.Fprintln(out, "\nRegistered jobs:")
	PrintList(out, sched.GetAllJobs())
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Fprintln(out, "\nShutting down scheduler...")
	sched.Stop()
	fmt.Fprintln(out, "Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Registered jobs:")
	PrintList(out, sched.GetAllJobs())

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]
	out := cmd.OutOrStdout()

	sched, cleanup, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	fmt.Fprintf(out, "Running job: %s\n", jobName)
	result, err := sched.RunJob(jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	PrintKeyValue(out, "Attempts", fmt.Sprintf("%d", result.Attempts), 9)
	PrintKeyValue(out, "Duration", result.Duration.String(), 9)
	if !result.Success {
		PrintError(out, fmt.Sprintf("Job failed: %s", result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}
	PrintSuccess(out, "Job completed")
	return nil
}

func initScheduler(ctx context.Context) (*scheduler.Scheduler, func(), error) {
	rt, err := setup()
	if err != nil {
		return nil, nil, err
	}
	cfg, log := rt.cfg, rt.log

	// 1. Connect to database
	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	// 2. Connect to redis (warm-up only pays off with a shared cache)
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	if !redisClient.Enabled() {
		log.Warn("Redis disabled: ranking_warmup computes rankings without caching them")
	}

	cleanup := func() {
		redisClient.Close()
		db.Close()
	}

	// 3. Create repositories
	metricsRepo := s0_data.NewRepository(db.Pool)
	qualityRepo := quality.NewRepository(db.Pool)

	// 4. Create ranker
	var ranker contracts.Ranker = selection.NewRanker(rt.strategy, log)
	ranker = selection.NewCachedRanker(ranker, redis.NewCache(redisClient, "equityrank"), cfg.Ranking.CacheTTL, rt.hash, log)

	sectors := make([]string, 0, len(warmSectors))
	for _, s := range warmSectors {
		if s = strings.TrimSpace(s); s != "" {
			sectors = append(sectors, s)
		}
	}

	// 5. Create scheduler
	sched := scheduler.New(log)

	// 6. Register jobs
	if err := sched.AddJob(jobs.NewRankingWarmupJob(metricsRepo, ranker, cfg.Ranking.WarmSchedule, sectors, cfg.Ranking.WarmParallel, log)); err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewQualitySnapshotJob(metricsRepo, quality.NewQualityGate(quality.DefaultConfig()), qualityRepo, log)); err != nil {
		cleanup()
		return nil, nil, err
	}

	return sched, cleanup, nil
}
