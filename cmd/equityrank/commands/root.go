package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/equityrank/internal/strategyconfig"
	"github.com/wonny/equityrank/pkg/config"
	"github.com/wonny/equityrank/pkg/logger"
)

var (
	// Global flags
	profilesPath string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "equityrank",
	Short: "Equity ranking - 투자 성향 기반 종목 스코어링",
	Long: `Equity Ranking CLI

투자 목표(goal)와 위험 성향(risk)으로 가중치 프로필을 만들고,
섹터 내 peer 대비 정규화 점수로 종목을 순위화합니다.

Usage:
  go run ./cmd/equityrank [command]

Examples:
  go run ./cmd/equityrank rank --goal growth --risk aggressive --input companies.json
  go run ./cmd/equityrank profile income --risk conservative
  go run ./cmd/equityrank data-check --input companies.json
  go run ./cmd/equityrank api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&profilesPath, "profiles", "", "weight table YAML (default: PROFILES_PATH or built-in tables)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// runtime is the shared setup of every command
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategyconfig.Config
	hash     string
}

// setup loads config, logger and weight tables
func setup() (*runtime, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Load weight tables
	path := cfg.Ranking.ProfilesPath
	if profilesPath != "" {
		path = profilesPath
	}
	strategy, err := strategyconfig.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles %s: %w", path, err)
	}
	for _, w := range strategyconfig.Warn(strategy) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return nil, fmt.Errorf("hash profiles: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"strategy_id": strategy.Meta.StrategyID,
		"version":     strategy.Meta.Version,
	}).Debug("Weight tables loaded")

	return &runtime{cfg: cfg, log: log, strategy: strategy, hash: hash}, nil
}
