package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/selection"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "투자 성향별 종목 순위",
	Long: `투자 목표와 위험 성향으로 종목 점수를 계산하고 순위를 출력합니다.

Goals : growth | value | income | balanced (unknown → balanced)
Risks : conservative | moderate | aggressive

Example:
  go run ./cmd/equityrank rank --goal growth --risk aggressive --input companies.json
  go run ./cmd/equityrank rank --goal income --sector Utilities --db --limit 10
  go run ./cmd/equityrank rank --goal value --input a.json --input b.json --json`,
	RunE: runRank,
}

var (
	rankGoal    string
	rankRisk    string
	rankSector  string
	rankLimit   int
	rankJSON    bool
	rankSources sourceFlags
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankGoal, "goal", "balanced", "investment goal")
	rankCmd.Flags().StringVar(&rankRisk, "risk", "moderate", "risk tolerance")
	rankCmd.Flags().StringVar(&rankSector, "sector", selection.AllSectors, "sector filter (case-insensitive, \"all\" = every sector)")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 0, "show only the top N (0 = all)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print JSON instead of a table")
	addSourceFlags(rankCmd, &rankSources)
}

func addSourceFlags(cmd *cobra.Command, flags *sourceFlags) {
	cmd.Flags().StringArrayVar(&flags.inputs, "input", nil, "JSON file or http(s) URL with an array of company metrics (repeatable)")
	cmd.Flags().BoolVar(&flags.fromDB, "db", false, "load companies from the metrics database")
	cmd.Flags().IntVar(&flags.workers, "workers", 4, "concurrent source loaders")
}

func runRank(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	risk, err := contracts.ParseRisk(rankRisk)
	if err != nil {
		return err
	}
	goal, known := contracts.ParseGoal(rankGoal)

	rt, err := setup()
	if err != nil {
		return err
	}
	if !known {
		rt.log.WithField("goal", rankGoal).Warn("Unknown goal, using balanced")
	}

	result, db, err := rt.collect(ctx, rankSources, rankSector)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	ranked, err := selection.NewRanker(rt.strategy, rt.log).Rank(ctx, goal, risk, result.Companies, rankSector)
	if err != nil {
		return err
	}
	if rankLimit > 0 && len(ranked) > rankLimit {
		ranked = ranked[:rankLimit]
	}

	if rankJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	PrintHeader(out, fmt.Sprintf("Ranking: goal=%s risk=%s sector=%s", goal, risk, selection.NormalizeSector(rankSector)))
	printRanking(out, ranked)

	if len(result.Issues) > 0 {
		PrintWarning(out, fmt.Sprintf("%d data issues (values treated as missing); run data-check for details", len(result.Issues)))
	}
	return nil
}

func printRanking(out io.Writer, ranked []contracts.RankedCompany) {
	if len(ranked) == 0 {
		fmt.Fprintln(out, "  (no companies)")
		return
	}

	widths := []int{4, 8, 24, 16, 6}
	PrintTableHeader(out, []string{"#", "Ticker", "Name", "Sector", "Score"}, widths)
	for _, r := range ranked {
		PrintTableRow(out, []string{
			strconv.Itoa(r.Rank),
			r.Ticker,
			truncate(r.Name, widths[2]),
			truncate(r.Sector, widths[3]),
			fmt.Sprintf("%.1f", r.Score),
		}, widths)
		for _, s := range r.Strengths {
			fmt.Fprintf(out, "      + %s\n", s.Message)
		}
		for _, c := range r.Cautions {
			fmt.Fprintf(out, "      - %s\n", c.Message)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
