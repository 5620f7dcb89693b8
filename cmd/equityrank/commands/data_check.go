package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/s0_data/quality"
)

// dataCheckCmd represents the data check command
var dataCheckCmd = &cobra.Command{
	Use:   "data-check",
	Short: "지표 데이터 상태 확인",
	Long: `종목 지표 데이터의 커버리지와 로딩 이슈를 확인합니다.

확인 항목:
- 지표별 커버리지 (null/NaN이 아닌 비율)
- 품질 점수 (커버리지 평균)
- 사용할 수 없는 값 ("N/A", 파싱 불가 숫자, 중복 ticker)

Example:
  go run ./cmd/equityrank data-check --input companies.json
  go run ./cmd/equityrank data-check --db --save`,
	RunE: runDataCheck,
}

var (
	dataCheckSector  string
	dataCheckSave    bool
	dataCheckSources sourceFlags
)

func init() {
	rootCmd.AddCommand(dataCheckCmd)

	dataCheckCmd.Flags().StringVar(&dataCheckSector, "sector", "", "only check this sector (--db)")
	dataCheckCmd.Flags().BoolVar(&dataCheckSave, "save", false, "store the snapshot in data.quality_snapshots")
	addSourceFlags(dataCheckCmd, &dataCheckSources)
}

func runDataCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	rt, err := setup()
	if err != nil {
		return err
	}

	result, db, err := rt.collect(ctx, dataCheckSources, dataCheckSector)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	report := quality.NewQualityGate(quality.DefaultConfig()).Check(result.Companies, nil)
	snap := report.Snapshot

	PrintHeader(out, "Data Check")
	PrintKeyValue(out, "Companies", fmt.Sprintf("%d", snap.TotalCompanies), 14)
	PrintKeyValue(out, "Quality score", formatPercent(snap.QualityScore), 14)
	for _, s := range result.Sources {
		status := fmt.Sprintf("%d companies, %d issues", s.Count, s.Issues)
		if s.Error != nil {
			status = "failed: " + s.Error.Error()
		}
		PrintKeyValue(out, "Source", s.Source+" ("+status+")", 14)
	}
	PrintSeparator(out)

	widths := []int{22, 9}
	PrintTableHeader(out, []string{"Metric", "Coverage"}, widths)
	for _, m := range contracts.AllMetrics() {
		PrintTableRow(out, []string{string(m), formatPercent(snap.CoverageOf(m))}, widths)
	}

	if len(report.LowCoverage) > 0 {
		names := make([]string, 0, len(report.LowCoverage))
		for _, m := range report.LowCoverage {
			names = append(names, string(m))
		}
		PrintWarning(out, "Low coverage (neutral 0.5 scores dominate):")
		PrintList(out, names)
	}

	if len(result.Issues) > 0 {
		lines := make([]string, 0, len(result.Issues))
		for _, i := range result.Issues {
			lines = append(lines, i.String())
		}
		sort.Strings(lines)
		PrintWarning(out, fmt.Sprintf("%d data issues:", len(lines)))
		PrintList(out, lines)
	}

	if report.Passed {
		PrintSuccess(out, "Quality gate passed")
	} else {
		PrintError(out, "Quality gate failed")
	}

	if dataCheckSave {
		if db == nil {
			return fmt.Errorf("--save requires --db")
		}
		if err := quality.NewRepository(db.Pool).SaveSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		PrintSuccess(out, "Snapshot saved")
	}
	return nil
}
