package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/equityrank/internal/s0_data"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "지표 파일을 DB에 적재",
	Long: `JSON 지표 파일을 읽어 data.company_metrics에 upsert합니다.
여러 파일에 같은 ticker가 있으면 먼저 지정한 파일이 우선합니다.

Example:
  go run ./cmd/equityrank import --input companies.json --input overrides.json`,
	RunE: runImport,
}

var importInputs []string

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVar(&importInputs, "input", nil, "JSON file with an array of company metrics (repeatable)")
	importCmd.MarkFlagRequired("input")
}

func runImport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	rt, err := setup()
	if err != nil {
		return err
	}

	result, _, err := rt.collect(ctx, sourceFlags{inputs: importInputs, workers: 4}, "")
	if err != nil {
		return err
	}

	db, err := rt.connectDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := s0_data.NewRepository(db.Pool).UpsertMetricSets(ctx, result.Companies)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	PrintSuccess(out, fmt.Sprintf("Imported %d companies", n))
	if len(result.Issues) > 0 {
		PrintWarning(out, fmt.Sprintf("%d values were unusable and stored as NULL", len(result.Issues)))
	}
	return nil
}
