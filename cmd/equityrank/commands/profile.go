package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/profile"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile [goal]",
	Short: "가중치 프로필 조회",
	Long: `goal/risk 조합의 최종 가중치 테이블(위험 조정 + 재정규화)을 출력합니다.
goal을 생략하면 모든 goal을 출력합니다.

Example:
  go run ./cmd/equityrank profile growth --risk conservative
  go run ./cmd/equityrank profile --profiles ./profiles.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfile,
}

var profileRisk string

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVar(&profileRisk, "risk", "moderate", "risk tolerance")
}

func runProfile(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	risk, err := contracts.ParseRisk(profileRisk)
	if err != nil {
		return err
	}

	rt, err := setup()
	if err != nil {
		return err
	}
	builder := profile.NewBuilder(rt.strategy)

	goals := contracts.Goals()
	if len(args) == 1 {
		goal, known := contracts.ParseGoal(args[0])
		if !known {
			rt.log.WithField("goal", args[0]).Warn("Unknown goal, using balanced")
		}
		goals = []contracts.Goal{goal}
	}

	for _, goal := range goals {
		p, err := builder.Build(goal, risk)
		if err != nil {
			return err
		}

		PrintHeader(out, fmt.Sprintf("Profile: %s / %s", p.Goal(), p.Risk()))
		widths := []int{22, 8, 10}
		PrintTableHeader(out, []string{"Metric", "Weight", "Direction"}, widths)
		for _, e := range p.Entries() {
			dir := "higher"
			if !e.HigherBetter {
				dir = "lower"
			}
			PrintTableRow(out, []string{string(e.Metric), fmt.Sprintf("%.4f", e.Weight), dir}, widths)
		}
	}
	return nil
}
