package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nidhi/internal/engine"
)

var (
	flagGoalNetWorth float64
	flagGoalSavings  float64
	flagGoalTarget   float64
	flagGoalRate     float64
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Months until a savings goal is reached",
	RunE:  runGoal,
}

func init() {
	goalCmd.Flags().Float64Var(&flagGoalNetWorth, "networth", 0, "Current net worth")
	goalCmd.Flags().Float64Var(&flagGoalSavings, "savings", 0, "Monthly savings")
	goalCmd.Flags().Float64Var(&flagGoalTarget, "target", 0, "Target amount")
	goalCmd.Flags().Float64Var(&flagGoalRate, "rate", 0.12, "Expected annual return as a fraction")
	_ = goalCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(goalCmd)
}

func runGoal(_ *cobra.Command, _ []string) error {
	projection := engine.TimeToGoal(flagGoalNetWorth, flagGoalSavings, flagGoalTarget, flagGoalRate)
	if projection.Unreachable {
		fmt.Println("Target is unreachable within 50 years at this savings rate.")
		return nil
	}
	years := projection.Months / 12
	months := projection.Months % 12
	fmt.Printf("Target %.2f reached in %d months (%dy %dm) at %.1f%% p.a.\n",
		flagGoalTarget, projection.Months, years, months, flagGoalRate*100)
	return nil
}
