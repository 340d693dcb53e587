package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"nidhi/internal/core"
	"nidhi/internal/engine"
)

var flagFundHistory string

var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "Return statistics from a NAV history file",
	Long:  "Reads a JSON array of {\"date\": \"YYYY-MM-DD\", \"nav\": 28.49} points and prints returns and CAGR.",
	RunE:  runFund,
}

func init() {
	fundCmd.Flags().StringVar(&flagFundHistory, "history", "", "Path to a NAV history JSON file")
	_ = fundCmd.MarkFlagRequired("history")
	rootCmd.AddCommand(fundCmd)
}

type navHistoryEntry struct {
	Date string  `json:"date"`
	NAV  float64 `json:"nav"`
}

func runFund(_ *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(flagFundHistory)
	if err != nil {
		return fmt.Errorf("read history file: %w", err)
	}

	var entries []navHistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse history file: %w", err)
	}

	history := make([]core.NAVPoint, 0, len(entries))
	for _, e := range entries {
		date, err := core.ParseDate(e.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", e.Date, err)
		}
		history = append(history, core.NAVPoint{Date: date, NAV: e.NAV})
	}

	stats, err := engine.ComputeFundStats(history, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Latest NAV:     %.4f (%s)\n", stats.LatestNAV, stats.LatestDate)
	fmt.Printf("Daily change:   %s\n", formatPct(stats.DailyChangePct))
	fmt.Printf("Monthly change: %s\n", formatPct(stats.MonthlyChangePct))
	fmt.Printf("Yearly change:  %s\n", formatPct(stats.YearlyChangePct))
	fmt.Printf("CAGR 3y:        %s\n", formatPct(stats.CAGR3YPct))
	fmt.Printf("CAGR 5y:        %s\n", formatPct(stats.CAGR5YPct))
	return nil
}

func formatPct(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}
