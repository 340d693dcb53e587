package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nidhi/internal/core"
	"nidhi/internal/engine"
)

var (
	flagFDPrincipal   float64
	flagFDRate        float64
	flagFDCompounding int
	flagFDStart       string
	flagFDTenure      float64
)

var fdCmd = &cobra.Command{
	Use:   "fd",
	Short: "Value a fixed deposit today and at maturity",
	RunE:  runFD,
}

func init() {
	fdCmd.Flags().Float64Var(&flagFDPrincipal, "principal", 0, "Deposit principal")
	fdCmd.Flags().Float64Var(&flagFDRate, "rate", 0, "Annual rate as a fraction, e.g. 0.0725")
	fdCmd.Flags().IntVar(&flagFDCompounding, "compounding", 4, "Compounding periods per year")
	fdCmd.Flags().StringVar(&flagFDStart, "start", "", "Start date (YYYY-MM-DD)")
	fdCmd.Flags().Float64Var(&flagFDTenure, "tenure", 0, "Tenure in years")
	_ = fdCmd.MarkFlagRequired("principal")
	_ = fdCmd.MarkFlagRequired("rate")
	_ = fdCmd.MarkFlagRequired("start")
	_ = fdCmd.MarkFlagRequired("tenure")
	rootCmd.AddCommand(fdCmd)
}

func runFD(_ *cobra.Command, _ []string) error {
	start, err := core.ParseDate(flagFDStart)
	if err != nil {
		return fmt.Errorf("invalid --start, want YYYY-MM-DD: %w", err)
	}
	if flagFDPrincipal <= 0 || flagFDTenure <= 0 || flagFDRate < 0 || flagFDCompounding < 1 {
		return fmt.Errorf("principal and tenure must be positive, rate non-negative, compounding at least 1")
	}

	calc := engine.CalculateFD(engine.FDInput{
		Principal:        flagFDPrincipal,
		AnnualRate:       flagFDRate,
		CompoundsPerYear: flagFDCompounding,
		StartDate:        start,
		TenureYears:      flagFDTenure,
	}, time.Now())

	fmt.Printf("Principal:       %.2f\n", flagFDPrincipal)
	fmt.Printf("Rate:            %.2f%% p.a., compounded %dx/year\n", flagFDRate*100, flagFDCompounding)
	fmt.Printf("Elapsed:         %.2f years\n", calc.ElapsedYears)
	fmt.Printf("Current value:   %.2f\n", calc.CurrentValue)
	fmt.Printf("Interest earned: %.2f\n", calc.InterestEarned)
	fmt.Printf("At maturity:     %.2f\n", calc.MaturityValue)
	return nil
}
