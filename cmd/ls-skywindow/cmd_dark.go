package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-skywindow/internal/intervals"
	"github.com/litescript/ls-skywindow/internal/validate"
	"github.com/litescript/ls-skywindow/internal/visibility"
)

var (
	darkWindow windowFlags

	twilightTelescope string
	twilightNow       string
)

var darkCmd = &cobra.Command{
	Use:   "dark",
	Short: "Intervals with the sun below nautical twilight per telescope",
	RunE:  runDark,
}

var twilightCmd = &cobra.Command{
	Use:   "twilight",
	Short: "Current and next dark interval at one telescope",
	Long: `Report the dark time of interest at a telescope: when it is dark now,
the current dark interval and the one after it; otherwise the next one.`,
	RunE: runTwilight,
}

func init() {
	darkWindow.register(darkCmd.Flags())

	twilightCmd.Flags().StringVar(&twilightTelescope, "telescope", "", "Telescope id")
	twilightCmd.Flags().StringVar(&twilightNow, "now", "", "Reference time (default: current time)")
	_ = twilightCmd.MarkFlagRequired("telescope")

	rootCmd.AddCommand(darkCmd, twilightCmd)
}

func runDark(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	start, end, perrs := darkWindow.parse(cmd.Flags())
	w, verrs := visibility.ValidateWindow(a.registry, start, end, darkWindow.telescopes)
	if len(perrs) > 0 {
		return invalid(cmd, mergeParseErrors(perrs, verrs))
	}
	if len(verrs) > 0 {
		return invalid(cmd, verrs)
	}

	dark, err := a.orch.DarkIntervalsByTelescope(cmd.Context(), w)
	if err != nil {
		return fmt.Errorf("compute dark intervals: %w", err)
	}
	return visibility.WriteIntervalsJSON(cmd.OutOrStdout(), dark)
}

func runTwilight(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	errs := validate.Errors{}
	tel, ok := a.registry.Lookup(twilightTelescope)
	if !ok {
		errs.Addf("telescope", "Invalid pk %q - object does not exist.", twilightTelescope)
	}
	now := time.Now().UTC()
	if cmd.Flags().Changed("now") {
		t, ok := parseDatetime(strings.TrimSpace(twilightNow))
		if !ok {
			errs.Add("now", msgDatetimeFormat)
		}
		now = t
	}
	if len(errs) > 0 {
		return invalid(cmd, errs)
	}

	dark, err := visibility.NextTwilight(cmd.Context(), a.orch.Engine(), tel, now)
	if err != nil {
		return err
	}
	return visibility.WriteIntervalsJSON(cmd.OutOrStdout(), map[string][]intervals.Interval{tel.ID: dark})
}
