package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-skywindow/internal/ui"
	"github.com/litescript/ls-skywindow/internal/validate"
	"github.com/litescript/ls-skywindow/internal/visibility"
)

var (
	intervalsQuery  = newQueryFlags()
	intervalsFormat string
	intervalsTZ     string
	airmassQuery    = newQueryFlags()
	viewQuery       = newQueryFlags()
)

var intervalsCmd = &cobra.Command{
	Use:   "intervals",
	Short: "Observable intervals of a target per telescope",
	Long: `Compute the intervals during which a target is observable from each
telescope: above the horizon and within the hour-angle limits, under the
airmass and lunar constraints, with the sun below nautical twilight.

Examples:
  # M22 from every telescope over one day
  ls-skywindow intervals --start 2025-03-01 --end 2025-03-02 --ra 279.09975 --dec -23.90475

  # A minor planet from two telescopes, as a table
  ls-skywindow intervals -f query.yaml --telescopes lco.coj.1m0a,lco.lsc.1m0a --format table
`,
	RunE: runIntervals,
}

var airmassCmd = &cobra.Command{
	Use:   "airmass",
	Short: "Airmass through each telescope's observable intervals",
	Long: `Sample the target's airmass every 10 minutes inside each telescope's
observable intervals. Telescopes that never see the target are omitted.`,
	RunE: runAirmass,
}

var viewCmd = &cobra.Command{
	Use:         "view",
	Short:       "Browse intervals and airmass in the terminal",
	Annotations: map[string]string{annotationTUI: "true"},
	RunE:        runView,
}

func init() {
	intervalsQuery.register(intervalsCmd)
	intervalsCmd.Flags().StringVar(&intervalsFormat, "format", "json", "Output format (json, table)")
	intervalsCmd.Flags().StringVar(&intervalsTZ, "tz", "UTC", "Time zone for table output")
	airmassQuery.register(airmassCmd)
	viewQuery.register(viewCmd)

	rootCmd.AddCommand(intervalsCmd, airmassCmd, viewCmd)
}

// request validates the query from flags against the registry and the
// configured default constraints.
func (a *app) request(cmd *cobra.Command, qf *queryFlags) (visibility.Request, validate.Errors, error) {
	query, perrs, err := qf.build(cmd.Flags())
	if err != nil {
		return visibility.Request{}, nil, err
	}

	defaults := visibility.Limits{
		MaxAirmass:       a.cfg.Defaults.MaxAirmass,
		MaxLunarPhase:    a.cfg.Defaults.MaxLunarPhase,
		MinLunarDistance: a.cfg.Defaults.MinLunarDistance,
	}
	req, verrs := query.Validate(a.registry, defaults)

	if len(perrs) > 0 {
		return visibility.Request{}, mergeParseErrors(perrs, verrs), nil
	}
	if len(verrs) > 0 {
		return visibility.Request{}, verrs, nil
	}
	return req, nil, nil
}

func runIntervals(cmd *cobra.Command, args []string) error {
	loc, err := time.LoadLocation(intervalsTZ)
	if err != nil {
		return fmt.Errorf("invalid --tz: %w", err)
	}
	if intervalsFormat != "json" && intervalsFormat != "table" {
		return fmt.Errorf("invalid --format %q (want json or table)", intervalsFormat)
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	req, verrs, err := a.request(cmd, intervalsQuery)
	if err != nil {
		return err
	}
	if verrs != nil {
		return invalid(cmd, verrs)
	}

	if intervalsFormat == "table" {
		results, err := a.orch.Results(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("compute intervals: %w", err)
		}
		visibility.WriteIntervalsTable(cmd.OutOrStdout(), results, loc, time.Now())
		return nil
	}

	byTelescope, err := a.orch.IntervalsByTelescope(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("compute intervals: %w", err)
	}
	return visibility.WriteIntervalsJSON(cmd.OutOrStdout(), byTelescope)
}

func runAirmass(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	req, verrs, err := a.request(cmd, airmassQuery)
	if err != nil {
		return err
	}
	if verrs != nil {
		return invalid(cmd, verrs)
	}

	series, err := a.orch.AirmassByTelescope(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("compute airmass: %w", err)
	}
	return visibility.WriteAirmassJSON(cmd.OutOrStdout(), series)
}

func runView(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	req, verrs, err := a.request(cmd, viewQuery)
	if err != nil {
		return err
	}
	if verrs != nil {
		return invalid(cmd, verrs)
	}

	p := tea.NewProgram(ui.New(a.orch, req), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
