package main

import (
	"fmt"
	"text/tabwriter"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"github.com/spf13/cobra"
)

var telescopesJSON bool

var telescopesCmd = &cobra.Command{
	Use:   "telescopes",
	Short: "List the telescope registry",
	RunE:  runTelescopes,
}

func init() {
	telescopesCmd.Flags().BoolVar(&telescopesJSON, "json", false, "Print the registry as JSON")
	rootCmd.AddCommand(telescopesCmd)
}

func runTelescopes(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tels := a.registry.Telescopes()
	if telescopesJSON {
		return writeJSON(cmd.OutOrStdout(), tels)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSITE\tAPERTURE\tLATITUDE\tLONGITUDE\tHORIZON\tHA LIMITS")
	for _, t := range tels {
		site := t.SiteID
		if s, ok := a.registry.Site(t.SiteID); ok && s.Name != "" {
			site = s.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1fm\t%3v\t%3v\t%.0f°\t%+.1fh / %+.1fh\n",
			t.ID,
			t.Name,
			site,
			t.Aperture,
			sexa.FmtAngle(unit.AngleFromDeg(t.Latitude)),
			sexa.FmtAngle(unit.AngleFromDeg(t.Longitude)),
			t.Horizon,
			t.NegativeHALimit,
			t.PositiveHALimit,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d telescopes (%s)\n", len(tels), registryLabel(a.cfg.RegistryPath))
	return nil
}

func registryLabel(path string) string {
	if path == "" {
		return "built-in registry"
	}
	return path
}
