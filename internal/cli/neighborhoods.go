package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/hoodscan/internal/config"
)

var flagLintDistance int

var neighborhoodsCmd = &cobra.Command{
	Use:   "neighborhoods",
	Short: "List the neighborhoods and aliases mentions are matched against",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, nil)
		if err != nil {
			return err
		}
		table, err := cfg.Table()
		if err != nil {
			exitCode = ExitConfigError
			return err
		}

		out := cmd.OutOrStdout()
		if flagLintDistance > 0 {
			pairs := table.NearDuplicates(flagLintDistance)
			if len(pairs) == 0 {
				fmt.Fprintln(out, "No near-duplicate aliases.")
				return nil
			}
			for _, p := range pairs {
				fmt.Fprintf(out, "%q (%s) ~ %q (%s): distance %d\n",
					p.First, p.FirstOf, p.Second, p.SecondOf, p.Distance)
			}
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NEIGHBORHOOD\tALIASES")
		for _, n := range table.Entries() {
			fmt.Fprintf(tw, "%s\t%s\n", n.Name, strings.Join(n.Aliases, ", "))
		}
		return tw.Flush()
	},
}

func init() {
	neighborhoodsCmd.Flags().IntVar(&flagLintDistance, "lint", 0, "Report aliases of different neighborhoods within this edit distance")
}
