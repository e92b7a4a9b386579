package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/hoodscan/internal/config"
	"github.com/dshills/hoodscan/internal/providers"
	"github.com/dshills/hoodscan/internal/reddit"
	"github.com/dshills/hoodscan/internal/summarize"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Provider and model management",
}

var modelsListCmd = &cobra.Command{
	Use:   "list [provider]",
	Short: "List supported providers and their models",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		shown := 0
		for _, info := range providers.Known() {
			if len(args) == 1 && !strings.EqualFold(args[0], info.Provider) {
				continue
			}
			shown++
			fmt.Fprintf(out, "%s:\n", info.Provider)
			for i, m := range info.Models {
				if i == 0 {
					fmt.Fprintf(out, "  - %s (default)\n", m)
					continue
				}
				fmt.Fprintf(out, "  - %s\n", m)
			}
			fmt.Fprintln(out)
		}
		if shown == 0 {
			return fmt.Errorf("unknown provider: %s", args[0])
		}
		return nil
	},
}

var modelsDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the configured provider returns a valid summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, buildOverrides())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		gen, err := providers.New(cfg.Provider, cfg.Model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			exitCode = ExitConfigError
			return nil
		}
		fmt.Fprintf(out, "Checking %s/%s...\n", gen.Name(), gen.Model())

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		sample := []reddit.Comment{{Text: "Venice is walkable but parking is hard", Upvotes: 3}}
		resp, err := gen.Generate(ctx, providers.Request{
			Parts:     summarize.BuildParts("Venice", cfg.Audience, sample),
			Schema:    summarize.ResponseSchema(),
			MaxTokens: cfg.Summarize.MaxTokens,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			exitCode = exitCodeFor(err)
			return nil
		}
		if _, err := summarize.ParseSummary(resp.Content); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: provider answered but %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(out, "OK: %s returned a valid summary (%d tokens)\n", gen.Name(), resp.TokensUsed)
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsDoctorCmd)
}
