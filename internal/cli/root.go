package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitRuntimeError = 4
)

// Global flags
var (
	flagConfig    string
	flagVerbose   bool
	flagProvider  string
	flagModel     string
	flagFormat    string
	flagOut       string
	flagDataDir   string
	flagAudience  string
	flagNoRedact  bool
	flagNoCache   bool
	flagNoHistory bool
)

var rootCmd = &cobra.Command{
	Use:   "hoodscan [thread-url]",
	Short: "Summarize what a Reddit thread says about LA neighborhoods",
	Long: `hoodscan downloads a Reddit thread, counts mentions of each configured
Los Angeles neighborhood, asks an LLM for the pros and cons of every
mentioned neighborhood, and prints a ranked report.

Intermediate results are written to the data directory after every stage.
Progress messages go to stderr; the report goes to stdout or --out, so it
can be piped or redirected on its own.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalysis,
}

var runCmd = &cobra.Command{
	Use:   "run [thread-url]",
	Short: "Run the analysis (same as running hoodscan with no command)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalysis,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print hoodscan version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hoodscan version %s\n", version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/hoodscan/config.yaml)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&flagProvider, "provider", "", "LLM provider (gemini, openai, anthropic, ollama)")
	pf.StringVar(&flagModel, "model", "", "Model name")
	pf.StringVar(&flagFormat, "format", "", "Report format (text, json, markdown)")
	pf.StringVar(&flagOut, "out", "", "Report file path (default: stdout)")
	pf.StringVar(&flagDataDir, "data-dir", "", "Directory for stage checkpoints")
	pf.StringVar(&flagAudience, "audience", "", "Who the pros and cons are written for")
	pf.BoolVar(&flagNoRedact, "no-redact", false, "Send comments to the provider without PII redaction")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Do not read or write the summary cache")
	pf.BoolVar(&flagNoHistory, "no-history", false, "Do not record this run in the history database")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(neighborhoodsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}

// Run executes the root command and returns an exit code.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagDataDir != "" {
		m["dataDir"] = flagDataDir
	}
	if flagAudience != "" {
		m["audience"] = flagAudience
	}
	if flagNoRedact {
		m["privacy.redactPII"] = "false"
		fmt.Fprintln(os.Stderr, "WARNING: PII redaction is disabled")
	}
	if flagNoCache {
		m["cache.enabled"] = "false"
	}
	if flagNoHistory {
		m["history.enabled"] = "false"
	}
	return m
}
