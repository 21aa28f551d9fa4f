package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/limaronaldo/agentshield/analytics"
	"github.com/limaronaldo/agentshield/output"
)

var (
	verboseFlag bool
	// Version and GitCommit are overridden at build time via -ldflags.
	Version   = "0.1.0"
	GitCommit = "HEAD"
)

var rootCmd = &cobra.Command{
	Use:   "agentshield",
	Short: "Static security scanner for agentic tool code (MCP servers, LangChain tools, skill manifests)",
	Long: `agentshield scans agent-framework tool implementations for the
vulnerability classes specific to LLM-driven execution: command
injection, credential exfiltration, SSRF, arbitrary file access,
runtime package installs, self-modification, excessive declared
permissions, and supply-chain risk in the tool's own dependencies.

Learn more: https://github.com/limaronaldo/agentshield`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics")
		verboseFlag, _ = cmd.Flags().GetBool("verbose")
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
		analytics.SetVersion(Version)

		if cmd.Name() == "help" || len(os.Args) == 1 {
			noBanner, _ := cmd.Flags().GetBool("no-banner")
			logger := output.NewLogger(output.VerbosityNormal)
			if output.ShouldShowBanner(logger.IsTTY(), noBanner) {
				output.PrintBanner(os.Stderr, Version, output.DefaultBannerOptions())
			} else if !noBanner {
				fmt.Fprintln(os.Stderr, output.GetCompactBanner(Version))
			}
		}
	},
}

// Execute runs the CLI and returns the first error encountered.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable anonymous usage metrics")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("no-banner", false, "Disable startup banner")
}
