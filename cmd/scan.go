package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	agentshield "github.com/limaronaldo/agentshield"
	"github.com/limaronaldo/agentshield/analytics"
	"github.com/limaronaldo/agentshield/config"
	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/output"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan an agentic tool project for security findings",
	Long: `Scan a directory for MCP servers, LangChain tools, or skill manifests
and report the security findings detected across its twelve rules.

Examples:
  # Scan the current directory with defaults
  agentshield scan .

  # Fail the run on medium severity or above, write a SARIF report
  agentshield scan . --fail-on medium --format sarif --output results.sarif

  # Load policy overrides from a config file
  agentshield scan . --config agentshield.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("config", "", "Path to a TOML policy configuration file")
	scanCmd.Flags().String("fail-on", "", "Minimum severity that fails the run (info|low|medium|high|critical)")
	scanCmd.Flags().StringArray("ignore-rule", nil, "Rule id to exclude from the projected findings (repeatable)")
	scanCmd.Flags().String("format", "text", "Report format: text|json|sarif|html")
	scanCmd.Flags().String("output", "", "Write the report to this file instead of stdout")
	scanCmd.Flags().Bool("ignore-tests", true, "Skip test files while scanning")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving scan path: %w", err)
	}

	configPath, _ := cmd.Flags().GetString("config")
	failOnStr, _ := cmd.Flags().GetString("fail-on")
	ignoreRules, _ := cmd.Flags().GetStringArray("ignore-rule")
	format, _ := cmd.Flags().GetString("format")
	outputFile, _ := cmd.Flags().GetString("output")
	ignoreTests, _ := cmd.Flags().GetBool("ignore-tests")

	if format != "text" && format != "json" && format != "sarif" && format != "html" {
		return fmt.Errorf("--format must be 'text', 'json', 'sarif', or 'html'")
	}

	analytics.ReportEventWithProperties(analytics.ScanStarted, map[string]interface{}{
		"format":       format,
		"ignore_tests": ignoreTests,
	})

	file, err := config.Load(configPath)
	if err != nil {
		analytics.ReportEventWithProperties(analytics.ScanFailed, map[string]interface{}{"phase": "config"})
		return err
	}
	cfg, err := file.PolicyConfig()
	if err != nil {
		analytics.ReportEventWithProperties(analytics.ScanFailed, map[string]interface{}{"phase": "config"})
		return err
	}
	if failOnStr != "" {
		sev, err := config.ParseSeverityFlag(failOnStr)
		if err != nil {
			return err
		}
		cfg.FailOn = sev
	}
	cfg.IgnoreRules = append(cfg.IgnoreRules, ignoreRules...)
	if file.Scan.IgnoreTests {
		ignoreTests = true
	}

	logger := output.NewLogger(verbosityFor(verboseFlag))
	logger.StartProgress(fmt.Sprintf("scanning %s", absRoot), -1)
	findings, verdict, err := agentshield.Scan(absRoot, agentshield.Options{
		IgnoreTests: ignoreTests,
		Policy:      cfg,
	})
	logger.FinishProgress()

	if err != nil {
		analytics.ReportEventWithProperties(analytics.ScanFailed, map[string]interface{}{"phase": "scan"})
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := writeReport(w, format, findings, verdict); err != nil {
		return err
	}

	analytics.ReportEventWithProperties(analytics.ScanCompleted, map[string]interface{}{
		"format":          format,
		"finding_count":   len(findings),
		"verdict_pass":    verdict.Pass,
		"duration_millis": time.Since(startTime).Milliseconds(),
	})

	exitCode := output.DetermineExitCode(verdict.Pass, false)
	if exitCode != output.ExitCodeSuccess {
		os.Exit(int(exitCode))
	}
	return nil
}

func writeReport(w io.Writer, format string, findings []ir.Finding, verdict ir.PolicyVerdict) error {
	switch format {
	case "json":
		return output.NewJSONFormatterWithWriter(w).Format(findings, verdict, Version)
	case "sarif":
		return output.NewSARIFFormatterWithWriter(w).Format(findings)
	case "html":
		return output.NewHTMLFormatterWithWriter(w).Format(findings, verdict, Version)
	default:
		return output.NewTextFormatterWithWriter(w).Format(findings, verdict)
	}
}

func verbosityFor(verbose bool) output.VerbosityLevel {
	if verbose {
		return output.VerbosityVerbose
	}
	return output.VerbosityNormal
}
