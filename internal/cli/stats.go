package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/complyd/internal/analytics"
	"github.com/lucasnoah/complyd/internal/report"
)

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recorded scans by framework, control and file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		since, _ := cmd.Flags().GetString("since")
		top, _ := cmd.Flags().GetInt("top")
		format, _ := cmd.Flags().GetString("format")

		d, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		frameworks, err := analytics.QueryFrameworkSummaries(d, since)
		if err != nil {
			return err
		}
		controls, err := analytics.QueryControlFailureRates(d, since)
		if err != nil {
			return err
		}
		files, err := analytics.QueryFileSummaries(d, since)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if format == "json" {
			return report.WriteJSON(w, struct {
				Frameworks []analytics.FrameworkSummary   `json:"frameworks"`
				Controls   []analytics.ControlFailureRate `json:"controls"`
				Files      []analytics.FileSummary        `json:"files"`
			}{frameworks, controls, files})
		}

		if len(frameworks) == 0 {
			fmt.Fprintln(w, "No scans found.")
			return nil
		}

		fmt.Fprintln(w, "=== Frameworks ===")
		fmt.Fprintf(w, "%-12s %6s %6s %10s %7s %7s %7s\n", "FRAMEWORK", "SCANS", "FILES", "COMPLIANT", "AVG", "P50", "P95")
		for _, f := range frameworks {
			fmt.Fprintf(w, "%-12s %6d %6d %9.1f%% %7.1f %7.1f %7.1f\n",
				f.Framework, f.Scans, f.Files, f.Compliant, f.Avg, f.P50, f.P95)
		}

		fmt.Fprintln(w, "\n=== Most failed controls ===")
		fmt.Fprintf(w, "%-24s %-9s %7s %7s  %s\n", "CONTROL", "SEVERITY", "FAILED", "RATE", "NAME")
		for i, c := range controls {
			if i == top || c.Failed == 0 {
				break
			}
			fmt.Fprintf(w, "%-24s %-9s %7d %6.1f%%  %s\n", c.ControlID, c.Severity, c.Failed, c.FailRate, c.ControlName)
		}

		fmt.Fprintln(w, "\n=== Files ===")
		fmt.Fprintf(w, "%-7s %-6s %6s %7s %7s  %s\n", "LATEST", "RESULT", "SCANS", "BEST", "WORST", "FILE")
		for _, f := range files {
			result := "FAIL"
			if f.LatestCompliant {
				result = "PASS"
			}
			fmt.Fprintf(w, "%6.1f%% %-6s %6d %7.1f %7.1f  %s\n", f.LatestScore, result, f.Scans, f.Best, f.Worst, f.Path)
		}
		return nil
	},
}

var historyTrendCmd = &cobra.Command{
	Use:   "trend [file]",
	Short: "Show how a file's score changed across scans",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		points, err := analytics.QueryScoreTrend(d, args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(points) == 0 {
			fmt.Fprintf(w, "No scans found for %s.\n", args[0])
			return nil
		}
		fmt.Fprintf(w, "%-20s %-10s %7s %7s %s\n", "SCANNED", "FRAMEWORK", "SCORE", "DELTA", "")
		for _, p := range points {
			bar := strings.Repeat("#", int(p.Score/5))
			fmt.Fprintf(w, "%-20s %-10s %6.1f%% %+7.1f %s\n",
				p.ScannedAt.Local().Format(time.DateTime), p.Framework, p.Score, p.Delta, bar)
		}
		return nil
	},
}

func init() {
	historyStatsCmd.Flags().String("since", "", "Only include scans on or after this date (YYYY-MM-DD)")
	historyStatsCmd.Flags().Int("top", 10, "Number of failing controls to show")
	historyStatsCmd.Flags().String("format", "text", "Output format: text or json")

	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyTrendCmd)
}
