package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/complyd/internal/db"
	"github.com/lucasnoah/complyd/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded scans",
}

var historyListCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List recent scans, optionally for one file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		var path string
		if len(args) == 1 {
			path = args[0]
		}

		d, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		scans, err := d.ListScans(path, limit)
		if err != nil {
			return fmt.Errorf("list scans: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(scans) == 0 {
			fmt.Fprintln(w, "No scans found.")
			return nil
		}

		fmt.Fprintf(w, "%-36s %-20s %-8s %-7s %-6s %s\n",
			"ID", "SCANNED", "FRAMEWORK", "SCORE", "RESULT", "FILE")
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 100))
		for _, s := range scans {
			result := "FAIL"
			if s.Compliant {
				result = "PASS"
			}
			fmt.Fprintf(w, "%-36s %-20s %-8s %-7s %-6s %s\n",
				s.ID, s.ScannedAt.Local().Format(time.DateTime), s.Framework,
				fmt.Sprintf("%.1f%%", s.Score), result, s.Path)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [scan-id]",
	Short: "Show one recorded scan with its control results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		d, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		scan, err := d.GetScan(args[0])
		if err != nil {
			return fmt.Errorf("get scan: %w", err)
		}
		if scan == nil {
			return fmt.Errorf("no scan with id %q", args[0])
		}
		results, err := d.GetScanResults(scan.ID)
		if err != nil {
			return fmt.Errorf("get scan results: %w", err)
		}

		w := cmd.OutOrStdout()
		if format == "json" {
			return report.WriteJSON(w, struct {
				Scan    *db.Scan        `json:"scan"`
				Results []db.ScanResult `json:"results"`
			}{scan, results})
		}

		result := "FAIL"
		if scan.Compliant {
			result = "PASS"
		}
		fmt.Fprintf(w, "Scan:      %s\n", scan.ID)
		fmt.Fprintf(w, "File:      %s (%s, %d bytes)\n", scan.Path, scan.Format, scan.ContentBytes)
		fmt.Fprintf(w, "Framework: %s\n", scan.Framework)
		fmt.Fprintf(w, "Result:    %s\n", result)
		fmt.Fprintf(w, "Score:     %.1f%% (threshold %.1f%%)\n", scan.Score, scan.Threshold)
		fmt.Fprintf(w, "Passed:    %d\n", scan.Passed)
		fmt.Fprintf(w, "Failed:    %d\n", scan.Failed)
		fmt.Fprintf(w, "Scanned:   %s\n", scan.ScannedAt.Local().Format(time.RFC3339))
		fmt.Fprintln(w)
		for _, r := range results {
			status := "FAIL"
			if r.Passed {
				status = "PASS"
			}
			fmt.Fprintf(w, "[%s] %-24s %-9s %s\n", status, r.ControlID, r.Severity, r.ControlName)
			if !r.Passed && r.Remediation != "" {
				fmt.Fprintf(w, "       %s\n", r.Remediation)
			}
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [scan-id]",
	Short: "Delete one recorded scan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		deleted, err := d.DeleteScan(args[0])
		if err != nil {
			return fmt.Errorf("delete scan: %w", err)
		}
		if !deleted {
			return fmt.Errorf("no scan with id %q", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted scan %s\n", args[0])
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "Maximum number of scans to show")
	historyShowCmd.Flags().String("format", "text", "Output format: text or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}
