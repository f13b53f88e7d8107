package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/complyd/internal/checks"
	"github.com/lucasnoah/complyd/internal/config"
	"github.com/lucasnoah/complyd/internal/pdfinfo"
	"github.com/lucasnoah/complyd/internal/report"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the controls of a compliance framework",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		framework, _ := cmd.Flags().GetString("framework")
		phrases, _ := cmd.Flags().GetBool("phrases")
		format, _ := cmd.Flags().GetString("format")

		fw, err := checks.Resolve(cfg, framework)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if format == "json" {
			return report.WriteJSON(w, fw)
		}

		fmt.Fprintf(w, "%s: %d controls\n", strings.ToUpper(fw.Name), len(fw.Controls))
		if fw.Description != "" {
			fmt.Fprintf(w, "%s\n", fw.Description)
		}
		fmt.Fprintf(w, "\n%-24s %-9s %s\n", "ID", "SEVERITY", "NAME")
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 70))
		for _, c := range fw.Controls {
			fmt.Fprintf(w, "%-24s %-9s %s\n", c.ID, c.Severity, c.Name)
			if phrases {
				for _, m := range c.Match {
					fmt.Fprintf(w, "%-24s %-9s   %q\n", "", "", m)
				}
			}
		}

		others := checks.BuiltinNames()
		for _, f := range cfg.Frameworks {
			others = append(others, f.Name)
		}
		fmt.Fprintf(w, "\nAvailable frameworks: %s\n", strings.Join(others, ", "))
		return nil
	},
}

var kvCmd = &cobra.Command{
	Use:   "kv [file]",
	Short: "Read a flat key: value file and print its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		items, err := config.LoadKeyValues(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if format == "json" {
			return report.WriteJSON(w, items)
		}
		fmt.Fprint(w, config.FormatKeyValues(items))
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file.pdf]",
	Short: "Report PDF structure that affects text extraction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		info, err := pdfinfo.Inspect(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if format == "json" {
			return report.WriteJSON(w, info)
		}
		fmt.Fprintf(w, "File:        %s\n", info.Path)
		fmt.Fprintf(w, "Pages:       %d\n", info.Pages)
		fmt.Fprintf(w, "Streams:     %d (%d compressed)\n", info.Streams, info.CompressedStreams)
		if names := info.FilterNames(); len(names) > 0 {
			fmt.Fprintf(w, "Filters:     %s\n", strings.Join(names, ", "))
		}
		fmt.Fprintf(w, "Images:      %d\n", info.Images)
		fmt.Fprintf(w, "Text bytes:  %d\n", info.TextBytes)
		if info.LikelyDegraded {
			fmt.Fprintf(w, "Extraction:  likely degraded\n")
			for _, r := range info.Reasons {
				fmt.Fprintf(w, "  - %s\n", r)
			}
		} else {
			fmt.Fprintf(w, "Extraction:  ok\n")
		}
		return nil
	},
}

func init() {
	rulesCmd.Flags().String("framework", "", "Framework to list (default from config)")
	rulesCmd.Flags().Bool("phrases", false, "Show the phrases each control matches")
	rulesCmd.Flags().String("format", "text", "Output format: text or json")

	kvCmd.Flags().String("format", "text", "Output format: text or json")

	inspectCmd.Flags().String("format", "text", "Output format: text or json")
}
