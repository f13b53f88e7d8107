package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/complyd/internal/docparse"
	"github.com/lucasnoah/complyd/internal/report"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Print the normalized text the rules are matched against",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, _ := cmd.Flags().GetString("format")
		as, _ := cmd.Flags().GetString("as")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid format %q: must be text or json", format)
		}

		p := newParser()
		var res *docparse.ParseResult
		switch as {
		case "":
			res = p.Parse(path)
		case "markdown", "md":
			res = p.ParseMarkdown(path)
		case "json":
			res = p.ParseJSON(path)
		case "pdf":
			res = p.ParsePDF(path)
		default:
			return fmt.Errorf("invalid --as %q: must be markdown, json or pdf", as)
		}
		cmd.SilenceUsage = true

		w := cmd.OutOrStdout()
		if format == "json" {
			if err := report.WriteJSON(w, report.NewParseInfo(res, true)); err != nil {
				return fmt.Errorf("write json: %w", err)
			}
		} else if res.Success {
			w.Write(res.Content)
		}
		if !res.Success {
			return res.Err
		}
		return nil
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect [files...]",
	Short: "Show the format each file name maps to",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetBool("list")
		w := cmd.OutOrStdout()

		if list {
			exts := docparse.SupportedExtensions()
			formats := make([]docparse.Format, 0, len(exts))
			for f := range exts {
				formats = append(formats, f)
			}
			sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
			for _, f := range formats {
				fmt.Fprintf(w, "%-10s %s\n", report.FormatName(f), strings.Join(exts[f], " "))
			}
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("requires at least 1 file name, or --list")
		}

		fmt.Fprintf(w, "%-40s %-10s %s\n", "FILE", "FORMAT", "MODE")
		for _, name := range args {
			f := docparse.Detect(name)
			mode := "normalized"
			if f.Passthrough() {
				mode = "raw"
			}
			fmt.Fprintf(w, "%-40s %-10s %s\n", name, f, mode)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().String("format", "text", "Output format: text or json")
	parseCmd.Flags().String("as", "", "Force a parser regardless of extension: markdown, json or pdf")

	detectCmd.Flags().Bool("list", false, "List recognised file extensions")
}
