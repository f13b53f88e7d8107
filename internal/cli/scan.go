package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lucasnoah/complyd/internal/artifact"
	"github.com/lucasnoah/complyd/internal/checks"
	"github.com/lucasnoah/complyd/internal/docparse"
	"github.com/lucasnoah/complyd/internal/report"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Parse a document and check it against a compliance framework",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		framework, _ := cmd.Flags().GetString("framework")
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		noHistory, _ := cmd.Flags().GetBool("no-history")
		noColor, _ := cmd.Flags().GetBool("no-color")
		preview, _ := cmd.Flags().GetInt("preview")

		threshold := cfg.Scanner.Threshold
		if cmd.Flags().Changed("threshold") {
			threshold, _ = cmd.Flags().GetFloat64("threshold")
		}
		if !cmd.Flags().Changed("preview") {
			preview = cfg.Scanner.PreviewBytes
		}
		if format != "text" && format != "json" {
			return fmt.Errorf("invalid format %q: must be text or json", format)
		}

		fw, err := checks.Resolve(cfg, framework)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		outcome, scanErr := checks.ScanFile(newParser(), path, fw, threshold)
		res, rep := outcome.Parse, outcome.Report

		w := cmd.OutOrStdout()
		opts := report.Options{Version: version, PreviewBytes: preview, Banner: true}
		if format == "json" {
			if err := report.WriteJSON(w, report.NewDocument(res, rep)); err != nil {
				return fmt.Errorf("write json: %w", err)
			}
		} else {
			opts.Styles = stylesFor(w, noColor)
			report.NewTextWriter(w, opts).Render(res, rep)
		}

		if outPath != "" {
			if err := writeArtifact(outPath, res, rep, opts); err != nil {
				return err
			}
		}
		if scanErr != nil {
			return scanErr
		}

		if !noHistory && cfg.Scanner.HistoryEnabled() {
			recordScan(rep)
		}

		if !rep.Compliant {
			return fmt.Errorf("%s does not meet %s requirements: score %.1f%% below threshold %.1f%%",
				path, fw.Name, rep.Score, rep.Threshold)
		}
		return nil
	},
}

// stylesFor picks colour styles only when w is a terminal and colour is allowed.
func stylesFor(w io.Writer, noColor bool) *report.Styles {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return report.PlainStyles()
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return report.PlainStyles()
	}
	return report.NewStyles(w, nil)
}

// writeArtifact saves the scan to path, encoded by its extension. Text
// artifacts get the uncoloured terminal report.
func writeArtifact(path string, res *docparse.ParseResult, rep *checks.Report, opts report.Options) error {
	var text bytes.Buffer
	opts.Styles = report.PlainStyles()
	report.NewTextWriter(&text, opts).Render(res, rep)
	if err := artifact.Write(path, report.NewDocument(res, rep), text.String()); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	slog.Debug("report written", "path", path)
	return nil
}

// recordScan logs rep to the history database. Failures are warnings: the
// scan result stands on its own.
func recordScan(rep *checks.Report) {
	d, cleanup, err := openDB()
	if err != nil {
		slog.Warn("open history database", "error", err)
		return
	}
	defer cleanup()
	if err := d.LogScan(rep); err != nil {
		slog.Warn("record scan history", "id", rep.ID, "error", err)
	}
}

func init() {
	scanCmd.Flags().String("framework", "", "Compliance framework (default from config, then hipaa)")
	scanCmd.Flags().Float64("threshold", 0, "Minimum compliant score in percent (default from config)")
	scanCmd.Flags().String("format", "text", "Output format: text or json")
	scanCmd.Flags().String("out", "", "Also write the report to this file (.json, .yaml or text)")
	scanCmd.Flags().Bool("no-history", false, "Do not record the scan in the history database")
	scanCmd.Flags().Bool("no-color", false, "Disable coloured output")
	scanCmd.Flags().Int("preview", 0, "Bytes of normalized content to preview; negative hides it (default from config)")
}
