package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/lucasnoah/complyd/internal/checks"
	"github.com/lucasnoah/complyd/internal/docparse"
)

const lineWidth = 80

// DefaultPreviewBytes is how much normalized content the text report shows.
const DefaultPreviewBytes = 500

// Options controls the text report.
type Options struct {
	Version      string
	PreviewBytes int
	Banner       bool
	Styles       *Styles
}

// FormatName is the human-readable name of a document format.
func FormatName(f docparse.Format) string {
	switch f {
	case docparse.FormatMarkdown:
		return "Markdown"
	case docparse.FormatJSON:
		return "JSON"
	case docparse.FormatPDF:
		return "PDF"
	case docparse.FormatYAML:
		return "YAML"
	case docparse.FormatPlainText:
		return "Text"
	}
	return "Unknown"
}

// TextWriter renders a scan as the sectioned terminal report.
type TextWriter struct {
	w    io.Writer
	opts Options
	st   *Styles
}

// NewTextWriter creates a TextWriter. Nil Styles selects colour styles bound to w.
func NewTextWriter(w io.Writer, opts Options) *TextWriter {
	if opts.PreviewBytes == 0 {
		opts.PreviewBytes = DefaultPreviewBytes
	}
	st := opts.Styles
	if st == nil {
		st = NewStyles(w, nil)
	}
	return &TextWriter{w: w, opts: opts, st: st}
}

func (t *TextWriter) printf(format string, args ...any) {
	fmt.Fprintf(t.w, format, args...)
}

func (t *TextWriter) line(c string) {
	t.printf("%s\n", strings.Repeat(c, lineWidth))
}

func (t *TextWriter) box(title string) {
	t.printf("\n")
	t.line("=")
	t.printf("%s\n", t.st.Title.Render(title))
	t.line("=")
}

// Banner prints the product name and version.
func (t *TextWriter) Banner() {
	t.printf("%s\n\n", t.st.Title.Render("Complyd Scanner "+t.opts.Version))
}

// Header prints the file being scanned and its detected type.
func (t *TextWriter) Header(path string, format docparse.Format) {
	t.printf("%s %s\n", t.st.Label.Render("Scanning file:"), path)
	t.printf("%s %s\n", t.st.Label.Render("File type:"), FormatName(format))
}

// Parse prints the parse outcome and, on success, a preview of the
// normalized content.
func (t *TextWriter) Parse(res *docparse.ParseResult) {
	t.box("PARSING CONFIGURATION FILE")
	if !res.Success {
		t.printf("%s %s\n", t.st.Fail.Render("Error parsing file:"), res.ErrorMessage())
		return
	}
	t.printf("%s\n", t.st.Pass.Render(fmt.Sprintf("✓ Successfully parsed file (%d bytes)", res.Len())))

	if t.opts.PreviewBytes < 0 {
		return
	}
	t.printf("\n%s\n", t.st.Label.Render("Parsed Configuration (preview):"))
	t.line("-")
	preview, truncated := Preview(res.Content, t.opts.PreviewBytes)
	t.printf("%s", renderLines(t.st.Preview, preview))
	if truncated {
		t.printf("\n... (truncated)")
	}
	t.printf("\n")
	t.line("-")
}

// Results prints one card per evaluated control.
func (t *TextWriter) Results(rep *checks.Report) {
	t.box(fmt.Sprintf("RUNNING %s COMPLIANCE CHECKS", strings.ToUpper(rep.Framework)))
	t.box("SCAN RESULTS")
	for _, r := range rep.Results {
		t.card(r)
	}
}

func (t *TextWriter) card(r checks.Result) {
	status := t.st.Pass.Render("PASS")
	if !r.Passed {
		status = t.st.Fail.Render("FAIL")
	}
	t.printf("\n┌─ [%s] %s\n", status, t.st.Label.Render(r.ControlID+" - "+r.ControlName))
	t.printf("│  %s %s\n", t.st.Label.Render("Severity:"), r.Severity)
	if r.Details != "" {
		t.printf("│  %s %s\n", t.st.Label.Render("Details:"), r.Details)
	}
	if r.Passed && r.Evidence != "" {
		t.printf("│  %s %s\n", t.st.Label.Render("Evidence:"), t.st.Muted.Render(r.Evidence))
	}
	if !r.Passed && r.Remediation != "" {
		t.printf("│  %s %s\n", t.st.Warning.Render("Remediation:"), r.Remediation)
	}
	t.printf("└%s\n", strings.Repeat("─", 65))
}

// Summary prints totals, the score and the verdict.
func (t *TextWriter) Summary(path string, format docparse.Format, rep *checks.Report) {
	t.box("COMPLIANCE SUMMARY")
	fw := strings.ToUpper(rep.Framework)

	t.printf("\n")
	t.printf("  File:             %s\n", t.st.Label.Render(path))
	t.printf("  File Type:        %s\n", t.st.Label.Render(FormatName(format)))
	t.printf("  Framework:        %s\n", t.st.Label.Render(rep.Framework))
	t.printf("  Total Checks:     %s\n", t.st.Label.Render(fmt.Sprint(rep.Total())))
	t.printf("  %s           %s\n", t.st.Pass.Render("Passed:"), t.st.Label.Render(fmt.Sprint(rep.Passed)))
	t.printf("  %s           %s\n", t.st.Fail.Render("Failed:"), t.st.Label.Render(fmt.Sprint(rep.Failed)))

	scoreStyle := t.st.Fail
	if rep.Compliant {
		scoreStyle = t.st.Pass
	}
	t.printf("  Compliance Score: %s (threshold %.1f%%)\n",
		scoreStyle.Render(fmt.Sprintf("%.1f%%", rep.Score)), rep.Threshold)
	t.printf("\n")

	if rep.Compliant {
		t.printf("  %s\n", t.st.Pass.Render(fmt.Sprintf("✓ PASSED - Configuration meets %s compliance requirements", fw)))
	} else {
		t.printf("  %s\n", t.st.Fail.Render(fmt.Sprintf("✗ FAILED - Configuration does not meet %s compliance requirements", fw)))
		t.printf("  %s\n", t.st.Warning.Render("Please review and remediate the failed checks above"))
	}
	t.line("=")
	t.printf("\n")
}

// Render prints the full report for a parse and its scan. rep may be nil
// when the parse failed.
func (t *TextWriter) Render(res *docparse.ParseResult, rep *checks.Report) {
	if t.opts.Banner {
		t.Banner()
	}
	t.Header(res.Path, res.Format)
	t.Parse(res)
	if rep == nil {
		return
	}
	t.Results(rep)
	t.Summary(res.Path, res.Format, rep)
}

// renderLines styles each line on its own so multi-line text is not
// padded into a block.
func renderLines(st lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = st.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// Preview returns at most n bytes of content without splitting a UTF-8
// sequence, and whether anything was cut.
func Preview(content []byte, n int) (string, bool) {
	if len(content) <= n {
		return string(content), false
	}
	cut := n
	for cut > 0 && cut < len(content) && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return string(content[:cut]), true
}
