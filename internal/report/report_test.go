package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasnoah/complyd/internal/checks"
	"github.com/lucasnoah/complyd/internal/docparse"
)

func parseFile(t *testing.T, name, content string) *docparse.ParseResult {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return docparse.New(docparse.Options{}).Parse(path)
}

func scan(t *testing.T, res *docparse.ParseResult) *checks.Report {
	t.Helper()
	fw, ok := checks.Builtin("hipaa")
	require.True(t, ok)
	rep := checks.Scan(res.Text(), fw, checks.DefaultThreshold)
	rep.Source = res.Path
	rep.Format = res.Format.String()
	return rep
}

func render(t *testing.T, res *docparse.ParseResult, rep *checks.Report, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	opts.Styles = PlainStyles()
	NewTextWriter(&buf, opts).Render(res, rep)
	return buf.String()
}

func TestRender_NonCompliant(t *testing.T) {
	res := parseFile(t, "policy.md", "# Security\n**encryption: enabled**\n")
	out := render(t, res, scan(t, res), Options{Version: "v1.2.3", Banner: true})

	assert.Contains(t, out, "Complyd Scanner v1.2.3")
	assert.Contains(t, out, "File type: Markdown")
	assert.Contains(t, out, "PARSING CONFIGURATION FILE")
	assert.Contains(t, out, "RUNNING HIPAA COMPLIANCE CHECKS")
	assert.Contains(t, out, "SCAN RESULTS")
	assert.Contains(t, out, "COMPLIANCE SUMMARY")
	assert.Contains(t, out, "[PASS] 164.312(a)(2)(iv) - Encryption and Decryption")
	assert.Contains(t, out, "Evidence: encryption: enabled")
	assert.Contains(t, out, "[FAIL] 164.312(d) - Person or Entity Authentication")
	assert.Contains(t, out, "Severity: CRITICAL")
	assert.Contains(t, out, "Remediation: Implement Multi-Factor Authentication (MFA) for all user accounts accessing PHI")
	assert.Contains(t, out, "Compliance Score: 12.5%")
	assert.Contains(t, out, "✗ FAILED - Configuration does not meet HIPAA compliance requirements")
	assert.Contains(t, out, "Please review and remediate")
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_Compliant(t *testing.T) {
	content := "encryption: enabled\naudit_log: enabled\nmfa_enabled: true\ntls: enabled\n" +
		"iam_enabled: true\nbackup: enabled\noffboarding: enabled\nidle_timeout: 15m\n"
	res := parseFile(t, "infra.yaml", content)
	out := render(t, res, scan(t, res), Options{})

	assert.NotContains(t, out, "Complyd Scanner")
	assert.Contains(t, out, "File type: YAML")
	assert.Contains(t, out, "Compliance Score: 100.0%")
	assert.Contains(t, out, "✓ PASSED - Configuration meets HIPAA compliance requirements")
	assert.NotContains(t, out, "Remediation:")
	assert.NotContains(t, out, "[FAIL]")
}

func TestRender_ParseFailure(t *testing.T) {
	res := parseFile(t, "fake.pdf", "plain text")
	out := render(t, res, nil, Options{})

	assert.Contains(t, out, "Error parsing file:")
	assert.Contains(t, out, "format error")
	assert.NotContains(t, out, "SCAN RESULTS")
}

func TestRender_PreviewTruncated(t *testing.T) {
	res := parseFile(t, "big.txt", strings.Repeat("x", 600))
	out := render(t, res, scan(t, res), Options{})

	assert.Contains(t, out, strings.Repeat("x", 500)+"\n... (truncated)")
	assert.NotContains(t, out, strings.Repeat("x", 501))
}

func TestRender_PreviewDisabled(t *testing.T) {
	res := parseFile(t, "small.txt", "tls: enabled\n")
	out := render(t, res, scan(t, res), Options{PreviewBytes: -1})
	assert.NotContains(t, out, "Parsed Configuration (preview):")
}

func TestPreview(t *testing.T) {
	got, cut := Preview([]byte("abc"), 5)
	assert.Equal(t, "abc", got)
	assert.False(t, cut)

	got, cut = Preview([]byte("abcdef"), 3)
	assert.Equal(t, "abc", got)
	assert.True(t, cut)

	// "é" is two bytes; cutting inside it backs off to the rune start.
	got, cut = Preview([]byte("aé"), 2)
	assert.Equal(t, "a", got)
	assert.True(t, cut)
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "Markdown", FormatName(docparse.FormatMarkdown))
	assert.Equal(t, "JSON", FormatName(docparse.FormatJSON))
	assert.Equal(t, "PDF", FormatName(docparse.FormatPDF))
	assert.Equal(t, "YAML", FormatName(docparse.FormatYAML))
	assert.Equal(t, "Text", FormatName(docparse.FormatPlainText))
	assert.Equal(t, "Unknown", FormatName(docparse.FormatUnknown))
}

func TestWriteJSONDocument(t *testing.T) {
	res := parseFile(t, "policy.json", `{"tls": "enabled"}`)
	rep := scan(t, res)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewDocument(res, rep)))

	var decoded struct {
		Parse  ParseInfo      `json:"parse"`
		Report *checks.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "json", decoded.Parse.Format)
	assert.True(t, decoded.Parse.Success)
	assert.Empty(t, decoded.Parse.Content)
	require.NotNil(t, decoded.Report)
	assert.Equal(t, 1, decoded.Report.Passed)
	assert.Equal(t, rep.ID, decoded.Report.ID)
}

func TestNewParseInfo_Failure(t *testing.T) {
	res := parseFile(t, "fake.pdf", "nope")
	info := NewParseInfo(res, true)
	assert.False(t, info.Success)
	assert.Equal(t, "format error", info.Kind)
	assert.NotEmpty(t, info.Error)
	assert.Empty(t, info.Content)
}

func TestNewParseInfo_WithContent(t *testing.T) {
	res := parseFile(t, "notes.md", "_hello_")
	info := NewParseInfo(res, true)
	assert.Equal(t, "hello", info.Content)
	assert.Equal(t, 5, info.Bytes)
}

func TestStyles(t *testing.T) {
	theme := DefaultTheme()
	assert.NotEmpty(t, string(theme.Accent))
	assert.NotEqual(t, theme.Success, theme.Error)

	var buf bytes.Buffer
	st := NewStyles(&buf, nil)
	require.NotNil(t, st)
	// a bytes.Buffer is not a terminal, so nothing is colourized
	assert.Equal(t, "PASS", st.Pass.Render("PASS"))
	assert.Equal(t, "x", PlainStyles().Fail.Render("x"))
}
