package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lucasnoah/complyd/internal/checks"
	"github.com/lucasnoah/complyd/internal/docparse"
	"github.com/lucasnoah/complyd/internal/report"
)

// ParseInput is the input schema for parse_document.
type ParseInput struct {
	Path     string `json:"path" jsonschema:"path of the document to parse"`
	MaxBytes int    `json:"max_bytes,omitempty" jsonschema:"truncate returned content to this many bytes (0 returns everything)"`
}

// ParseOutput is the output schema for parse_document.
type ParseOutput struct {
	Path      string `json:"path"`
	Format    string `json:"format"`
	Success   bool   `json:"success"`
	Bytes     int    `json:"bytes"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
	Content   string `json:"content,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// ScanInput is the input schema for scan_document.
type ScanInput struct {
	Path      string   `json:"path" jsonschema:"path of the document to scan"`
	Framework string   `json:"framework,omitempty" jsonschema:"framework name (defaults to the configured framework)"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"minimum compliant score in percent"`
}

// ControlOutput is one control result in a scan.
type ControlOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Passed      bool   `json:"passed"`
	Severity    string `json:"severity"`
	Details     string `json:"details"`
	Remediation string `json:"remediation,omitempty"`
	Evidence    string `json:"evidence,omitempty"`
}

// ScanOutput is the output schema for scan_document.
type ScanOutput struct {
	ID        string          `json:"id"`
	Path      string          `json:"path"`
	Format    string          `json:"format"`
	Framework string          `json:"framework"`
	Passed    int             `json:"passed"`
	Failed    int             `json:"failed"`
	Score     float64         `json:"score"`
	Threshold float64         `json:"threshold"`
	Compliant bool            `json:"compliant"`
	ScannedAt string          `json:"scanned_at"`
	Controls  []ControlOutput `json:"controls"`
}

// DetectInput is the input schema for detect_format.
type DetectInput struct {
	Paths []string `json:"paths" jsonschema:"file names to classify"`
}

// DetectedFile is one classified path.
type DetectedFile struct {
	Path        string `json:"path"`
	Format      string `json:"format"`
	Passthrough bool   `json:"passthrough"`
}

// DetectOutput is the output schema for detect_format.
type DetectOutput struct {
	Files []DetectedFile `json:"files"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_document",
		Description: "Normalize a Markdown, JSON, PDF or plain-text document into the text the compliance rules search",
	}, s.handleParse)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scan_document",
		Description: "Parse a document and evaluate it against a compliance framework",
	}, s.handleScan)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_format",
		Description: "Classify file names by extension without reading them",
	}, s.handleDetect)
}

func (s *Server) handleParse(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ParseInput,
) (*mcp.CallToolResult, ParseOutput, error) {
	if input.Path == "" {
		return nil, ParseOutput{}, fmt.Errorf("path is required")
	}

	res := s.deps.Parser.Parse(input.Path)
	info := report.NewParseInfo(res, true)
	out := ParseOutput{
		Path:      info.Path,
		Format:    info.Format,
		Success:   info.Success,
		Bytes:     info.Bytes,
		Error:     info.Error,
		ErrorKind: info.Kind,
		Content:   info.Content,
	}
	if input.MaxBytes > 0 && res.Success {
		out.Content, out.Truncated = report.Preview(res.Content, input.MaxBytes)
	}
	return nil, out, nil
}

func (s *Server) handleScan(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ScanInput,
) (*mcp.CallToolResult, ScanOutput, error) {
	if input.Path == "" {
		return nil, ScanOutput{}, fmt.Errorf("path is required")
	}

	fw, err := checks.Resolve(s.deps.Config, input.Framework)
	if err != nil {
		return nil, ScanOutput{}, err
	}
	threshold := s.deps.Config.Scanner.Threshold
	if input.Threshold != nil {
		threshold = *input.Threshold
	}

	outcome, err := checks.ScanFile(s.deps.Parser, input.Path, fw, threshold)
	if err != nil {
		return nil, ScanOutput{}, err
	}
	rep := outcome.Report

	if s.deps.History != nil && s.deps.Config.Scanner.HistoryEnabled() {
		if err := s.deps.History.LogScan(rep); err != nil {
			slog.Warn("record scan history", "path", input.Path, "error", err)
		}
	}
	return nil, scanOutput(rep), nil
}

func (s *Server) handleDetect(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DetectInput,
) (*mcp.CallToolResult, DetectOutput, error) {
	out := DetectOutput{Files: make([]DetectedFile, len(input.Paths))}
	for i, p := range input.Paths {
		f := docparse.Detect(p)
		out.Files[i] = DetectedFile{Path: p, Format: f.String(), Passthrough: f.Passthrough()}
	}
	return nil, out, nil
}

func scanOutput(rep *checks.Report) ScanOutput {
	out := ScanOutput{
		ID:        rep.ID,
		Path:      rep.Source,
		Format:    rep.Format,
		Framework: rep.Framework,
		Passed:    rep.Passed,
		Failed:    rep.Failed,
		Score:     rep.Score,
		Threshold: rep.Threshold,
		Compliant: rep.Compliant,
		ScannedAt: rep.ScannedAt.Format(time.RFC3339),
		Controls:  make([]ControlOutput, len(rep.Results)),
	}
	for i, r := range rep.Results {
		out.Controls[i] = ControlOutput{
			ID:          r.ControlID,
			Name:        r.ControlName,
			Passed:      r.Passed,
			Severity:    r.Severity.String(),
			Details:     r.Details,
			Remediation: r.Remediation,
			Evidence:    r.Evidence,
		}
	}
	return out
}
