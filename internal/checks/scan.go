package checks

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lucasnoah/complyd/internal/docparse"
)

// DefaultThreshold is the minimum score, in percent, for a compliant scan.
const DefaultThreshold = 80.0

// Result is the outcome of evaluating one control.
type Result struct {
	ControlID   string   `json:"control_id" yaml:"control_id"`
	ControlName string   `json:"control_name" yaml:"control_name"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Passed      bool     `json:"passed" yaml:"passed"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Details     string   `json:"details" yaml:"details"`
	Remediation string   `json:"remediation,omitempty" yaml:"remediation,omitempty"`
	Evidence    string   `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Evaluate checks content for the control's phrases with a case-sensitive
// substring search. The first phrase found is kept as evidence.
func Evaluate(content string, c Control) Result {
	r := Result{
		ControlID:   c.ID,
		ControlName: c.Name,
		Category:    c.Category,
	}
	for _, phrase := range c.Match {
		if phrase != "" && strings.Contains(content, phrase) {
			r.Passed = true
			r.Evidence = phrase
			break
		}
	}
	if r.Passed {
		r.Severity = SeverityInfo
		r.Details = c.PassDetail
		return r
	}
	r.Severity = c.Severity
	r.Details = c.FailDetail
	r.Remediation = c.Remediation
	return r
}

// Scan evaluates every control of fw against content in framework order.
func Scan(content string, fw *Framework, threshold float64) *Report {
	rep := &Report{
		ID:        uuid.NewString(),
		Framework: fw.Name,
		Threshold: threshold,
		ScannedAt: time.Now().UTC(),
		Results:   make([]Result, 0, len(fw.Controls)),
	}
	for _, c := range fw.Controls {
		r := Evaluate(content, c)
		if r.Passed {
			rep.Passed++
		} else {
			rep.Failed++
		}
		rep.Results = append(rep.Results, r)
	}
	if total := len(rep.Results); total > 0 {
		rep.Score = float64(rep.Passed) / float64(total) * 100
	}
	rep.Compliant = rep.Score >= threshold
	return rep
}

// ScanOutcome pairs a parse with the report built from it. Report is nil
// when the parse failed.
type ScanOutcome struct {
	Parse  *docparse.ParseResult
	Report *Report
}

// ScanFile parses path and scans its normalized text. A failed parse is
// returned both in the outcome and as the error.
func ScanFile(parser *docparse.Parser, path string, fw *Framework, threshold float64) (*ScanOutcome, error) {
	res := parser.Parse(path)
	out := &ScanOutcome{Parse: res}
	if !res.Success {
		return out, fmt.Errorf("parse %s: %w", path, res.Err)
	}

	rep := Scan(res.Text(), fw, threshold)
	rep.Source = path
	rep.Format = res.Format.String()
	rep.ContentBytes = res.Len()
	out.Report = rep

	slog.Debug("scan complete",
		"path", path,
		"framework", fw.Name,
		"passed", rep.Passed,
		"failed", rep.Failed,
		"score", rep.Score,
	)
	return out, nil
}
