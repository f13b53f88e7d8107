package report

import (
	"encoding/json"
	"io"

	"github.com/lucasnoah/complyd/internal/checks"
	"github.com/lucasnoah/complyd/internal/docparse"
)

// ParseInfo is the JSON view of a parse.
type ParseInfo struct {
	Path    string `json:"path" yaml:"path"`
	Format  string `json:"format" yaml:"format"`
	Success bool   `json:"success" yaml:"success"`
	Bytes   int    `json:"bytes" yaml:"bytes"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Kind    string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Document is the machine-readable scan output.
type Document struct {
	Parse  ParseInfo      `json:"parse" yaml:"parse"`
	Report *checks.Report `json:"report,omitempty" yaml:"report,omitempty"`
}

// NewParseInfo summarizes res. The normalized text is included only when
// withContent is set.
func NewParseInfo(res *docparse.ParseResult, withContent bool) ParseInfo {
	info := ParseInfo{
		Path:    res.Path,
		Format:  res.Format.String(),
		Success: res.Success,
		Bytes:   res.Len(),
	}
	if res.Err != nil {
		info.Error = res.ErrorMessage()
		info.Kind = res.Err.Kind.String()
	}
	if withContent && res.Success {
		info.Content = res.Text()
	}
	return info
}

// NewDocument builds the JSON document for a scan.
func NewDocument(res *docparse.ParseResult, rep *checks.Report) Document {
	return Document{Parse: NewParseInfo(res, false), Report: rep}
}

// WriteJSON encodes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
