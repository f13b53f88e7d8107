package docparse

import (
	"path/filepath"
	"strings"
)

// Format identifies the document category that drives normalizer selection.
type Format int

const (
	FormatUnknown Format = iota
	FormatMarkdown
	FormatJSON
	FormatPDF
	FormatYAML
	FormatPlainText
)

var formatNames = map[Format]string{
	FormatUnknown:   "unknown",
	FormatMarkdown:  "markdown",
	FormatJSON:      "json",
	FormatPDF:       "pdf",
	FormatYAML:      "yaml",
	FormatPlainText: "text",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Passthrough reports whether files of this format are scanned as raw bytes.
func (f Format) Passthrough() bool {
	switch f {
	case FormatMarkdown, FormatJSON, FormatPDF:
		return false
	}
	return true
}

// extensionFormats maps lower-cased extensions (without the dot) to formats.
var extensionFormats = map[string]Format{
	"md":       FormatMarkdown,
	"markdown": FormatMarkdown,
	"json":     FormatJSON,
	"pdf":      FormatPDF,
	"yaml":     FormatYAML,
	"yml":      FormatYAML,
	"txt":      FormatPlainText,
	"conf":     FormatPlainText,
	"config":   FormatPlainText,
}

// Detect maps a filename to a Format using the text after the last '.' of its
// base name. A name without any '.' is plain text; an unrecognised extension
// is FormatUnknown. Detect does no I/O and never fails.
func Detect(filename string) Format {
	base := filepath.Base(filename)
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 {
		return FormatPlainText
	}
	ext := strings.ToLower(base[dot+1:])
	if f, ok := extensionFormats[ext]; ok {
		return f
	}
	return FormatUnknown
}

// SupportedExtensions returns the recognised extensions grouped by format,
// in a stable order suitable for help output.
func SupportedExtensions() map[Format][]string {
	return map[Format][]string{
		FormatMarkdown:  {".md", ".markdown"},
		FormatJSON:      {".json"},
		FormatPDF:       {".pdf"},
		FormatYAML:      {".yaml", ".yml"},
		FormatPlainText: {".txt", ".conf", ".config"},
	}
}
