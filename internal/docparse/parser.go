package docparse

import (
	"errors"
	"fmt"
	"log/slog"
)

// Default limits.
const (
	DefaultMaxFileSize    int64 = 100 << 20
	DefaultMaxOutputBytes       = 256 << 20
)

// ParseResult is the outcome of parsing one file. Exactly one of Content
// (with Success set) or Err is populated.
type ParseResult struct {
	Path    string
	Format  Format
	Content []byte
	Success bool
	Err     *ParseError
}

// Len is the number of normalized bytes.
func (r *ParseResult) Len() int {
	return len(r.Content)
}

// Text returns the normalized content as a string.
func (r *ParseResult) Text() string {
	return string(r.Content)
}

// ErrorMessage returns the failure description, or "" on success.
func (r *ParseResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Normalizer turns raw file bytes into canonical scan text.
type Normalizer interface {
	Normalize(src []byte) ([]byte, error)
}

// NormalizerFunc adapts a plain function to Normalizer.
type NormalizerFunc func(src []byte) ([]byte, error)

func (f NormalizerFunc) Normalize(src []byte) ([]byte, error) {
	return f(src)
}

// Options configures a Parser. Zero values select the defaults.
type Options struct {
	MaxFileSize     int64
	MaxOutputBytes  int
	MaxNestingDepth int
	Logger          *slog.Logger
}

func (o *Options) defaults() {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.MaxOutputBytes <= 0 {
		o.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if o.MaxNestingDepth <= 0 {
		o.MaxNestingDepth = DefaultMaxNestingDepth
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Parser dispatches files to the normalizer registered for their format.
// It is immutable after New and safe for concurrent use.
type Parser struct {
	opts        Options
	normalizers map[Format]Normalizer
}

// New creates a Parser with the Markdown, JSON and PDF normalizers.
func New(opts Options) *Parser {
	opts.defaults()
	p := &Parser{
		opts:        opts,
		normalizers: make(map[Format]Normalizer),
	}
	p.normalizers[FormatMarkdown] = NormalizerFunc(func(src []byte) ([]byte, error) {
		return NormalizeMarkdown(src), nil
	})
	p.normalizers[FormatJSON] = NormalizerFunc(func(src []byte) ([]byte, error) {
		return FlattenJSON(src, JSONOptions{
			MaxNestingDepth: p.opts.MaxNestingDepth,
			MaxOutputBytes:  p.opts.MaxOutputBytes,
		})
	})
	p.normalizers[FormatPDF] = NormalizerFunc(func(src []byte) ([]byte, error) {
		return ExtractPDFText(src, p.opts.MaxOutputBytes)
	})
	return p
}

var defaultParser = New(Options{})

// Parse parses path with default options.
func Parse(path string) *ParseResult {
	return defaultParser.Parse(path)
}

// Options returns the effective options.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse detects the format of path and returns its canonical text. Formats
// without a normalizer, including unknown ones, are passed through raw.
// Parse never panics on bad input; failures are reported in the result.
func (p *Parser) Parse(path string) *ParseResult {
	format := Detect(path)
	log := p.opts.Logger.With("path", path, "format", format.String())
	log.Debug("parsing document")

	n, ok := p.normalizers[format]
	if !ok {
		return p.passthrough(path, format)
	}
	res := p.normalize(path, format, n)
	if res.Success && format == FormatPDF && res.Len() == 0 {
		log.Warn("no text extracted from PDF; content streams may be compressed")
	}
	return res
}

// ParseMarkdown parses path as Markdown regardless of its extension.
func (p *Parser) ParseMarkdown(path string) *ParseResult {
	return p.normalize(path, FormatMarkdown, p.normalizers[FormatMarkdown])
}

// ParseJSON parses path as JSON regardless of its extension.
func (p *Parser) ParseJSON(path string) *ParseResult {
	return p.normalize(path, FormatJSON, p.normalizers[FormatJSON])
}

// ParsePDF parses path as PDF regardless of its extension.
func (p *Parser) ParsePDF(path string) *ParseResult {
	return p.normalize(path, FormatPDF, p.normalizers[FormatPDF])
}

func (p *Parser) passthrough(path string, format Format) *ParseResult {
	raw, err := ReadRaw(path, p.opts.MaxFileSize)
	if err != nil {
		return failed(path, format, asParseError(err, path, KindIO))
	}
	return &ParseResult{Path: path, Format: format, Content: raw, Success: true}
}

func (p *Parser) normalize(path string, format Format, n Normalizer) *ParseResult {
	raw, err := ReadRaw(path, p.opts.MaxFileSize)
	if err != nil {
		return failed(path, format, asParseError(err, path, KindIO))
	}
	out, err := n.Normalize(raw)
	if err != nil {
		return failed(path, format, classify(err, path))
	}
	if out == nil {
		out = []byte{}
	}
	return &ParseResult{Path: path, Format: format, Content: out, Success: true}
}

// classify maps a normalizer error onto its Kind by sentinel.
func classify(err error, path string) *ParseError {
	for _, kind := range []Kind{KindNesting, KindAllocation, KindFormat, KindIO} {
		if errors.Is(err, kindSentinels[kind]) {
			return newError(kind, path, err)
		}
	}
	return asParseError(err, path, KindFormat)
}

func failed(path string, format Format, pe *ParseError) *ParseResult {
	return &ParseResult{
		Path:   path,
		Format: format,
		Err:    pe,
	}
}

// String renders a short summary used in logs and debug output.
func (r *ParseResult) String() string {
	if !r.Success {
		return fmt.Sprintf("%s (%s): failed: %s", r.Path, r.Format, r.ErrorMessage())
	}
	return fmt.Sprintf("%s (%s): %d bytes", r.Path, r.Format, r.Len())
}
