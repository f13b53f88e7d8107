package docparse

import (
	"errors"
	"fmt"
)

// Kind classifies a parse failure.
type Kind int

const (
	// KindIO covers missing, unreadable, oversized or truncated files.
	KindIO Kind = iota + 1
	// KindFormat is a PDF without the %PDF- signature.
	KindFormat
	// KindAllocation is an output buffer that would grow past its limit.
	KindAllocation
	// KindNesting is a JSON document nested deeper than the configured limit.
	KindNesting
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindFormat:
		return "format error"
	case KindAllocation:
		return "allocation error"
	case KindNesting:
		return "nesting error"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is. A *ParseError matches the sentinel of its Kind.
var (
	ErrIO         = errors.New("io error")
	ErrFormat     = errors.New("format error")
	ErrAllocation = errors.New("allocation error")
	ErrNesting    = errors.New("nesting too deep")
)

var kindSentinels = map[Kind]error{
	KindIO:         ErrIO,
	KindFormat:     ErrFormat,
	KindAllocation: ErrAllocation,
	KindNesting:    ErrNesting,
}

// ParseError is the failure carried by an unsuccessful ParseResult.
type ParseError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Kind.
func (e *ParseError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func newError(kind Kind, path string, err error) *ParseError {
	return &ParseError{Kind: kind, Path: path, Err: err}
}

// asParseError converts err into a *ParseError, defaulting to fallback kind.
func asParseError(err error, path string, fallback Kind) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		if pe.Path == "" {
			pe.Path = path
		}
		return pe
	}
	return newError(fallback, path, err)
}
