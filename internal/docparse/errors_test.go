package docparse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError_IsByKind(t *testing.T) {
	err := newError(KindFormat, "x.pdf", errors.New("bad header"))

	assert.ErrorIs(t, err, ErrFormat)
	assert.NotErrorIs(t, err, ErrIO)
	assert.Equal(t, "format error: x.pdf: bad header", err.Error())
}

func TestParseError_Wrapped(t *testing.T) {
	inner := errors.New("disk gone")
	err := fmt.Errorf("scan: %w", newError(KindIO, "a.json", inner))

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, inner)
}

func TestParseError_NoPath(t *testing.T) {
	err := newError(KindNesting, "", errors.New("depth 129"))
	assert.Equal(t, "nesting error: depth 129", err.Error())
}

func TestAsParseError(t *testing.T) {
	pe := asParseError(errors.New("plain"), "f.md", KindIO)
	assert.Equal(t, KindIO, pe.Kind)
	assert.Equal(t, "f.md", pe.Path)

	orig := newError(KindAllocation, "", errors.New("full"))
	pe = asParseError(fmt.Errorf("wrap: %w", orig), "g.json", KindIO)
	assert.Same(t, orig, pe)
	assert.Equal(t, "g.json", pe.Path)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "io error", KindIO.String())
	assert.Equal(t, "format error", KindFormat.String())
	assert.Equal(t, "allocation error", KindAllocation.String())
	assert.Equal(t, "nesting error", KindNesting.String())
	assert.Equal(t, "unknown error", Kind(0).String())
}
