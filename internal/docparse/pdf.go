package docparse

import (
	"bytes"
	"fmt"
)

var pdfSignature = []byte("%PDF-")

// pdfState is the content-stream scanner state.
type pdfState int

const (
	pdfIdle   pdfState = iota // outside BT ... ET
	pdfText                   // inside a text object
	pdfString                 // inside a (...) string operand
)

// ExtractPDFText pulls literal string operands out of text objects by
// scanning the raw file for BT/ET operators. Strings are joined with single
// spaces and their escapes decoded. Compressed content streams are not
// inflated, so such files yield little or no text. Input without the %PDF-
// signature fails with ErrFormat before any extraction. limit caps the
// output size (<= 0 means unbounded) and yields ErrAllocation when crossed.
func ExtractPDFText(src []byte, limit int) ([]byte, error) {
	if !bytes.HasPrefix(src, pdfSignature) {
		return nil, fmt.Errorf("%w: missing %%PDF- signature", ErrFormat)
	}

	out := newOutBuffer(len(src)+1, limit)
	state := pdfIdle
	n := len(src)

	// The last byte is never examined: every operator needs a successor.
	for i := 0; i < n-1; i++ {
		c := src[i]

		if isTextOperator(src, i, 'B') {
			if state == pdfIdle {
				state = pdfText
			}
			i++
			continue
		}
		if isTextOperator(src, i, 'E') {
			state = pdfIdle
			i++
			continue
		}
		if state == pdfIdle {
			continue
		}

		escaped := i > 0 && src[i-1] == '\\'
		switch {
		case c == '(' && !escaped:
			state = pdfString
		case c == ')' && !escaped:
			state = pdfText
			if last, ok := out.last(); ok && last != '\n' {
				if err := out.appendByte(' '); err != nil {
					return nil, err
				}
			}
		case state == pdfString:
			if c == '\\' {
				i++
				c = unescapePDF(src[i])
			}
			if err := out.appendByte(c); err != nil {
				return nil, err
			}
		}
	}
	return out.bytes(), nil
}

// isTextOperator reports whether src[i:i+2] is "BT" (lead 'B') or "ET"
// (lead 'E') delimited by whitespace or the buffer edge on both sides.
func isTextOperator(src []byte, i int, lead byte) bool {
	if src[i] != lead || src[i+1] != 'T' {
		return false
	}
	if i > 0 && !isSpace(src[i-1]) {
		return false
	}
	return i+2 >= len(src) || isSpace(src[i+2])
}

func unescapePDF(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	}
	// \( \) \\ and unknown escapes all yield the escaped byte itself.
	return c
}
