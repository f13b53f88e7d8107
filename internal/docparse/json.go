package docparse

import "fmt"

// DefaultMaxNestingDepth bounds how many objects may be open at once.
const DefaultMaxNestingDepth = 128

// JSONOptions bounds FlattenJSON.
type JSONOptions struct {
	// MaxNestingDepth is the deepest object level accepted; <= 0 uses the default.
	MaxNestingDepth int
	// MaxOutputBytes caps the flattened output; <= 0 means unbounded.
	MaxOutputBytes int
}

// jsonFlattener walks the document with a single cursor. Object nesting is
// tracked by a counter so adversarial input cannot exhaust the stack.
type jsonFlattener struct {
	src      []byte
	pos      int
	depth    int
	maxDepth int
	out      *outBuffer
}

// FlattenJSON rewrites a JSON document as key/value lines: "key: value\n"
// for scalar members and "key: " followed by the flattened members for
// nested objects. Array values are dropped, and bytes that fit no
// construct are skipped. Malformed input degrades rather than fails; the
// only errors are ErrNesting and ErrAllocation.
func FlattenJSON(src []byte, opts JSONOptions) ([]byte, error) {
	maxDepth := opts.MaxNestingDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxNestingDepth
	}
	f := &jsonFlattener{
		src:      src,
		maxDepth: maxDepth,
		out:      newOutBuffer(2*len(src), opts.MaxOutputBytes),
	}
	if err := f.run(); err != nil {
		return nil, err
	}
	return f.out.bytes(), nil
}

func (f *jsonFlattener) run() error {
	for f.pos < len(f.src) {
		c := f.src[f.pos]
		switch {
		case isSpace(c), c == ',':
			f.pos++
		case c == '{':
			f.pos++
			f.depth++
			if f.depth > f.maxDepth {
				return fmt.Errorf("%w: object depth exceeds %d at offset %d", ErrNesting, f.maxDepth, f.pos-1)
			}
		case c == '}':
			f.pos++
			if f.depth > 0 {
				f.depth--
			}
		case c == '[':
			f.skipArray()
		case c == '"':
			if err := f.str(); err != nil {
				return err
			}
		case isAlnum(c) || c == '-' || c == '.':
			if err := f.bare(); err != nil {
				return err
			}
		default:
			f.pos++
		}
	}
	return nil
}

// skipArray drops an array and everything nested in it by bracket counting.
func (f *jsonFlattener) skipArray() {
	f.pos++
	open := 1
	for f.pos < len(f.src) && open > 0 {
		switch f.src[f.pos] {
		case '[':
			open++
		case ']':
			open--
		}
		f.pos++
	}
}

// str emits the raw bytes of a quoted string. A string followed by ':' is a
// key and gets ": "; anything else is a value and ends the line.
func (f *jsonFlattener) str() error {
	f.pos++
	start := f.pos
	for f.pos < len(f.src) && f.src[f.pos] != '"' {
		if f.src[f.pos] == '\\' {
			f.pos++
		}
		f.pos++
	}
	if f.pos > len(f.src) {
		f.pos = len(f.src)
	}
	if err := f.out.appendBytes(f.src[start:f.pos]); err != nil {
		return err
	}
	if f.pos < len(f.src) {
		f.pos++
	}
	f.skipSpace()

	if f.pos < len(f.src) && f.src[f.pos] == ':' {
		f.pos++
		if err := f.out.appendString(": "); err != nil {
			return err
		}
		f.skipSpace()
		return nil
	}
	return f.out.appendByte('\n')
}

// bare copies a number, boolean or null token.
func (f *jsonFlattener) bare() error {
	start := f.pos
	for f.pos < len(f.src) {
		c := f.src[f.pos]
		if !isAlnum(c) && c != '-' && c != '.' {
			break
		}
		f.pos++
	}
	if err := f.out.appendBytes(f.src[start:f.pos]); err != nil {
		return err
	}
	return f.out.appendByte('\n')
}

func (f *jsonFlattener) skipSpace() {
	for f.pos < len(f.src) && isSpace(f.src[f.pos]) {
		f.pos++
	}
}
