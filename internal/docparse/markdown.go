package docparse

// mdState is the Markdown normalizer state.
type mdState int

const (
	mdNormal mdState = iota
	mdCodeBlock
)

// markdownScanner strips Markdown decoration in a single left-to-right pass.
type markdownScanner struct {
	src         []byte
	pos         int
	state       mdState
	atLineStart bool
	out         []byte
}

// NormalizeMarkdown removes header markers, emphasis and inline-code
// backticks while copying fenced code blocks verbatim. Underscores between
// two ASCII alphanumerics are kept so identifiers like mfa_enabled survive.
// The output is never longer than src.
func NormalizeMarkdown(src []byte) []byte {
	s := &markdownScanner{
		src:         src,
		state:       mdNormal,
		atLineStart: true,
		out:         make([]byte, 0, len(src)),
	}
	for s.pos < len(s.src) {
		s.step()
	}
	return s.out
}

// step consumes at least one input byte.
func (s *markdownScanner) step() {
	if s.atLineStart && s.isFence() {
		s.toggleFence()
		return
	}
	switch s.state {
	case mdCodeBlock:
		s.copyByte()
	default:
		s.stepNormal()
	}
}

func (s *markdownScanner) isFence() bool {
	return s.pos+2 < len(s.src) &&
		s.src[s.pos] == '`' && s.src[s.pos+1] == '`' && s.src[s.pos+2] == '`'
}

// toggleFence flips between normal text and a code block and drops the
// remainder of the fence line, newline included.
func (s *markdownScanner) toggleFence() {
	if s.state == mdCodeBlock {
		s.state = mdNormal
	} else {
		s.state = mdCodeBlock
	}
	s.pos += 3
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
	if s.pos < len(s.src) {
		s.pos++
	}
	s.atLineStart = true
}

func (s *markdownScanner) stepNormal() {
	c := s.src[s.pos]
	switch {
	case c == '#' && s.atLineStart:
		for s.pos < len(s.src) && (s.src[s.pos] == '#' || s.src[s.pos] == ' ') {
			s.pos++
		}
		s.atLineStart = false
	case c == '*':
		s.skipMarker('*')
	case c == '_':
		if s.wordInternal() {
			s.out = append(s.out, c)
			s.atLineStart = false
			s.pos++
			return
		}
		s.skipMarker('_')
	case c == '`':
		s.pos++
	default:
		s.copyByte()
	}
}

// skipMarker drops one emphasis byte and a second adjacent one if present.
func (s *markdownScanner) skipMarker(c byte) {
	s.pos++
	if s.pos < len(s.src) && s.src[s.pos] == c {
		s.pos++
	}
}

// wordInternal reports whether the byte at pos sits between two
// alphanumerics in the source.
func (s *markdownScanner) wordInternal() bool {
	prev := s.pos > 0 && isAlnum(s.src[s.pos-1])
	next := s.pos+1 < len(s.src) && isAlnum(s.src[s.pos+1])
	return prev && next
}

func (s *markdownScanner) copyByte() {
	c := s.src[s.pos]
	s.out = append(s.out, c)
	s.atLineStart = c == '\n'
	s.pos++
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// isSpace matches the C locale whitespace set.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
