package docparse

import "fmt"

const minBufferCap = 64

// outBuffer is an append-only byte buffer that doubles its capacity when a
// write would not fit, failing once the capacity would exceed limit.
// A limit <= 0 means unbounded.
type outBuffer struct {
	buf   []byte
	limit int
}

func newOutBuffer(capacity, limit int) *outBuffer {
	if capacity < minBufferCap {
		capacity = minBufferCap
	}
	if limit > 0 && capacity > limit {
		capacity = limit
	}
	return &outBuffer{buf: make([]byte, 0, capacity), limit: limit}
}

// reserve makes room for n more bytes.
func (b *outBuffer) reserve(n int) error {
	need := len(b.buf) + n
	if need <= cap(b.buf) {
		return nil
	}
	if b.limit > 0 && need > b.limit {
		return fmt.Errorf("%w: output would reach %d bytes (limit %d)", ErrAllocation, need, b.limit)
	}
	newCap := cap(b.buf)
	if newCap < minBufferCap {
		newCap = minBufferCap
	}
	for newCap < need {
		newCap *= 2
	}
	if b.limit > 0 && newCap > b.limit {
		newCap = b.limit
	}
	grown := make([]byte, len(b.buf), newCap)
	copy(grown, b.buf)
	b.buf = grown
	return nil
}

func (b *outBuffer) appendByte(c byte) error {
	if err := b.reserve(1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

func (b *outBuffer) appendBytes(p []byte) error {
	if err := b.reserve(len(p)); err != nil {
		return err
	}
	b.buf = append(b.buf, p...)
	return nil
}

func (b *outBuffer) appendString(s string) error {
	if err := b.reserve(len(s)); err != nil {
		return err
	}
	b.buf = append(b.buf, s...)
	return nil
}

// last returns the most recently written byte.
func (b *outBuffer) last() (byte, bool) {
	if len(b.buf) == 0 {
		return 0, false
	}
	return b.buf[len(b.buf)-1], true
}

func (b *outBuffer) size() int {
	return len(b.buf)
}

// bytes returns the written bytes trimmed to their length.
func (b *outBuffer) bytes() []byte {
	return b.buf[:len(b.buf):len(b.buf)]
}
