package docparse

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// ReadRaw loads the whole file into memory in one pass. The buffer is sized
// from the file length when it is known and falls back to streaming reads
// otherwise. When maxSize > 0, files larger than maxSize are rejected.
// Every failure is a *ParseError of KindIO and no partial data is returned.
func ReadRaw(path string, maxSize int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(KindIO, path, fmt.Errorf("open: %w", err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, newError(KindIO, path, fmt.Errorf("stat: %w", err))
	}
	if info.IsDir() {
		return nil, newError(KindIO, path, fmt.Errorf("is a directory"))
	}

	size := info.Size()
	if maxSize > 0 && size > maxSize {
		return nil, newError(KindIO, path, fmt.Errorf("file too large: %d bytes (max %d)", size, maxSize))
	}

	var buf bytes.Buffer
	if size > 0 {
		// One extra byte so a file read at its exact size hits EOF without a regrow.
		buf.Grow(int(size) + 1)
	}

	var r io.Reader = f
	if maxSize > 0 {
		// Guard against files that grow between Stat and the read.
		r = io.LimitReader(f, maxSize+1)
	}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, newError(KindIO, path, fmt.Errorf("read: %w", err))
	}
	if maxSize > 0 && int64(buf.Len()) > maxSize {
		return nil, newError(KindIO, path, fmt.Errorf("file too large: more than %d bytes", maxSize))
	}
	if buf.Len() == 0 {
		return []byte{}, nil
	}
	return buf.Bytes(), nil
}
