package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// KeyValue is one "key: value" line of a flat configuration file.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const maxKeyValueLine = 1 << 20

// LoadKeyValues reads a flat key/value file. Lines starting with '#' and
// empty lines are skipped, as are lines without a ':'. The key is kept
// verbatim; the value loses leading and trailing spaces.
func LoadKeyValues(path string) ([]KeyValue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening key/value file: %w", err)
	}
	defer f.Close()

	var items []KeyValue
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), maxKeyValueLine)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		items = append(items, KeyValue{
			Key:   key,
			Value: strings.TrimRight(strings.TrimLeft(value, " "), " "),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading key/value file: %w", err)
	}
	return items, nil
}

// FormatKeyValues renders items as "key: value\n" lines.
func FormatKeyValues(items []KeyValue) string {
	var b strings.Builder
	for _, kv := range items {
		b.WriteString(kv.Key)
		b.WriteString(": ")
		b.WriteString(kv.Value)
		b.WriteByte('\n')
	}
	return b.String()
}
