package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type sample struct {
	Framework string  `json:"framework" yaml:"framework"`
	Score     float64 `json:"score" yaml:"score"`
}

func TestWriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	if err := WriteAtomic(path, []byte("hello")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want hello", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".complyd-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteAtomicOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteAtomic(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := WriteAtomic(path, []byte("second")); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("content = %q, want second", data)
	}
}

func TestWriteReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	in := sample{Framework: "hipaa", Score: 87.5}
	if err := WriteJSON(path, in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out sample
	if err := ReadJSON(path, &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if out != in {
		t.Errorf("ReadJSON = %+v, want %+v", out, in)
	}
}

func TestReadJSONInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out sample
	if err := ReadJSON(path, &out); err == nil {
		t.Fatal("ReadJSON expected error")
	}
}

func TestEncodingFor(t *testing.T) {
	tests := map[string]Encoding{
		"r.json":   EncodingJSON,
		"r.JSON":   EncodingJSON,
		"r.yaml":   EncodingYAML,
		"r.yml":    EncodingYAML,
		"r.txt":    EncodingText,
		"report":   EncodingText,
		"dir/r.md": EncodingText,
	}
	for path, want := range tests {
		if got := EncodingFor(path); got != want {
			t.Errorf("EncodingFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestWriteByExtension(t *testing.T) {
	dir := t.TempDir()
	in := sample{Framework: "hipaa", Score: 50}

	yamlPath := filepath.Join(dir, "r.yaml")
	if err := Write(yamlPath, in, "ignored"); err != nil {
		t.Fatalf("Write yaml: %v", err)
	}
	data, _ := os.ReadFile(yamlPath)
	var out sample
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if out != in {
		t.Errorf("yaml round trip = %+v", out)
	}

	textPath := filepath.Join(dir, "r.txt")
	if err := Write(textPath, in, "SCAN RESULTS\n"); err != nil {
		t.Fatalf("Write text: %v", err)
	}
	data, _ = os.ReadFile(textPath)
	if string(data) != "SCAN RESULTS\n" {
		t.Errorf("text = %q", data)
	}
}
