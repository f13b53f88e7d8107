package docparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"README.md", FormatMarkdown},
		{"notes.markdown", FormatMarkdown},
		{"policy.json", FormatJSON},
		{"audit.pdf", FormatPDF},
		{"infra.yaml", FormatYAML},
		{"infra.yml", FormatYAML},
		{"settings.txt", FormatPlainText},
		{"nginx.conf", FormatPlainText},
		{"app.config", FormatPlainText},
		{"Makefile", FormatPlainText},
		{"archive.tar.gz", FormatUnknown},
		{"trailing.", FormatUnknown},
		{"image.png", FormatUnknown},
		{"", FormatPlainText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.name))
		})
	}
}

func TestDetect_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Detect("x.pdf"), Detect("X.PDF"))
	assert.Equal(t, FormatMarkdown, Detect("README.MD"))
	assert.Equal(t, FormatYAML, Detect("Deploy.YmL"))
}

func TestDetect_UsesBaseName(t *testing.T) {
	assert.Equal(t, FormatPlainText, Detect("/etc/app.d/hosts"))
	assert.Equal(t, FormatJSON, Detect("configs.v2/policy.json"))
}

func TestDetect_LongExtensionNotTruncated(t *testing.T) {
	// A long extension sharing a prefix with a known one must not match it.
	assert.Equal(t, FormatUnknown, Detect("file.markdownextended"))
	assert.Equal(t, FormatUnknown, Detect("file.jsonlinesformat"))
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "markdown", FormatMarkdown.String())
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "pdf", FormatPDF.String())
	assert.Equal(t, "yaml", FormatYAML.String())
	assert.Equal(t, "text", FormatPlainText.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
	assert.Equal(t, "unknown", Format(42).String())
}

func TestFormat_Passthrough(t *testing.T) {
	assert.False(t, FormatMarkdown.Passthrough())
	assert.False(t, FormatJSON.Passthrough())
	assert.False(t, FormatPDF.Passthrough())
	assert.True(t, FormatYAML.Passthrough())
	assert.True(t, FormatPlainText.Passthrough())
	assert.True(t, FormatUnknown.Passthrough())
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	for format, list := range exts {
		for _, ext := range list {
			assert.Equal(t, format, Detect("file"+ext), ext)
		}
	}
	assert.NotContains(t, exts, FormatUnknown)
}
