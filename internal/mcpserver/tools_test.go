package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasnoah/complyd/internal/config"
	"github.com/lucasnoah/complyd/internal/db"
	"github.com/lucasnoah/complyd/internal/docparse"
)

const compliantConfig = `storage:
  encryption: enabled
audit_log: enabled
mfa_enabled: true
tls: enabled
unique_user_id: true
backup: enabled
offboarding: enabled
session_timeout: 15m
`

func newTestServer(t *testing.T, history *db.DB) *Server {
	t.Helper()
	s, err := New(Deps{
		Parser:  docparse.New(docparse.Options{}),
		Config:  config.Default(),
		History: history,
	}, "test")
	require.NoError(t, err)
	return s
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{Config: config.Default()}, "")
	assert.ErrorIs(t, err, ErrMissingParser)

	_, err = New(Deps{Parser: docparse.New(docparse.Options{})}, "")
	assert.ErrorIs(t, err, ErrMissingConfig)

	s, err := New(Deps{Parser: docparse.New(docparse.Options{}), Config: config.Default()}, "")
	require.NoError(t, err)
	assert.Equal(t, "dev", s.version)
}

func TestServer_handleParse(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, nil)

	t.Run("normalizes markdown", func(t *testing.T) {
		path := writeDoc(t, "policy.md", "# Title\n**MFA** enabled\n")
		_, out, err := s.handleParse(ctx, nil, ParseInput{Path: path})

		require.NoError(t, err)
		assert.True(t, out.Success)
		assert.Equal(t, "markdown", out.Format)
		assert.Equal(t, "Title\nMFA enabled\n", out.Content)
		assert.Equal(t, len(out.Content), out.Bytes)
		assert.False(t, out.Truncated)
	})

	t.Run("truncates content", func(t *testing.T) {
		path := writeDoc(t, "notes.txt", "abcdefghij")
		_, out, err := s.handleParse(ctx, nil, ParseInput{Path: path, MaxBytes: 4})

		require.NoError(t, err)
		assert.Equal(t, "abcd", out.Content)
		assert.True(t, out.Truncated)
		assert.Equal(t, 10, out.Bytes)
	})

	t.Run("reports failure as data", func(t *testing.T) {
		path := writeDoc(t, "fake.pdf", "not a pdf")
		_, out, err := s.handleParse(ctx, nil, ParseInput{Path: path})

		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.Equal(t, "format error", out.ErrorKind)
		assert.Empty(t, out.Content)
	})

	t.Run("requires path", func(t *testing.T) {
		_, _, err := s.handleParse(ctx, nil, ParseInput{})
		require.Error(t, err)
	})
}

func TestServer_handleScan(t *testing.T) {
	ctx := context.Background()

	t.Run("compliant document", func(t *testing.T) {
		s := newTestServer(t, nil)
		path := writeDoc(t, "policy.yaml", compliantConfig)

		_, out, err := s.handleScan(ctx, nil, ScanInput{Path: path})

		require.NoError(t, err)
		assert.Equal(t, "hipaa", out.Framework)
		assert.Equal(t, "yaml", out.Format)
		assert.Equal(t, 8, out.Passed)
		assert.Zero(t, out.Failed)
		assert.Equal(t, 100.0, out.Score)
		assert.True(t, out.Compliant)
		assert.Len(t, out.Controls, 8)
		assert.NotEmpty(t, out.ID)
	})

	t.Run("threshold override", func(t *testing.T) {
		s := newTestServer(t, nil)
		path := writeDoc(t, "empty.txt", "nothing relevant")
		zero := 0.0

		_, out, err := s.handleScan(ctx, nil, ScanInput{Path: path, Threshold: &zero})

		require.NoError(t, err)
		assert.Zero(t, out.Score)
		assert.True(t, out.Compliant)
		for _, c := range out.Controls {
			assert.False(t, c.Passed)
			assert.NotEmpty(t, c.Remediation)
		}
	})

	t.Run("unknown framework", func(t *testing.T) {
		s := newTestServer(t, nil)
		path := writeDoc(t, "policy.yaml", compliantConfig)

		_, _, err := s.handleScan(ctx, nil, ScanInput{Path: path, Framework: "sox"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown framework")
	})

	t.Run("parse failure", func(t *testing.T) {
		s := newTestServer(t, nil)
		_, _, err := s.handleScan(ctx, nil, ScanInput{Path: filepath.Join(t.TempDir(), "absent.md")})
		require.Error(t, err)
	})

	t.Run("records history", func(t *testing.T) {
		history, err := db.Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { history.Close() })
		require.NoError(t, history.Migrate())

		s := newTestServer(t, history)
		path := writeDoc(t, "policy.yaml", compliantConfig)

		_, out, err := s.handleScan(ctx, nil, ScanInput{Path: path})
		require.NoError(t, err)

		row, err := history.GetScan(out.ID)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, path, row.Path)
		assert.True(t, row.Compliant)
	})
}

func TestServer_handleDetect(t *testing.T) {
	s := newTestServer(t, nil)

	_, out, err := s.handleDetect(context.Background(), nil, DetectInput{
		Paths: []string{"a.md", "b.JSON", "c.pdf", "README", "x.exe"},
	})

	require.NoError(t, err)
	require.Len(t, out.Files, 5)
	assert.Equal(t, "markdown", out.Files[0].Format)
	assert.False(t, out.Files[0].Passthrough)
	assert.Equal(t, "json", out.Files[1].Format)
	assert.Equal(t, "pdf", out.Files[2].Format)
	assert.Equal(t, "text", out.Files[3].Format)
	assert.True(t, out.Files[3].Passthrough)
	assert.Equal(t, "unknown", out.Files[4].Format)
}
