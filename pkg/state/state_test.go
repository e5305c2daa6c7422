package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rebrand/pkg/brand"
	"github.com/walteh/rebrand/pkg/status"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

var acme = brand.Config{Name: "Acme", Description: "Acme things.", Community: "Acme Crew"}

func TestBrandHash(t *testing.T) {
	assert.Equal(t, BrandHash(acme), BrandHash(acme))
	assert.NotEqual(t, BrandHash(acme), BrandHash(brand.Default()))

	// field boundaries matter
	a := brand.Config{Name: "ab", Description: "c"}
	b := brand.Config{Name: "a", Description: "bc"}
	assert.NotEqual(t, BrandHash(a), BrandHash(b))
}

func TestLoadAndSave(t *testing.T) {
	ctx := setupTestLogger(t)

	t.Run("load_nonexistent", func(t *testing.T) {
		_, err := LoadState(ctx, filepath.Join(t.TempDir(), LockFileName))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("save_and_load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), LockFileName)

		s := New(acme)
		s.PutPhase("source", "src", []status.FileInfo{
			{Path: "b.ts", Status: status.StatusRebranded, Checksum: "bbb", Replacements: 2, Rules: []string{"name"}},
			{Path: "a.ts", Status: status.StatusRebranded, Checksum: "aaa", Replacements: 1},
			{Path: "c.ts", Status: status.StatusUnchanged, Checksum: "ccc"},
			{Path: "d.png", Status: status.StatusSkipped},
		})
		require.NoError(t, WriteState(ctx, path, s))

		loaded, err := LoadState(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, SchemaVersion, loaded.SchemaVersion)
		assert.Equal(t, BrandHash(acme), loaded.BrandHash)
		assert.Equal(t, "Acme Crew", loaded.Brand.Community)
		assert.False(t, loaded.LastUpdated.IsZero())

		require.Len(t, loaded.Phases, 1)
		assert.Equal(t, []FileState{
			{Path: "a.ts", Checksum: "aaa", Replacements: 1},
			{Path: "b.ts", Checksum: "bbb", Replacements: 2, Rules: []string{"name"}},
		}, loaded.Phases[0].Files)
	})

	t.Run("bad_schema", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), LockFileName)
		require.NoError(t, os.WriteFile(path, []byte(`{"schema_version": "0.1"}`), 0644))
		_, err := LoadState(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported state schema version")
	})

	t.Run("bad_json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), LockFileName)
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
		_, err := LoadState(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing state file")
	})
}

func TestPutPhase_Replaces(t *testing.T) {
	s := New(acme)
	s.PutPhase("source", "src", []status.FileInfo{{Path: "a.ts", Status: status.StatusRebranded}})
	s.PutPhase("assets", "build", nil)
	s.PutPhase("source", "src", []status.FileInfo{{Path: "b.ts", Status: status.StatusRebranded}})

	require.Len(t, s.Phases, 2)
	assert.Equal(t, "source", s.Phases[0].Name)
	assert.Equal(t, []FileState{{Path: "b.ts"}}, s.Phases[0].Files)
	assert.Empty(t, s.Phases[1].Files)
}

func TestCheck(t *testing.T) {
	ctx := setupTestLogger(t)
	dir := t.TempDir()

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	write("a.ts", "Acme")
	write("b.ts", "Acme Crew")

	s := New(acme)
	s.PutPhase("source", dir, []status.FileInfo{
		{Path: "a.ts", Status: status.StatusRebranded, Checksum: status.Checksum([]byte("Acme"))},
		{Path: "b.ts", Status: status.StatusRebranded, Checksum: status.Checksum([]byte("Acme Crew"))},
		{Path: "gone.ts", Status: status.StatusRebranded, Checksum: "x"},
	})

	t.Run("missing_file", func(t *testing.T) {
		report, err := s.Check(ctx, acme)
		require.NoError(t, err)
		assert.False(t, report.BrandChanged)
		assert.Empty(t, report.Modified)
		assert.Equal(t, []string{filepath.Join(dir, "gone.ts")}, report.Missing)
		assert.False(t, report.UpToDate())
	})

	s.PutPhase("source", dir, []status.FileInfo{
		{Path: "a.ts", Status: status.StatusRebranded, Checksum: status.Checksum([]byte("Acme"))},
		{Path: "b.ts", Status: status.StatusRebranded, Checksum: status.Checksum([]byte("Acme Crew"))},
	})

	t.Run("up_to_date", func(t *testing.T) {
		report, err := s.Check(ctx, acme)
		require.NoError(t, err)
		assert.True(t, report.UpToDate())
	})

	t.Run("brand_changed", func(t *testing.T) {
		report, err := s.Check(ctx, brand.Config{Name: "Other"})
		require.NoError(t, err)
		assert.True(t, report.BrandChanged)
		assert.False(t, report.UpToDate())
	})

	t.Run("modified_file", func(t *testing.T) {
		write("b.ts", "Open WebUI Community")
		report, err := s.Check(ctx, acme)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "b.ts")}, report.Modified)
	})
}
