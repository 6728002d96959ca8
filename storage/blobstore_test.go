package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"plain name", "report.pdf", true},
		{"name with spaces", "annual report 2024.pdf", true},
		{"empty", "", false},
		{"forward slash", "../etc/passwd", false},
		{"backslash", `..\windows\system32`, false},
		{"slash in middle", "a/b.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidFilename(tt.filename))
		})
	}
}

func TestDiskStoreSaveAndOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("report.pdf", strings.NewReader("flood response data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "report.pdf"), path)

	blob, err := store.Open(path)
	require.NoError(t, err)
	defer blob.Close()

	content, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "flood response data", string(content))
}

func TestDiskStoreSaveRejectsUnsafeName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	_, err = store.Save("../escape.txt", strings.NewReader("nope"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiskStoreSaveOverwritesExisting(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("notes.txt", strings.NewReader("first"))
	require.NoError(t, err)

	path, err := store.Save("notes.txt", strings.NewReader("second"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestDiskStoreRemove(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("gone.txt", strings.NewReader("bytes"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStoreRemoveMissingFile(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	err = store.Remove(filepath.Join(store.Dir(), "never-existed.txt"))
	assert.Error(t, err)
}
