package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStore_Save(t *testing.T) {
	dataDir := t.TempDir()
	store, err := NewFileStore(dataDir, zap.NewNop())
	require.NoError(t, err)

	hash := strings.Repeat("ab", 32)
	path, err := store.Save(hash, []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "files", hash+".pdf"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	// повторное сохранение не перезаписывает файл
	again, err := store.Save(hash, []byte("другое"))
	require.NoError(t, err)
	assert.Equal(t, path, again)
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	entries, err := os.ReadDir(filepath.Join(dataDir, "files"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_InvalidHash(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	tests := []string{
		"",
		"abc",
		"../" + strings.Repeat("a", 61),
	}
	for _, hash := range tests {
		_, err := store.Save(hash, []byte("x"))
		assert.Error(t, err, hash)
	}
}
