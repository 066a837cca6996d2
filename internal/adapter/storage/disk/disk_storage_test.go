package disk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorage_SaveProducesPrefixedPath(t *testing.T) {
	s, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	path, err := s.Save(context.Background(), "photo.JPG", []byte("img"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, storage.PathPrefix))
	assert.True(t, strings.HasSuffix(path, ".JPG"))
	assert.NotContains(t, path, "photo") // original name never leaks

	data, err := os.ReadFile(filepath.Join(s.Dir(), strings.TrimPrefix(path, storage.PathPrefix)))
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)
}

func TestDiskStorage_SaveUniqueNames(t *testing.T) {
	s, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	a, err := s.Save(context.Background(), "same.png", []byte("a"))
	require.NoError(t, err)
	b, err := s.Save(context.Background(), "same.png", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDiskStorage_RemoveStrict(t *testing.T) {
	s, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	path, err := s.Save(context.Background(), "photo.jpg", []byte("img"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), path))
	err = s.Remove(context.Background(), path)
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}

func TestDiskStorage_RemoveIfExistsTolerant(t *testing.T) {
	s, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, s.RemoveIfExists(context.Background(), "uploads/never-existed.jpg"))
}
