package storage

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDataURL(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	payload := []byte("fake-png-bytes")
	raw := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	filename, err := store.SaveDataURL(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".png"))

	file, err := store.Open(filename)
	require.NoError(t, err)
	defer file.Close()

	stat, err := file.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), stat.Size())
}

func TestSaveDataURLPassesThroughPlainReferences(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	filename, err := store.SaveDataURL("https://cdn.example.com/leaf.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/leaf.jpg", filename)
}

func TestSaveDataURLRejectsMalformed(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveDataURL("data:image/png;base64")
	require.Error(t, err)

	_, err = store.SaveDataURL("data:image/png;base64,!!not-base64!!")
	require.Error(t, err)
}

func TestRemoveIgnoresMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Remove("never-existed.jpg"))
}

func TestResolveStaysUnderBaseDir(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	_, err = store.Save("../../escape.txt", []byte("nope"))
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(base, "escape.txt"))
	assert.NoError(t, statErr)

	_, statErr = os.Stat(filepath.Join(filepath.Dir(base), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
