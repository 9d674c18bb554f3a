package resources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteURLs(t *testing.T) {
	root := t.TempDir()
	urls := []string{"https://www.instagram.com/sennheiser/", "  ", "https://www.instagram.com/nexup_official/"}

	path, err := WriteURLs(root, 42, urls)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "42", "urls.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://www.instagram.com/sennheiser/\nhttps://www.instagram.com/nexup_official/", string(data))

	got, err := LoadURLs(root, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.instagram.com/sennheiser/", "https://www.instagram.com/nexup_official/"}, got)
}

func TestWriteURLs_OverwritesExisting(t *testing.T) {
	root := t.TempDir()
	_, err := WriteURLs(root, 1, []string{"a", "b"})
	require.NoError(t, err)
	_, err = WriteURLs(root, 1, []string{"c"})
	require.NoError(t, err)

	got, err := LoadURLs(root, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got)
}

func TestWriteURLs_Validation(t *testing.T) {
	_, err := WriteURLs("", 1, []string{"a"})
	assert.Error(t, err)
	_, err = WriteURLs(t.TempDir(), 0, []string{"a"})
	assert.Error(t, err)
	_, err = WriteURLs(t.TempDir(), 1, []string{" ", ""})
	assert.Error(t, err)
}

func TestReadURLList(t *testing.T) {
	got, err := ReadURLList(strings.NewReader("# seeds\nhttps://a.example\n\n  https://b.example  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, got)
}

func TestLoadURLs_Missing(t *testing.T) {
	got, err := LoadURLs(t.TempDir(), 5)
	require.NoError(t, err)
	assert.Nil(t, got)
}
