package filestorage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveExistsDelete(t *testing.T) {
	root := t.TempDir()
	ls, err := NewLocalStorage(root, "/uploads/")
	require.NoError(t, err)
	ls.now = func() time.Time { return time.UnixMilli(1700000000000) }

	stored, err := ls.Save(strings.NewReader("%PDF-1.4 body"), "Algebra.PDF", "notes")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^notes/1700000000000-[0-9a-f]{8}\.pdf$`), stored.Path)
	assert.Equal(t, "/uploads/"+stored.Path, stored.URL)
	assert.Equal(t, int64(len("%PDF-1.4 body")), stored.FileSize)
	assert.True(t, ls.Exists(stored.Path))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored.Path)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	require.NoError(t, ls.Delete(stored.Path))
	assert.False(t, ls.Exists(stored.Path))
	assert.NoError(t, ls.Delete(stored.Path), "deleting a missing file is not an error")
}

func TestFullPathStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	ls, err := NewLocalStorage(root, "/uploads")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "etc", "passwd"), ls.FullPath("../../etc/passwd"))
	assert.Equal(t, "", ls.FullPath(""))
	assert.False(t, ls.Exists("notes"))
}
