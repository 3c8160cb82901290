package filestorage

import (
	"io"
)

// StoredFile describes where an upload ended up
type StoredFile struct {
	Path     string // relative to the storage root, e.g. notes/1700000000000-1a2b3c4d.pdf
	URL      string // public URL under the static prefix
	Filename string // original client filename
	FileSize int64  // bytes written
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save writes r under subPath using a collision-free name derived from filename
	Save(r io.Reader, filename, subPath string) (*StoredFile, error)

	// Exists reports whether the file at relPath is present
	Exists(relPath string) bool

	// Delete removes the file. Missing files are not an error.
	Delete(relPath string) error

	// FullPath returns the filesystem path for relPath, or "" if it escapes the root
	FullPath(relPath string) string
}
