// Package drive provides access to the remote folder that holds recorded
// audio waiting to be processed.
package drive

import (
	"context"
	"path"
	"strings"
)

// FileInfo describes a remote file.
type FileInfo struct {
	Name  string
	Path  string
	Size  int64
	IsDir bool
}

// FileStore lists and fetches audio recordings from a remote folder.
type FileStore interface {
	// FindFolder resolves the configured folder name to a remote path.
	FindFolder(ctx context.Context, name string) (string, error)
	// ListFiles returns the regular files in the folder, already filtered
	// by the configured audio extensions.
	ListFiles(ctx context.Context, folderPath string) ([]FileInfo, error)
	// Download copies a remote file into destDir and returns the local path.
	Download(ctx context.Context, file FileInfo, destDir string) (string, error)
	// Delete removes a remote file.
	Delete(ctx context.Context, file FileInfo) error
}

// HasAudioExtension reports whether name ends in one of exts
// (case-insensitive, extensions include the leading dot).
func HasAudioExtension(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
