package drive

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/emersion/go-webdav"

	"github.com/guiyumin/voicediary/internal/core/config"
)

// WebDAVStore implements FileStore on top of a WebDAV server.
type WebDAVStore struct {
	client *webdav.Client
	exts   []string
}

// NewWebDAVStore creates a store from the drive configuration.
// URL format: webdav://host/path, webdav+http://host/path, or https://host/path.
func NewWebDAVStore(cfg config.DriveConfig) (*WebDAVStore, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid drive URL: %w", err)
	}

	scheme := parsed.Scheme
	if scheme == "webdav" {
		scheme = "https"
	} else if scheme == "webdav+http" {
		scheme = "http"
	}
	baseURL := fmt.Sprintf("%s://%s", scheme, parsed.Host)

	username := cfg.Username
	password := cfg.Password
	if parsed.User != nil {
		username = parsed.User.Username()
		password, _ = parsed.User.Password()
	}

	var httpClient webdav.HTTPClient
	if username != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(nil, username, password)
	}

	client, err := webdav.NewClient(httpClient, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebDAV client: %w", err)
	}

	return &WebDAVStore{
		client: client,
		exts:   cfg.IncludeExtensions,
	}, nil
}

// FindFolder resolves the folder name against the server root. A name that
// is already an absolute path is used as-is after confirming it exists.
func (s *WebDAVStore) FindFolder(ctx context.Context, name string) (string, error) {
	candidate := name
	if !strings.HasPrefix(candidate, "/") {
		candidate = "/" + candidate
	}

	info, err := s.client.Stat(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("folder %q not found: %w", name, err)
	}
	if !info.IsDir {
		return "", fmt.Errorf("%q is not a folder", name)
	}
	return info.Path, nil
}

// ListFiles returns the audio files in folderPath, skipping directories and
// anything whose extension is not configured.
func (s *WebDAVStore) ListFiles(ctx context.Context, folderPath string) ([]FileInfo, error) {
	infos, err := s.client.ReadDir(ctx, folderPath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", folderPath, err)
	}

	normalizedDir := strings.TrimSuffix(folderPath, "/")
	if normalizedDir == "" {
		normalizedDir = "/"
	}

	result := make([]FileInfo, 0, len(infos))
	for _, info := range infos {
		// Some servers include the directory itself in the listing
		infoPath := strings.TrimSuffix(info.Path, "/")
		if infoPath == normalizedDir || infoPath == "" {
			continue
		}
		if info.IsDir {
			continue
		}

		name := path.Base(info.Path)
		if name == "" || name == "." {
			continue
		}
		if len(s.exts) > 0 && !HasAudioExtension(name, s.exts) {
			continue
		}

		result = append(result, FileInfo{
			Name:  name,
			Path:  info.Path,
			Size:  info.Size,
			IsDir: info.IsDir,
		})
	}
	return result, nil
}

// Download streams the remote file into destDir. The write goes to a .part
// file first so an interrupted transfer never leaves a truncated recording
// for the transcriber to pick up.
func (s *WebDAVStore) Download(ctx context.Context, file FileInfo, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	reader, err := s.client.Open(ctx, file.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer reader.Close()

	destPath := filepath.Join(destDir, file.Name)
	partPath := destPath + ".part"

	out, err := os.Create(partPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", partPath, err)
	}

	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		os.Remove(partPath)
		return "", fmt.Errorf("failed to download %s: %w", file.Name, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(partPath)
		return "", fmt.Errorf("failed to write %s: %w", file.Name, err)
	}
	if err := os.Rename(partPath, destPath); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", file.Name, err)
	}

	return destPath, nil
}

// Delete removes the remote file.
func (s *WebDAVStore) Delete(ctx context.Context, file FileInfo) error {
	if err := s.client.RemoveAll(ctx, file.Path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", file.Path, err)
	}
	return nil
}
