package drive

import (
	"testing"

	"github.com/guiyumin/voicediary/internal/core/config"
)

func configWithURL(u string) config.DriveConfig {
	return config.DriveConfig{
		URL:               u,
		Folder:            "VoiceMemos",
		IncludeExtensions: []string{".m4a"},
	}
}

func TestHasAudioExtension(t *testing.T) {
	exts := []string{".m4a", ".mp3", ".wav"}

	tests := []struct {
		name string
		file string
		want bool
	}{
		{"m4a", "recording.m4a", true},
		{"mp3", "voice note.mp3", true},
		{"uppercase", "MEMO.M4A", true},
		{"text file", "notes.txt", false},
		{"no extension", "recording", false},
		{"extension only in middle", "clip.m4a.bak", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAudioExtension(tt.file, exts); got != tt.want {
				t.Errorf("HasAudioExtension(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestHasAudioExtensionEmptyList(t *testing.T) {
	if HasAudioExtension("recording.m4a", nil) {
		t.Error("no configured extensions should match nothing")
	}
}

func TestNewWebDAVStoreInvalidURL(t *testing.T) {
	_, err := NewWebDAVStore(configWithURL("://bad"))
	if err == nil {
		t.Error("expected error for malformed URL")
	}
}

func TestNewWebDAVStoreSchemes(t *testing.T) {
	for _, u := range []string{
		"webdav://dav.example.com/remote.php/dav",
		"webdav+http://localhost:8080/dav",
		"https://dav.example.com/dav",
	} {
		if _, err := NewWebDAVStore(configWithURL(u)); err != nil {
			t.Errorf("NewWebDAVStore(%q) returned error: %v", u, err)
		}
	}
}
