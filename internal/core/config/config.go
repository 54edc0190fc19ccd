// Package config loads and validates the voicediary configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "voicediary"
)

// ConfigDir returns the standard config directory for voicediary.
// Windows: %APPDATA%\voicediary\
// macOS/Linux: ~/.config/voicediary/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// e.g., ~/.config/voicediary/config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// SavePath returns the config file path for display purposes, ignoring
// lookup errors.
func SavePath() string {
	p, _ := ConfigPath()
	return p
}

// Duration wraps time.Duration so YAML values like "30m" or "1h" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	// Scheduler controls the pipeline cadence
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Paths controls where artifacts live
	Paths PathsConfig `yaml:"paths,omitempty"`

	// Drive is the cloud drive the recordings are pulled from
	Drive DriveConfig `yaml:"drive"`

	// Transcription configures the speech-to-text service
	Transcription AIServiceConfig `yaml:"transcription"`

	// Generation configures the chat-completion service used to
	// organize transcripts and summarize entries
	Generation AIServiceConfig `yaml:"generation"`

	// Email configures the summary email dispatch (optional)
	Email EmailConfig `yaml:"email,omitempty"`
}

// SchedulerConfig converts a runs-per-day number into a cadence.
// RunsPerDay is a pointer so a missing key is distinguishable from 0
// (0 means "run once and exit").
type SchedulerConfig struct {
	RunsPerDay *float64 `yaml:"runs_per_day"`

	// Per-stage timeouts. Zero values fall back to defaults.
	DownloadTimeout   Duration `yaml:"download_timeout,omitempty"`
	TranscribeTimeout Duration `yaml:"transcribe_timeout,omitempty"`
	OrganizeTimeout   Duration `yaml:"organize_timeout,omitempty"`
	SummarizeTimeout  Duration `yaml:"summarize_timeout,omitempty"`
	EmailTimeout      Duration `yaml:"email_timeout,omitempty"`
}

// PathsConfig points at the data directory. All artifact directories
// (downloads, processed audio, ongoing entries, summaries) and the state
// file live underneath it.
type PathsConfig struct {
	DataDir string `yaml:"data_dir,omitempty"`
}

// DriveConfig holds the WebDAV drive settings.
type DriveConfig struct {
	// URL is the WebDAV endpoint, e.g. "https://dav.example.com"
	URL string `yaml:"url"`

	// Username and Password for basic auth
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Folder is the remote folder the recordings are dropped into
	Folder string `yaml:"folder"`

	// IncludeExtensions filters remote files, e.g. [".m4a", ".mp3"]
	IncludeExtensions []string `yaml:"include_extensions,omitempty"`

	// DeleteAfterDownload removes remote files once downloaded
	DeleteAfterDownload bool `yaml:"delete_after_download,omitempty"`
}

// AIServiceConfig holds the settings for one AI service.
type AIServiceConfig struct {
	// Provider selects the backend ("openai" or "anthropic")
	Provider string `yaml:"provider,omitempty"`

	// APIKey for the service. Empty falls back to OPENAI_API_KEY /
	// ANTHROPIC_API_KEY depending on provider.
	APIKey string `yaml:"api_key,omitempty"`

	// Model overrides the provider default
	Model string `yaml:"model,omitempty"`

	// BaseURL overrides the API endpoint (e.g. for proxies)
	BaseURL string `yaml:"base_url,omitempty"`

	// Language hint for transcription (e.g. "en")
	Language string `yaml:"language,omitempty"`

	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
}

// EmailConfig holds SMTP settings for the summary email.
type EmailConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	From     string `yaml:"from,omitempty"`
	To       string `yaml:"to,omitempty"`
	Subject  string `yaml:"subject,omitempty"`
}

// ResolveAPIKey returns the configured key or the environment fallback.
func (c AIServiceConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	switch c.Provider {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

// DefaultDataDir returns the default data directory.
// Windows: %APPDATA%\voicediary\data
// macOS/Linux: ~/.local/share/voicediary
func DefaultDataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppDirName, "data")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./voicediary-data"
	}
	return filepath.Join(home, ".local", "share", AppDirName)
}

// Artifact locations under the data directory.

func (c *Config) DataDir() string {
	if c.Paths.DataDir != "" {
		return c.Paths.DataDir
	}
	return DefaultDataDir()
}

// DownloadsDir holds audio pulled from the drive, awaiting transcription.
func (c *Config) DownloadsDir() string { return filepath.Join(c.DataDir(), "downloads") }

// ProcessedAudioDir holds audio that has been transcribed.
func (c *Config) ProcessedAudioDir() string { return filepath.Join(c.DataDir(), "processed_audio") }

// OutputDir holds the per-day ongoing entries files.
func (c *Config) OutputDir() string { return filepath.Join(c.DataDir(), "output") }

// SummariesDir holds the summarized daily entries.
func (c *Config) SummariesDir() string { return filepath.Join(c.DataDir(), "summaries") }

// StatePath is the pipeline state record.
func (c *Config) StatePath() string { return filepath.Join(c.DataDir(), "pipeline_state.json") }

// DBPath is the transcription record store.
func (c *Config) DBPath() string { return filepath.Join(c.DataDir(), "voicediary.db") }

// LogPath is the main log file.
func (c *Config) LogPath() string { return filepath.Join(c.DataDir(), "voicediary.log") }

// UsageLogPath is the token-usage log file.
func (c *Config) UsageLogPath() string { return filepath.Join(c.DataDir(), "token_usage.log") }

// EnsureDirs creates the artifact directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{
		c.DataDir(),
		c.DownloadsDir(),
		c.ProcessedAudioDir(),
		c.OutputDir(),
		c.SummariesDir(),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	one := 1.0
	return &Config{
		Scheduler: SchedulerConfig{
			RunsPerDay: &one,
		},
		Drive: DriveConfig{
			Folder:            "voice-diary",
			IncludeExtensions: []string{".mp3", ".m4a", ".wav", ".ogg", ".flac", ".aac"},
		},
		Transcription: AIServiceConfig{
			Provider: "openai",
			Model:    "whisper-1",
		},
		Generation: AIServiceConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			MaxTokens:   4000,
			Temperature: 0.7,
		},
	}
}

// Exists checks if config file exists.
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config from ~/.config/voicediary/config.yml.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)

	return cfg, nil
}

// expandPath expands the tilde (~) in the path to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// Save writes the config to ~/.config/voicediary/config.yml.
func Save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# voicediary configuration file\n# Run 'voicediary init' to regenerate with defaults\n\n"
	content := header + string(data)

	return os.WriteFile(configPath, []byte(content), 0600)
}
