package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration for jtrack, stored in ~/.jtrack/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Storage   StorageConfig   `json:"storage"`
	Calendar  CalendarConfig  `json:"calendar"`
	Server    ServerConfig    `json:"server"`
	GitHub    GitHubConfig    `json:"github"`
	Analytics AnalyticsConfig `json:"analytics"`
}

// StorageConfig selects where applications and notes are kept.
type StorageConfig struct {
	// Backend is "file" (JSON files) or "sqlite".
	Backend string `json:"backend"`
	// Dir is the data directory. Empty means ~/.jtrack.
	Dir string `json:"dir"`
}

// CalendarConfig controls how dates are interpreted.
type CalendarConfig struct {
	// Timezone is the IANA timezone for "today" and date parsing. Empty = local.
	Timezone string `json:"timezone"`
}

// ServerConfig holds the local HTTP API settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// GitHubConfig names the repository whose star count is shown.
// The optional API token comes from GITHUB_TOKEN.
type GitHubConfig struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Token string `json:"-"`
}

// AnalyticsConfig holds Vercel visitor analytics credentials. They are read
// from the environment only and never written to the config file.
type AnalyticsConfig struct {
	Token     string `json:"-"`
	ProjectID string `json:"-"`
	TeamID    string `json:"-"`
}

const (
	DefaultBackend = "file"
	DefaultAddr    = "127.0.0.1:8081"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{Backend: DefaultBackend},
		Server:  ServerConfig{Addr: DefaultAddr},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// jtrack configuration – ~/.jtrack/config.json
//
// All settings are optional. Secrets are never stored here; put them in the
// environment or in a .env file in the working directory.
{
  "storage": {
    // "file"   – one human-readable JSON file per collection (default)
    // "sqlite" – a single jtrack.db database
    "backend": "file",

    // Data directory. Leave empty to use ~/.jtrack.
    "dir": ""
  },

  "calendar": {
    // IANA timezone used for "today" and for reading stored dates,
    // e.g. "Europe/Berlin". Leave empty to use the system timezone.
    "timezone": ""
  },

  "server": {
    // Listen address for: jtrack serve
    "addr": "127.0.0.1:8081"
  },

  // Repository whose star count is shown by: jtrack dashboard
  // Set GITHUB_TOKEN to raise the API rate limit.
  "github": {
    "owner": "",
    "repo": ""
  }

  // Visitor analytics are enabled by setting VERCEL_API_TOKEN and
  // VERCEL_PROJECT_ID (and optionally VERCEL_TEAM_ID).
}
`

// FilePath returns the path to ~/.jtrack/config.json.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".jtrack", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.jtrack/config.json (creating it on first run), then applies
// .env and environment overrides.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return defaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path. A missing file is created from the
// annotated template.
func LoadFrom(path string) (Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		cfg := defaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyDefaults fills zero-value fields with built-in defaults so callers
// always get a usable Config even if the user only partially fills in the file.
func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("JTRACK_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("JTRACK_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("JTRACK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("JTRACK_TIMEZONE"); v != "" {
		c.Calendar.Timezone = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	c.Analytics.Token = os.Getenv("VERCEL_API_TOKEN")
	c.Analytics.ProjectID = os.Getenv("VERCEL_PROJECT_ID")
	c.Analytics.TeamID = os.Getenv("VERCEL_TEAM_ID")
}

// Location resolves Calendar.Timezone, falling back to the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Calendar.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return time.Local, fmt.Errorf("invalid calendar timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
