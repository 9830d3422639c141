package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	pcerrors "github.com/zhubert/simplechat/internal/errors"
)

// Transport names accepted in the config file and on the command line.
const (
	TransportHTTP   = "http"
	TransportSocket = "socket"
)

// Defaults applied when a field is missing from the config file.
const (
	DefaultServerURL      = "http://localhost:5000"
	DefaultPollIntervalMS = 3000
)

// Config holds the application configuration
type Config struct {
	ServerURL            string `json:"server_url"`
	Transport            string `json:"transport"`                       // "http" (polled) or "socket" (pushed)
	SessionCookie        string `json:"session_cookie,omitempty"`        // Cookie header value for an authenticated server session
	PollIntervalMS       int    `json:"poll_interval_ms,omitempty"`      // Interval between check_new_messages calls
	AlertOnError         bool   `json:"alert_on_error"`                  // Show a blocking alert for failed requests
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notifications for pushed unread messages
	Theme                string `json:"theme,omitempty"`                 // UI theme name (e.g., "dark-purple", "nord")

	mu       sync.RWMutex
	filePath string
}

// Default returns a config with every field at its default value. It is not
// bound to a file until Load or SetFilePath.
func Default() *Config {
	return &Config{
		ServerURL:      DefaultServerURL,
		Transport:      TransportHTTP,
		PollIntervalMS: DefaultPollIntervalMS,
		AlertOnError:   true,
	}
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	if dir := os.Getenv("SIMPLECHAT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".simplechat"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns the defaults if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, pcerrors.ConfigLoadFailed("config dir", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from the given file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.filePath = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, pcerrors.ConfigLoadFailed(path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, pcerrors.ConfigLoadFailed(path, err)
	}

	// Must happen before Validate() since Validate() only reads
	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureInitialized fills in defaults for fields the file left empty.
//
// Thread-safety: only called from LoadFrom before the Config is shared.
func (c *Config) ensureInitialized() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.Transport == "" {
		c.Transport = TransportHTTP
	}
	if c.PollIntervalMS == 0 {
		c.PollIntervalMS = DefaultPollIntervalMS
	}
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch c.Transport {
	case TransportHTTP, TransportSocket:
	default:
		return pcerrors.ConfigInvalid(fmt.Sprintf("unknown transport %q (want %q or %q)", c.Transport, TransportHTTP, TransportSocket))
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return pcerrors.ConfigInvalid(fmt.Sprintf("server_url %q: %v", c.ServerURL, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return pcerrors.ConfigInvalid(fmt.Sprintf("server_url %q must use http or https", c.ServerURL))
	}
	if u.Host == "" {
		return pcerrors.ConfigInvalid(fmt.Sprintf("server_url %q has no host", c.ServerURL))
	}

	if c.PollIntervalMS < 0 {
		return pcerrors.ConfigInvalid(fmt.Sprintf("poll_interval_ms must be positive, got %d", c.PollIntervalMS))
	}

	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.filePath
	if path == "" {
		var err error
		if path, err = configPath(); err != nil {
			return pcerrors.ConfigSaveFailed("config dir", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return pcerrors.ConfigSaveFailed(path, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return pcerrors.ConfigSaveFailed(path, err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return pcerrors.ConfigSaveFailed(path, err)
	}
	return nil
}

// FilePath returns the file the config was loaded from or will be saved to.
func (c *Config) FilePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// SetFilePath binds the config to a file for later saves.
func (c *Config) SetFilePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filePath = path
}

// GetServerURL returns the base URL of the chat server
func (c *Config) GetServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ServerURL
}

// SetServerURL sets the base URL of the chat server
func (c *Config) SetServerURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ServerURL = u
}

// GetTransport returns the configured transport name
func (c *Config) GetTransport() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Transport
}

// SetTransport sets the transport name
func (c *Config) SetTransport(t string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Transport = t
}

// UsesSocket reports whether the socket transport is selected
func (c *Config) UsesSocket() bool {
	return c.GetTransport() == TransportSocket
}

// GetSessionCookie returns the session cookie sent with every request
func (c *Config) GetSessionCookie() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SessionCookie
}

// SetSessionCookie sets the session cookie
func (c *Config) SetSessionCookie(cookie string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SessionCookie = cookie
}

// GetPollInterval returns the polling interval for new messages
func (c *Config) GetPollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.PollIntervalMS <= 0 {
		return DefaultPollIntervalMS * time.Millisecond
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// SetPollInterval sets the polling interval, rounded down to milliseconds
func (c *Config) SetPollInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PollIntervalMS = int(d / time.Millisecond)
}

// GetAlertOnError returns whether failed requests raise a blocking alert
func (c *Config) GetAlertOnError() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AlertOnError
}

// SetAlertOnError sets whether failed requests raise a blocking alert
func (c *Config) SetAlertOnError(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AlertOnError = enabled
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}
