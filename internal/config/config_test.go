package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pcerrors "github.com/zhubert/simplechat/internal/errors"
)

func writeConfigFile(t *testing.T, v any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.GetServerURL() != DefaultServerURL {
		t.Errorf("ServerURL = %q, want %q", cfg.GetServerURL(), DefaultServerURL)
	}
	if cfg.GetTransport() != TransportHTTP {
		t.Errorf("Transport = %q, want %q", cfg.GetTransport(), TransportHTTP)
	}
	if cfg.GetPollInterval() != 3*time.Second {
		t.Errorf("PollInterval = %v, want 3s", cfg.GetPollInterval())
	}
	if !cfg.GetAlertOnError() {
		t.Error("AlertOnError should default to true")
	}
	if cfg.FilePath() != path {
		t.Errorf("FilePath() = %q, want %q", cfg.FilePath(), path)
	}
}

func TestLoadFrom_FillsMissingFields(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"server_url":     "https://chat.example.com",
		"alert_on_error": false,
	})

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.GetServerURL() != "https://chat.example.com" {
		t.Errorf("ServerURL = %q", cfg.GetServerURL())
	}
	if cfg.GetTransport() != TransportHTTP {
		t.Errorf("Transport = %q, want default", cfg.GetTransport())
	}
	if cfg.GetAlertOnError() {
		t.Error("explicit alert_on_error=false should be kept")
	}
	if cfg.PollIntervalMS != DefaultPollIntervalMS {
		t.Errorf("PollIntervalMS = %d, want %d", cfg.PollIntervalMS, DefaultPollIntervalMS)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if !pcerrors.Is(err, pcerrors.KindConfig) {
		t.Errorf("expected KindConfig error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"socket transport", func(c *Config) { c.Transport = TransportSocket }, false},
		{"https server", func(c *Config) { c.ServerURL = "https://chat.example.com:8443" }, false},
		{"unknown transport", func(c *Config) { c.Transport = "carrier-pigeon" }, true},
		{"no scheme", func(c *Config) { c.ServerURL = "localhost:5000" }, true},
		{"ws scheme", func(c *Config) { c.ServerURL = "ws://localhost:5000" }, true},
		{"no host", func(c *Config) { c.ServerURL = "http://" }, true},
		{"negative poll interval", func(c *Config) { c.PollIntervalMS = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !pcerrors.Is(err, pcerrors.KindInvalid) {
				t.Errorf("Validate() error kind = %v, want KindInvalid", pcerrors.GetKind(err))
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.SetFilePath(path)
	cfg.SetServerURL("http://127.0.0.1:9000")
	cfg.SetTransport(TransportSocket)
	cfg.SetSessionCookie("session=abc")
	cfg.SetPollInterval(1500 * time.Millisecond)
	cfg.SetAlertOnError(false)
	cfg.SetNotificationsEnabled(true)
	cfg.SetTheme("nord")

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.GetServerURL() != "http://127.0.0.1:9000" {
		t.Errorf("ServerURL = %q", loaded.GetServerURL())
	}
	if !loaded.UsesSocket() {
		t.Error("expected socket transport after reload")
	}
	if loaded.GetSessionCookie() != "session=abc" {
		t.Errorf("SessionCookie = %q", loaded.GetSessionCookie())
	}
	if loaded.GetPollInterval() != 1500*time.Millisecond {
		t.Errorf("PollInterval = %v", loaded.GetPollInterval())
	}
	if loaded.GetAlertOnError() {
		t.Error("AlertOnError should survive as false")
	}
	if !loaded.GetNotificationsEnabled() {
		t.Error("NotificationsEnabled should survive as true")
	}
	if loaded.GetTheme() != "nord" {
		t.Errorf("Theme = %q", loaded.GetTheme())
	}
}

func TestLoad_UsesConfigDirEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIMPLECHAT_CONFIG_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := filepath.Join(dir, "config.json")
	if cfg.FilePath() != want {
		t.Errorf("FilePath() = %q, want %q", cfg.FilePath(), want)
	}
}

func TestGetPollInterval_ZeroFallsBack(t *testing.T) {
	cfg := &Config{}
	if cfg.GetPollInterval() != DefaultPollIntervalMS*time.Millisecond {
		t.Errorf("GetPollInterval() = %v", cfg.GetPollInterval())
	}
}

func TestConfig_ConcurrentAccess(t *testing.T) {
	cfg := Default()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cfg.SetTheme("nord")
			cfg.SetNotificationsEnabled(true)
		}()
		go func() {
			defer wg.Done()
			_ = cfg.GetTheme()
			_ = cfg.GetNotificationsEnabled()
			_ = cfg.Validate()
		}()
	}
	wg.Wait()
}
