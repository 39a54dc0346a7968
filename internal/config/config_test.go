package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/tablesync/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Table.SortParam != DefaultSortParam || cfg.Table.SearchParam != DefaultSearchParam {
		t.Errorf("Table params = %q, %q", cfg.Table.SortParam, cfg.Table.SearchParam)
	}
	if cfg.Table.History != "push" {
		t.Errorf("Table.History = %q, want push", cfg.Table.History)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if errors.CodeOf(err) != "E100" {
		t.Errorf("missing config error = %v, want E100", err)
	}

	configJSON := `{
  "server": {"addr": "127.0.0.1:9000"},
  "table": {"multiSort": true, "history": "replace", "searchParam": "search"},
  "log": {"format": "json"}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if !cfg.Table.MultiSort || cfg.Table.History != "replace" {
		t.Errorf("Table = %+v", cfg.Table)
	}
	if cfg.Table.SearchParam != "search" || cfg.Table.SortParam != DefaultSortParam {
		t.Errorf("params = %q, %q", cfg.Table.SearchParam, cfg.Table.SortParam)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.ReadBufferSize != 1024 {
		t.Errorf("ReadBufferSize = %d, want default", cfg.Server.ReadBufferSize)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmpDir); errors.CodeOf(err) != "E101" {
		t.Errorf("error = %v, want E101", err)
	}
}

func TestEmptyStringsFallBackToDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "custom.json")
	if err := os.WriteFile(path, []byte(`{"server":{"addr":""},"table":{"sortParam":""}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != DefaultAddr || cfg.Table.SortParam != DefaultSortParam {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvAddr, ":7070")

	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, want :7070", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad addr", func(c *Config) { c.Server.Addr = "nope" }, "E102"},
		{"negative buffer", func(c *Config) { c.Server.WriteBufferSize = -1 }, "E106"},
		{"bad history", func(c *Config) { c.Table.History = "back" }, "E103"},
		{"replace ok", func(c *Config) { c.Table.History = "Replace" }, ""},
		{"same params", func(c *Config) { c.Table.SearchParam = "SORT" }, "E105"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "E104"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "E104"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if got := errors.CodeOf(err); got != tt.code {
				t.Errorf("Validate() = %v, want code %q", err, tt.code)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Table.MultiSort = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if !Exists(tmpDir) {
		t.Fatal("Exists() = false after SaveTo")
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Table.MultiSort {
		t.Error("MultiSort not persisted")
	}
}

func TestSlogLevel(t *testing.T) {
	level, err := LogConfig{Level: "DEBUG"}.SlogLevel()
	if err != nil || level.String() != "DEBUG" {
		t.Errorf("SlogLevel() = %v, %v", level, err)
	}
}
