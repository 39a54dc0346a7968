package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/tablesync/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "tablesync.json"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultSortParam is the default query parameter for the sort.
	DefaultSortParam = "sort"

	// DefaultSearchParam is the default query parameter for the global search.
	DefaultSearchParam = "q"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "tablesync"

	// EnvAddr overrides Server.Addr when set.
	EnvAddr = "TABLESYNC_ADDR"
)

// Config represents the complete tablesync.json configuration.
type Config struct {
	// Server contains HTTP and websocket settings.
	Server ServerConfig `json:"server"`

	// Table contains defaults for every table served.
	Table TableConfig `json:"table"`

	// Log contains logging settings.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP and websocket settings.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `json:"addr,omitempty"`

	// ReadBufferSize is the websocket read buffer size in bytes.
	ReadBufferSize int `json:"readBufferSize,omitempty"`

	// WriteBufferSize is the websocket write buffer size in bytes.
	WriteBufferSize int `json:"writeBufferSize,omitempty"`

	// AllowedOrigins lists origins allowed to open a websocket. Empty means
	// same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// TableConfig contains table behavior settings.
type TableConfig struct {
	// MultiSort enables ordered multi-column sorting (Ctrl/Meta+click adds
	// a column instead of replacing the sort).
	MultiSort bool `json:"multiSort,omitempty"`

	// History is "push" or "replace": how URL updates are recorded.
	History string `json:"history,omitempty"`

	// SortParam is the query parameter holding the sort.
	SortParam string `json:"sortParam,omitempty"`

	// SearchParam is the query parameter holding the global search term.
	SearchParam string `json:"searchParam,omitempty"`

	// Tabindex is set on sortable headers so they can be focused and
	// activated with Enter. A negative value leaves headers unfocusable.
	Tabindex int `json:"tabindex"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics and installs the metrics middleware.
	Enabled bool `json:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled installs the tracing middleware.
	Enabled bool `json:"enabled"`

	// TracerName is the instrumentation name of the tracer.
	TracerName string `json:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Table: TableConfig{
			History:     "push",
			SortParam:   DefaultSortParam,
			SearchParam: DefaultSearchParam,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: "tablesync",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for tablesync.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. Fields missing
// from the file keep their defaults, and the environment is applied last.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + path).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	cfg.ApplyEnv()

	return cfg, nil
}

// LoadOrDefault loads dir/tablesync.json, falling back to defaults plus the
// environment when the file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err == nil {
		return cfg, nil
	}
	if errors.CodeOf(err) != "E100" {
		return nil, err
	}
	cfg = New()
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if addr := strings.TrimSpace(os.Getenv(EnvAddr)); addr != "" {
		c.Server.Addr = addr
	}
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for fields set to empty strings.
func (c *Config) applyDefaults() {
	d := New()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Table.History == "" {
		c.Table.History = d.Table.History
	}
	if c.Table.SortParam == "" {
		c.Table.SortParam = d.Table.SortParam
	}
	if c.Table.SearchParam == "" {
		c.Table.SearchParam = d.Table.SearchParam
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.New("E102").WithDetailf("got %q", c.Server.Addr).Wrap(err)
	}
	if c.Server.ReadBufferSize < 0 || c.Server.WriteBufferSize < 0 {
		return errors.New("E106")
	}
	switch strings.ToLower(c.Table.History) {
	case "push", "replace":
	default:
		return errors.New("E103").WithDetailf("got %q", c.Table.History)
	}
	if strings.EqualFold(c.Table.SortParam, c.Table.SearchParam) {
		return errors.New("E105").WithDetailf("%q is used twice", c.Table.SortParam)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return errors.New("E104").WithDetailf("log.level %q", c.Log.Level).Wrap(err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E104").WithDetailf("log.format %q", c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
