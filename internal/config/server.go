package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "TRIAGE_SERVER_HOST"
	EnvServerPort              = "TRIAGE_SERVER_PORT"
	EnvServerReadTimeout       = "TRIAGE_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "TRIAGE_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "TRIAGE_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "TRIAGE_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "TRIAGE_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP server parameters. The write timeout must
// outlast a full pipeline run, since POST /tickets/process answers only
// once the run completes.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration { return parseDuration(c.ReadTimeout) }

// ReadHeaderTimeoutDuration returns ReadHeaderTimeout as a time.Duration.
func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return parseDuration(c.ReadHeaderTimeout)
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration { return parseDuration(c.WriteTimeout) }

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *ServerConfig) IdleTimeoutDuration() time.Duration { return parseDuration(c.IdleTimeout) }

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return parseDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	from := overlay.durations()
	for i, f := range c.durations() {
		if v := *from[i].field; v != "" {
			*f.field = v
		}
	}
}

// durationField ties a duration setting to its env var, TOML key, and default.
type durationField struct {
	field *string
	env   string
	key   string
	def   string
}

func (c *ServerConfig) durations() []durationField {
	return []durationField{
		{&c.ReadTimeout, EnvServerReadTimeout, "read_timeout", "1m"},
		{&c.ReadHeaderTimeout, EnvServerReadHeaderTimeout, "read_header_timeout", "10s"},
		{&c.WriteTimeout, EnvServerWriteTimeout, "write_timeout", "5m"},
		{&c.IdleTimeout, EnvServerIdleTimeout, "idle_timeout", "2m"},
		{&c.ShutdownTimeout, EnvServerShutdownTimeout, "shutdown_timeout", "30s"},
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, f := range c.durations() {
		if *f.field == "" {
			*f.field = f.def
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, f := range c.durations() {
		if v := os.Getenv(f.env); v != "" {
			*f.field = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.durations() {
		d, err := time.ParseDuration(*f.field)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.key, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive", f.key)
		}
	}
	return nil
}

func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
