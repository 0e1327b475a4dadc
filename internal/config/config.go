// Package config resolves the server configuration from defaults, an
// optional config file and the environment. Command-line flags are
// applied on top by the caller.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 4118
	DefaultMCPPort      = 8080
	DefaultPollInterval = time.Second

	// FallbackCommandDelay applies when LDTP_COMMAND_DELAY is set but is
	// not an integer.
	FallbackCommandDelay = 500 * time.Millisecond
)

// MCP transports; empty disables MCP.
const (
	MCPOff   = ""
	MCPStdio = "stdio"
	MCPHTTP  = "streamable-http"
)

// Config holds the server settings.
type Config struct {
	Addr         string
	Port         int
	CommandDelay time.Duration
	Verbose      bool
	Fixture      string
	Watch        bool
	PollInterval time.Duration
	MCPTransport string
	MCPPort      int
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:         DefaultPort,
		PollInterval: DefaultPollInterval,
		MCPPort:      DefaultMCPPort,
	}
}

// Load layers the config file at path (if any) and the environment over
// the defaults. getenv is os.Getenv when nil.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// fileConfig is the on-disk form. Unset keys leave the current value.
type fileConfig struct {
	Addr         *string `yaml:"addr"          toml:"addr"`
	Port         *int    `yaml:"port"          toml:"port"`
	CommandDelay *string `yaml:"command_delay" toml:"command_delay"`
	Verbose      *bool   `yaml:"verbose"       toml:"verbose"`
	Fixture      *string `yaml:"fixture"       toml:"fixture"`
	Watch        *bool   `yaml:"watch"         toml:"watch"`
	PollInterval *string `yaml:"poll_interval" toml:"poll_interval"`
	MCPTransport *string `yaml:"mcp_transport" toml:"mcp_transport"`
	MCPPort      *int    `yaml:"mcp_port"      toml:"mcp_port"`
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&c.Addr, fc.Addr)
	setIf(&c.Port, fc.Port)
	setIf(&c.Verbose, fc.Verbose)
	setIf(&c.Fixture, fc.Fixture)
	setIf(&c.Watch, fc.Watch)
	setIf(&c.MCPTransport, fc.MCPTransport)
	setIf(&c.MCPPort, fc.MCPPort)
	if fc.CommandDelay != nil {
		if c.CommandDelay, err = time.ParseDuration(*fc.CommandDelay); err != nil {
			return fmt.Errorf("invalid command_delay %q: %w", *fc.CommandDelay, err)
		}
	}
	if fc.PollInterval != nil {
		if c.PollInterval, err = time.ParseDuration(*fc.PollInterval); err != nil {
			return fmt.Errorf("invalid poll_interval %q: %w", *fc.PollInterval, err)
		}
	}
	if c.Fixture != "" && !filepath.IsAbs(c.Fixture) {
		c.Fixture = filepath.Join(filepath.Dir(path), c.Fixture)
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("LDTP_COMMAND_DELAY"); v != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.CommandDelay = time.Duration(secs) * time.Second
		} else {
			c.CommandDelay = FallbackCommandDelay
		}
	}
	if getenv("LDTP_DEBUG") != "" {
		c.Verbose = true
	}
	if v := getenv("LDTP_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid value for LDTP_SERVER_PORT: %q (expected integer)", v)
		}
		c.Port = port
	}
	if v := getenv("LDTP_FIXTURE"); v != "" {
		c.Fixture = v
	}
	return nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.CommandDelay < 0 {
		return fmt.Errorf("command delay cannot be negative")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	switch c.MCPTransport {
	case MCPOff, MCPStdio:
	case MCPHTTP:
		if c.MCPPort < 1 || c.MCPPort > 65535 {
			return fmt.Errorf("mcp port %d out of range 1-65535", c.MCPPort)
		}
		if c.MCPPort == c.Port {
			return fmt.Errorf("mcp port %d clashes with the xml-rpc port", c.MCPPort)
		}
	default:
		return fmt.Errorf("invalid mcp transport: %s (must be 'stdio' or 'streamable-http')", c.MCPTransport)
	}
	if c.Watch && c.Fixture == "" {
		return fmt.Errorf("--watch needs a fixture")
	}
	return nil
}

// Address returns the XML-RPC listen address.
func (c Config) Address() string {
	return net.JoinHostPort(c.Addr, strconv.Itoa(c.Port))
}
