package cmd

import (
	"testing"
	"time"

	"github.com/mj1618/ldtpd/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"serve", "call", "shell", "appmap", "schema", "windows"}
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestServeCommand_Flags(t *testing.T) {
	tests := []struct {
		name     string
		flagType string
	}{
		{"config", "string"},
		{"addr", "string"},
		{"port", "int"},
		{"command-delay", "duration"},
		{"poll-interval", "duration"},
		{"fixture", "string"},
		{"watch", "bool"},
		{"mcp", "string"},
		{"mcp-port", "int"},
	}
	for _, tt := range tests {
		f := serveCmd.Flags().Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestApplyServeFlags(t *testing.T) {
	flags := serveCmd.Flags()
	t.Cleanup(func() {
		for _, name := range []string{"port", "command-delay", "mcp"} {
			f := flags.Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	if err := flags.Set("port", "5000"); err != nil {
		t.Fatal(err)
	}
	if err := flags.Set("command-delay", "2s"); err != nil {
		t.Fatal(err)
	}
	if err := flags.Set("mcp", config.MCPStdio); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Fixture = "from-file.yaml"
	applyServeFlags(&cfg, flags)

	if cfg.Port != 5000 || cfg.CommandDelay != 2*time.Second || cfg.MCPTransport != config.MCPStdio {
		t.Errorf("applyServeFlags() = %+v, want port 5000, delay 2s, mcp stdio", cfg)
	}
	if cfg.Fixture != "from-file.yaml" {
		t.Errorf("unset --fixture overrode the configured value: %q", cfg.Fixture)
	}
	if cfg.PollInterval != config.DefaultPollInterval {
		t.Errorf("PollInterval = %v, want default", cfg.PollInterval)
	}
}
