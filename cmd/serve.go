package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/ldtpd/internal/appmap"
	"github.com/mj1618/ldtpd/internal/config"
	"github.com/mj1618/ldtpd/internal/ldtp"
	"github.com/mj1618/ldtpd/internal/platform"
	"github.com/mj1618/ldtpd/internal/platform/sim"
	"github.com/mj1618/ldtpd/internal/registry"
	"github.com/mj1618/ldtpd/internal/server"
	"github.com/mj1618/ldtpd/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the XML-RPC automation server",
	Long: `Run the XML-RPC automation server against the live desktop, or against
a fixture file describing a simulated desktop.

Calls are served one at a time. When a command delay is set, every call
except the wait/exist/has/get/verify/enabled/launch/image family sleeps
that long before running.

Examples:
  ldtpd serve
  ldtpd serve --port 4118 --command-delay 1s
  ldtpd serve --fixture fixtures/desktop.yaml --watch
  ldtpd serve --fixture fixtures/desktop.yaml --mcp streamable-http --mcp-port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Config file (.yaml, .yml or .toml)")
	serveCmd.Flags().String("addr", "", "Address to listen on (default all interfaces)")
	serveCmd.Flags().Int("port", config.DefaultPort, "XML-RPC port")
	serveCmd.Flags().Duration("command-delay", 0, "Delay before each non-query call")
	serveCmd.Flags().Duration("poll-interval", config.DefaultPollInterval, "Interval between wait predicate checks")
	serveCmd.Flags().String("fixture", "", "Serve a simulated desktop from this fixture file")
	serveCmd.Flags().Bool("watch", false, "Reload the fixture when it changes")
	serveCmd.Flags().String("mcp", config.MCPOff, "Also expose the operations over MCP: stdio, streamable-http")
	serveCmd.Flags().Int("mcp-port", config.DefaultMCPPort, "HTTP port for the streamable-http MCP transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, os.Getenv)
	if err != nil {
		return err
	}
	applyServeFlags(&cfg, cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.Default()
	if cfg.Verbose {
		logger = newLogger(true)
		slog.SetDefault(logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, simDesktop, err := openDesktop(cfg)
	if err != nil {
		return err
	}
	if simDesktop != nil {
		simDesktop.SetLogger(logger)
	}
	if provider.Close != nil {
		defer func() { _ = provider.Close() }()
	}
	logger.Info("desktop ready", "backend", provider.Name)

	reg, err := registry.New(provider.Desktop, logger)
	if err != nil {
		return fmt.Errorf("enumerate applications: %w", err)
	}
	service := ldtp.NewService(reg, ldtp.Options{
		PollInterval: cfg.PollInterval,
		Cache:        appmap.NewCache(logger),
		Logger:       logger,
	})
	dispatcher := server.NewDispatcher(service,
		server.WithCommandDelay(cfg.CommandDelay),
		server.WithLogger(logger),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reg.Watch(ctx, provider.Events())
		return nil
	})
	g.Go(func() error {
		return server.Serve(ctx, cfg.Address(), server.NewHandler(dispatcher, logger), logger)
	})
	if cfg.MCPTransport != config.MCPOff {
		mcpServer := server.NewMCPServer(dispatcher, version.Version)
		g.Go(func() error {
			return server.ServeMCP(ctx, mcpServer, cfg.MCPTransport, cfg.MCPPort)
		})
	}
	if cfg.Watch && simDesktop != nil {
		g.Go(func() error {
			return simDesktop.Watch(ctx, cfg.Fixture, logger)
		})
	}
	return g.Wait()
}

// applyServeFlags overrides cfg with every flag set on the command line.
func applyServeFlags(cfg *config.Config, flags *pflag.FlagSet) {
	if flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("command-delay") {
		cfg.CommandDelay, _ = flags.GetDuration("command-delay")
	}
	if flags.Changed("poll-interval") {
		cfg.PollInterval, _ = flags.GetDuration("poll-interval")
	}
	if flags.Changed("fixture") {
		cfg.Fixture, _ = flags.GetString("fixture")
	}
	if flags.Changed("watch") {
		cfg.Watch, _ = flags.GetBool("watch")
	}
	if flags.Changed("mcp") {
		cfg.MCPTransport, _ = flags.GetString("mcp")
	}
	if flags.Changed("mcp-port") {
		cfg.MCPPort, _ = flags.GetInt("mcp-port")
	}
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}
}

// openDesktop returns the fixture-backed desktop when one is configured
// and the live backend otherwise. The sim desktop is nil for live backends.
func openDesktop(cfg config.Config) (*platform.Provider, *sim.Desktop, error) {
	if cfg.Fixture != "" {
		d, err := sim.Load(cfg.Fixture)
		if err != nil {
			return nil, nil, fmt.Errorf("load fixture %s: %w", cfg.Fixture, err)
		}
		return d.Provider(), d, nil
	}
	p, err := platform.NewProvider()
	if err != nil {
		return nil, nil, err
	}
	return p, nil, nil
}
