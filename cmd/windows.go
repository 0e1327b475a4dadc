package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mj1618/ldtpd/internal/config"
	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/output"
	"github.com/mj1618/ldtpd/internal/registry"
	"github.com/mj1618/ldtpd/internal/resolve"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List top-level windows and their identifiers",
	Long: `List every top-level window with its application, title, the identifier
clients can address it by, and its bounds. Reads the live desktop unless
--fixture is given.`,
	Args: cobra.NoArgs,
	RunE: runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	windowsCmd.Flags().String("fixture", "", "List the windows of this fixture instead of the live desktop")
}

func runWindows(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.Fixture, _ = cmd.Flags().GetString("fixture")
	provider, _, err := openDesktop(cfg)
	if err != nil {
		return err
	}
	if provider.Close != nil {
		defer func() { _ = provider.Close() }()
	}
	reg, err := registry.New(provider.Desktop, slog.Default())
	if err != nil {
		return err
	}
	return output.Print(listWindows(resolve.New(reg, nil, nil)))
}

func listWindows(r *resolve.Resolver) []model.Window {
	nodes, ids := r.Windows()
	out := make([]model.Window, 0, len(nodes))
	for i, n := range nodes {
		w := model.Window{
			Name:       n.Name(),
			Identifier: ids[i],
			Role:       n.Role(),
		}
		if app := n.Parent(); app != nil {
			w.App = app.Name()
		}
		if c, err := model.ComponentOf(n); err == nil {
			rect := c.Extents()
			w.Bounds = &rect
		}
		out = append(out, w)
	}
	return out
}
