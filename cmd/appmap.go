package cmd

import (
	"fmt"
	"log/slog"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/mj1618/ldtpd/internal/appmap"
	"github.com/mj1618/ldtpd/internal/output"
	"github.com/mj1618/ldtpd/internal/platform/sim"
	"github.com/mj1618/ldtpd/internal/registry"
	"github.com/mj1618/ldtpd/internal/resolve"
)

var appmapCmd = &cobra.Command{
	Use:   "appmap <window>",
	Short: "Print the AppMap of a fixture window",
	Long: `Build the AppMap of one window of a fixture desktop and print it, or write
it to a file. The window name may be a glob or a window identifier such as
frmCalculator.

Examples:
  ldtpd appmap --fixture fixtures/desktop.yaml "*Calculator*"
  ldtpd appmap --fixture fixtures/desktop.yaml frmCalculator --format json --out calc.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAppMap,
}

func init() {
	rootCmd.AddCommand(appmapCmd)
	appmapCmd.Flags().String("fixture", "", "Fixture file describing the desktop (required)")
	appmapCmd.Flags().String("out", "", "Write to this file instead of stdout")
	_ = appmapCmd.MarkFlagRequired("fixture")
}

func runAppMap(cmd *cobra.Command, args []string) error {
	fixture, _ := cmd.Flags().GetString("fixture")
	out, _ := cmd.Flags().GetString("out")

	result, err := buildAppMap(fixture, args[0], slog.Default())
	if err != nil {
		return err
	}
	if out == "" {
		return output.Print(result)
	}
	b, err := output.Encode(result)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(out, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

func buildAppMap(fixture, window string, logger *slog.Logger) (output.AppMapResult, error) {
	desktop, err := sim.Load(fixture)
	if err != nil {
		return output.AppMapResult{}, fmt.Errorf("load fixture %s: %w", fixture, err)
	}
	reg, err := registry.New(desktop, logger)
	if err != nil {
		return output.AppMapResult{}, err
	}
	_, m, err := resolve.New(reg, appmap.NewCache(logger), logger).Map(window, true)
	if err != nil {
		return output.AppMapResult{}, err
	}
	return output.NewAppMapResult(m), nil
}
