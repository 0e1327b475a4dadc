package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/ldtpd/internal/platform/sim"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of fixture files",
	Long: `Print the JSON Schema that fixture files passed to --fixture are
validated against. Point an editor's YAML language server at it to get
completion while writing fixtures.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := sim.GenerateSchema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
