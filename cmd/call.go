package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/ldtpd/internal/output"
	"github.com/mj1618/ldtpd/internal/server"
)

var callCmd = &cobra.Command{
	Use:   "call <method> [args...]",
	Short: "Invoke one procedure on a running server",
	Long: `Invoke one procedure on a running ldtpd server and print the result.

Arguments of the form key=value are sent as keyword arguments. Numbers and
true/false are sent as XML-RPC ints, doubles and booleans.

Examples:
  ldtpd call getwindowlist
  ldtpd call click frmCalculator btn7
  ldtpd call waittillguiexist "*Calculator*" guiTimeOut=5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().String("url", defaultServerURL, "Server URL")
	callCmd.Flags().Duration("timeout", 5*time.Minute, "HTTP timeout for the call")
}

func runCall(cmd *cobra.Command, args []string) error {
	url, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	result, err := newRPCClient(url, timeout).Call(cmd.Context(), args[0], parseArgs(args[1:]))
	if err != nil {
		var fault *server.Fault
		if errors.As(err, &fault) {
			return fmt.Errorf("fault %d: %s", fault.Code, fault.Message)
		}
		return err
	}
	return output.Print(result)
}
