package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mj1618/ldtpd/internal/output"
	"github.com/mj1618/ldtpd/internal/server"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive client for a running server",
	Long: `Open an interactive prompt against a running ldtpd server. Each line is
a method name followed by its arguments, quoted the same way as on the
command line. Method names complete with TAB.

Built-in commands:
  help [method]   list methods, or show one method's signature
  quit            leave the shell`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().String("url", defaultServerURL, "Server URL")
	shellCmd.Flags().Duration("timeout", 5*time.Minute, "HTTP timeout per call")
}

var (
	faultColor  = color.New(color.FgRed, color.Bold)
	resultColor = color.New(color.FgGreen)
)

func runShell(cmd *cobra.Command, args []string) error {
	url, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	client := newRPCClient(url, timeout)
	ctx := cmd.Context()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	methods, err := client.Call(ctx, "system.listMethods", nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", url, err)
	}
	names := toStrings(methods)

	completer := readline.NewPrefixCompleter()
	for _, name := range names {
		completer.Children = append(completer.Children, readline.PcItem(name))
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ldtp> ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	fmt.Fprintf(out, "connected to %s, %d methods\n", url, len(names))
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		words, err := splitWords(line)
		if err != nil {
			faultColor.Fprintf(out, "%v\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case "quit", "exit":
			return nil
		case "help", "?":
			if len(words) == 1 {
				fmt.Fprintln(out, strings.Join(names, "\n"))
				continue
			}
			words = []string{"system.methodHelp", words[1]}
		}

		result, err := client.Call(ctx, words[0], parseArgs(words[1:]))
		if err != nil {
			var fault *server.Fault
			if errors.As(err, &fault) {
				faultColor.Fprintf(out, "fault %d: %s\n", fault.Code, fault.Message)
				continue
			}
			return err
		}
		if s, ok := result.(string); ok {
			resultColor.Fprintln(out, s)
			continue
		}
		b, err := output.Encode(result)
		if err != nil {
			return err
		}
		resultColor.Fprint(out, string(b))
	}
}

func toStrings(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// splitWords splits a shell line on whitespace, keeping single- or
// double-quoted runs together.
func splitWords(line string) ([]string, error) {
	var (
		words  []string
		cur    strings.Builder
		quote  rune
		inWord bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
