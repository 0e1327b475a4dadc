// Package output prints command results as YAML or JSON.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/ldtpd/internal/appmap"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported format: %s (use yaml or json)", s)
}

// AppMapResult is the output of the `appmap` command.
type AppMapResult struct {
	Window      string              `yaml:"window"      json:"window"`
	Generation  uint64              `yaml:"generation"  json:"generation"`
	Fingerprint string              `yaml:"fingerprint" json:"fingerprint"`
	Objects     []appmap.Descriptor `yaml:"objects"     json:"objects"`
}

// NewAppMapResult summarizes m.
func NewAppMapResult(m *appmap.Map) AppMapResult {
	return AppMapResult{
		Window:      m.Window,
		Generation:  m.Generation,
		Fingerprint: fmt.Sprintf("%016x", m.Fingerprint),
		Objects:     m.Descriptors(),
	}
}

// Print serializes v to stdout in the current output format.
func Print(v any) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v any) error {
	b, err := Encode(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Encode serializes v in the current output format.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	switch OutputFormat {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		if PrettyOutput {
			enc.SetIndent("", "  ")
		}
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("json encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("yaml encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("yaml encode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
	return buf.Bytes(), nil
}
