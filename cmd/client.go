package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/ldtpd/internal/server"
)

const defaultServerURL = "http://localhost:4118/RPC2"

// rpcClient issues XML-RPC calls against a running server.
type rpcClient struct {
	url  string
	http *http.Client
}

func newRPCClient(url string, timeout time.Duration) *rpcClient {
	return &rpcClient{url: url, http: &http.Client{Timeout: timeout}}
}

// Call returns the decoded result, or a *server.Fault when the server
// answered with one.
func (c *rpcClient) Call(ctx context.Context, method string, params []any) (any, error) {
	var body bytes.Buffer
	if err := server.EncodeCall(&body, method, params); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("call %s: server returned %s", method, resp.Status)
	}
	return server.DecodeResponse(resp.Body)
}

// parseArgs turns command-line words into call parameters. Words of the
// form key=value are collected into a trailing keyword struct; the rest
// are positional. Integers, floats and true/false are converted.
func parseArgs(words []string) []any {
	var params []any
	var kwargs map[string]any
	for _, w := range words {
		if key, val, ok := strings.Cut(w, "="); ok && isIdentifier(key) {
			if kwargs == nil {
				kwargs = make(map[string]any)
			}
			kwargs[key] = parseScalar(val)
			continue
		}
		params = append(params, parseScalar(w))
	}
	if kwargs != nil {
		params = append(params, kwargs)
	}
	return params
}

func parseScalar(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true", "True":
		return true
	case "false", "False":
		return false
	}
	return s
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
