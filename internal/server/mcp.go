package server

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/ldtpd/internal/ldtp"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "streamable-http"
)

// NewMCPServer exposes every operation as an MCP tool. Tool calls go
// through d, so they share its lock, pacing and call log.
func NewMCPServer(d *Dispatcher, version string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		"ldtpd",
		version,
		mcpserver.WithToolCapabilities(true),
	)
	for _, op := range ldtp.Operations() {
		s.AddTool(toolFor(op), toolHandler(d, op.Name))
	}
	return s
}

func toolFor(op ldtp.Operation) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(op.Signature() + "\n\n" + op.Help)}
	for _, p := range op.Params {
		var props []mcp.PropertyOption
		if p.Default == nil {
			props = append(props, mcp.Required())
		} else {
			props = append(props, mcp.Description(fmt.Sprintf("Defaults to %v", p.Default)))
		}
		switch p.Kind {
		case ldtp.KindInt, ldtp.KindFloat:
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		case ldtp.KindBool:
			opts = append(opts, mcp.WithBoolean(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(op.Name, opts...)
}

func toolHandler(d *Dispatcher, method string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kwargs := request.GetArguments()
		if kwargs == nil {
			kwargs = map[string]any{}
		}
		out, err := d.Dispatch(ctx, method, []any{kwargs})
		if err != nil {
			return mcp.NewToolResultError(FaultFor(err).Message), nil
		}
		b, err := yaml.Marshal(out)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}

// ServeMCP runs s on the given transport until ctx is done.
func ServeMCP(ctx context.Context, s *mcpserver.MCPServer, transport string, port int) error {
	switch transport {
	case TransportStdio:
		err := mcpserver.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case TransportHTTP:
		httpServer := mcpserver.NewStreamableHTTPServer(s)
		errCh := make(chan error, 1)
		go func() { errCh <- httpServer.Start(fmt.Sprintf(":%d", port)) }()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return httpServer.Shutdown(context.Background())
		}
	}
	return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
}
