package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const maxRequestBytes = 4 << 20

// Handler serves XML-RPC calls posted to / and /RPC2.
type Handler struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewHandler returns an HTTP handler backed by d.
func NewHandler(d *Dispatcher, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{dispatcher: d, logger: logger}
	mux := http.NewServeMux()
	mux.Handle("/", h)
	mux.Handle("/RPC2", h)
	return mux
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/RPC2" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	method, params, err := DecodeCall(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		h.writeFault(w, FaultFor(fmt.Errorf("%w: %v", ErrMalformedRequest, err)))
		return
	}

	out, err := h.dispatcher.Dispatch(r.Context(), method, params)
	if err != nil {
		h.writeFault(w, FaultFor(err))
		return
	}
	if err := EncodeResponse(w, out); err != nil {
		h.logger.Error("encode response", "method", method, "error", err)
		h.writeFault(w, FaultFor(fmt.Errorf("encode %s result: %w", method, err)))
	}
}

func (h *Handler) writeFault(w http.ResponseWriter, f *Fault) {
	if err := EncodeFault(w, f); err != nil {
		h.logger.Error("encode fault", "error", err)
	}
}

// Serve listens on addr and serves XML-RPC until ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("xml-rpc server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	}
}
