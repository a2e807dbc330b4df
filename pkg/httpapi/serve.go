package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// Server defaults.
const (
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 15 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultShutdownTimeout   = 30 * time.Second
	DefaultMaxHeaderBytes    = 1 << 20
)

// ShutdownHook runs after the server stopped accepting requests.
type ShutdownHook func(ctx context.Context) error

// ServerOption configures Serve.
type ServerOption func(*serverConfig)

type serverConfig struct {
	logger          *slog.Logger
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	hooks           []ShutdownHook
}

// WithServerLogger sets the logger for lifecycle events.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeouts overrides the read, write and idle timeouts.
// Zero values keep the defaults.
func WithTimeouts(read, write, idle time.Duration) ServerOption {
	return func(c *serverConfig) {
		if read > 0 {
			c.readTimeout = read
		}
		if write > 0 {
			c.writeTimeout = write
		}
		if idle > 0 {
			c.idleTimeout = idle
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown including hooks.
// Default: 30s.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(c *serverConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// WithShutdownHook registers hooks run in order after the server stops.
func WithShutdownHook(hooks ...ShutdownHook) ServerOption {
	return func(c *serverConfig) {
		c.hooks = append(c.hooks, hooks...)
	}
}

// Serve listens on addr and serves h until ctx is canceled, then shuts down
// gracefully and runs the shutdown hooks.
func Serve(ctx context.Context, addr string, h http.Handler, opts ...ServerOption) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ServeListener(ctx, ln, h, opts...)
}

// ServeListener is Serve on an existing listener. The listener is closed
// when the server stops.
func ServeListener(ctx context.Context, ln net.Listener, h http.Handler, opts ...ServerOption) error {
	cfg := &serverConfig{
		logger:          logger.NewNope(),
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	server := &http.Server{
		Handler:           h,
		ReadTimeout:       cfg.readTimeout,
		WriteTimeout:      cfg.writeTimeout,
		IdleTimeout:       cfg.idleTimeout,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		MaxHeaderBytes:    DefaultMaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		cfg.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	cfg.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range cfg.hooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			cfg.logger.Error("shutdown hook failed", slog.String("error", err.Error()))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	cfg.logger.Info("shutdown completed")
	return nil
}
