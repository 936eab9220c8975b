package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(g *globals, b Builder) *cobra.Command {
	bind := os.Getenv(EnvBind)
	if bind == "" {
		bind = ":8000"
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the views over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.build(b)
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", bind)
			if err != nil {
				return Wrap(ExitFailure, "cannot listen on "+bind, err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			for _, ep := range r.Endpoints() {
				logger.Verbose("mounted", ep.Spec().Method, r.URL(ep))
			}
			return Serve(ctx, ln, r.Handler())
		},
	}
	cmd.Flags().StringVar(&bind, "bind", bind, "address to listen on (env "+EnvBind+")")
	return cmd
}

// Serve runs an HTTP server on ln until ctx is done, then shuts it down
// gracefully.
func Serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}

	var (
		wg       sync.WaitGroup
		serveErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("server started:", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
		logger.Info("server stopped")
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
	case <-done:
		return serveErr
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("server shutdown failed:", err)
		_ = srv.Close()
	}
	wg.Wait()
	return serveErr
}
