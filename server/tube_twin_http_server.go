package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const SHUTDOWN_TIMEOUT = 5 * time.Second

type TubeTwinHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	addr      string
}

func NewTubeTwinHttpServer(router *Router, muxRouter *mux.Router, addr string) *TubeTwinHttpServer {
	return &TubeTwinHttpServer{
		router:    router,
		muxRouter: muxRouter,
		addr:      addr,
	}
}

// Handler registers the routes and returns the root handler.
func (s *TubeTwinHttpServer) Handler() http.Handler {
	s.router.RegisterRoutes()
	return s.muxRouter
}

// Start serves until SIGINT/SIGTERM or until ctx is done, then shuts down
// gracefully.
func (s *TubeTwinHttpServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt or termination signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("[TubeTwinHttpServer] Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("[TubeTwinHttpServer] Shutting down the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("[TubeTwinHttpServer] Server exiting")
	return nil
}
