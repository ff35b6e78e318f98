package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"campaign-validator/internal/api"
	"campaign-validator/internal/config"
	"campaign-validator/internal/listener"
	"campaign-validator/internal/storage"
	"campaign-validator/internal/validation"
)

type Server struct {
	cfg      config.Config
	v        *validation.Validator
	recorder api.Recorder
	srv      *http.Server
}

func New(cfg config.Config, v *validation.Validator, rec api.Recorder) *Server {
	h := api.NewValidationHandler(v, rec, cfg.Validation.MaxBatch, cfg.Validation.Workers)
	return &Server{
		cfg:      cfg,
		v:        v,
		recorder: rec,
		srv: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      api.Router(h),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Serve accepts connections on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("http server starting")
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown...")
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := s.srv.Shutdown(shCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// Run wires storage, the policy listener and the HTTP server, and blocks
// until ctx is done.
func Run(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	v := validation.NewValidator()
	var rec api.Recorder = storage.NewMemoryAudit(0)

	if cfg.Postgres.Enabled {
		store, err := storage.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		defer store.Close()
		log.Info().Str("dsn", cfg.DSNRedacted()).Msg("postgres enabled")

		if err := listener.Refresh(ctx, store, v); err != nil {
			log.Warn().Err(err).Msg("initial policy load; using defaults")
		}
		if cfg.Listener.Channel != config.DefaultPolicyChannel {
			log.Warn().Str("channel", cfg.Listener.Channel).
				Msg("non-default policy channel; the notify trigger must publish on it")
		}
		go listener.ListenAndRefresh(ctx, store, v, cfg.Listener.Channel, cfg.Backoff())
		rec = store
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}
	return New(cfg, v, rec).Serve(ctx, ln)
}
