package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/zeusync/ultrapong/internal/config"
	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/match"
)

// Source is the match a server broadcasts.
type Source interface {
	Latest() match.Snapshot
	Subscribe(buffer int) *match.Subscription
}

// Server streams match snapshots to spectators over WebSocket and QUIC.
type Server struct {
	source Source
	hub    *Hub
	sub    *match.Subscription

	httpServer   *http.Server
	httpListener net.Listener
	quicListener *quic.Listener

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool
	cancel  context.CancelFunc

	// Configuration and logging
	config config.Server
	logger log.Log

	// Background workers
	workerGroup sync.WaitGroup
}

// NewServer creates a spectator server for source.
func NewServer(cfg config.Server, source Source, logger log.Log) *Server {
	logger = logger.With(log.String("component", "server"))

	s := &Server{
		source: source,
		hub:    NewHub(cfg.SpectatorBuffer, cfg.MaxSpectators, logger),
		config: cfg,
		logger: logger,
	}

	s.logger.Info("Server created",
		log.String("http_addr", cfg.HTTPAddr),
		log.String("quic_addr", cfg.QUICAddr),
		log.Int("max_spectators", cfg.MaxSpectators))

	return s
}

// Start binds the listeners and serves in the background. An empty address
// disables that transport.
func (s *Server) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	ctx, s.cancel = context.WithCancel(ctx)

	if err := s.listen(); err != nil {
		s.cancel()
		if s.httpListener != nil {
			_ = s.httpListener.Close()
		}
		_ = s.closeListeners()
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to start server", log.Error(err))
		return err
	}

	s.sub = s.source.Subscribe(s.config.SpectatorBuffer)
	s.workerGroup.Add(1)
	go func() {
		defer s.workerGroup.Done()
		s.hub.Run(ctx, s.sub.C())
	}()

	if s.httpListener != nil {
		s.httpServer = &http.Server{
			Handler:           s.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return ctx },
		}
		s.workerGroup.Add(1)
		go func() {
			defer s.workerGroup.Done()
			if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("HTTP server stopped", log.Error(err))
			}
		}()
		s.logger.Info("HTTP listening", log.String("addr", s.httpListener.Addr().String()))
	}

	if s.quicListener != nil {
		s.workerGroup.Add(1)
		go s.acceptQUIC(ctx)
		s.logger.Info("QUIC listening", log.String("addr", s.quicListener.Addr().String()))
	}

	s.logger.Info("Server started successfully")
	return nil
}

func (s *Server) listen() error {
	if s.config.HTTPAddr != "" {
		ln, err := net.Listen("tcp", s.config.HTTPAddr)
		if err != nil {
			return fmt.Errorf("%w: http %s: %w", ErrListenerFailed, s.config.HTTPAddr, err)
		}
		s.httpListener = ln
	}

	if s.config.QUICAddr != "" {
		tlsConfig, err := generateTLSConfig()
		if err != nil {
			return fmt.Errorf("%w: tls: %w", ErrListenerFailed, err)
		}
		ln, err := quic.ListenAddr(s.config.QUICAddr, tlsConfig, &quic.Config{
			MaxIdleTimeout:  30 * time.Second,
			KeepAlivePeriod: 10 * time.Second,
		})
		if err != nil {
			return fmt.Errorf("%w: quic %s: %w", ErrListenerFailed, s.config.QUICAddr, err)
		}
		s.quicListener = ln
	}
	return nil
}

// Shutdown stops accepting spectators, disconnects the current ones and
// waits for every worker or ctx, whichever comes first.
func (s *Server) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	atomic.StoreInt32(&s.closed, 1)

	s.logger.Info("Stopping server")

	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	s.cancel()
	s.sub.Cancel()
	if err := s.closeListeners(); err != nil {
		errs = append(errs, err)
	}

	done := make(chan struct{})
	go func() {
		s.workerGroup.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Server stopped")
	case <-ctx.Done():
		errs = append(errs, ctx.Err())
		s.logger.Warn("Server stop timed out", log.Error(ctx.Err()))
	}
	return errors.Join(errs...)
}

func (s *Server) closeListeners() error {
	if s.quicListener != nil {
		if err := s.quicListener.Close(); err != nil {
			return fmt.Errorf("quic close: %w", err)
		}
	}
	return nil
}

// IsRunning returns true if the server is running
func (s *Server) IsRunning() bool {
	return atomic.LoadInt32(&s.running) == 1
}

// HTTPAddr returns the bound HTTP address, or nil when HTTP is disabled.
func (s *Server) HTTPAddr() net.Addr {
	if s.httpListener == nil {
		return nil
	}
	return s.httpListener.Addr()
}

// QUICAddr returns the bound QUIC address, or nil when QUIC is disabled.
func (s *Server) QUICAddr() net.Addr {
	if s.quicListener == nil {
		return nil
	}
	return s.quicListener.Addr()
}

func (s *Server) Hub() *Hub { return s.hub }
