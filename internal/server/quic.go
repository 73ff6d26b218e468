package server

import (
	"context"
	"errors"
	"slices"

	"github.com/quic-go/quic-go"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
)

const (
	quicCodeNormal   quic.ApplicationErrorCode = 0
	quicCodeFull     quic.ApplicationErrorCode = 1
	quicCodeInternal quic.ApplicationErrorCode = 2
)

var newline = []byte{'\n'}

func (s *Server) acceptQUIC(ctx context.Context) {
	defer s.workerGroup.Done()
	for {
		conn, err := s.quicListener.Accept(ctx)
		if err != nil {
			if s.IsRunning() && !errors.Is(err, context.Canceled) {
				s.logger.Error("Failed to accept QUIC connection", log.Error(err))
			}
			return
		}

		s.workerGroup.Add(1)
		go s.serveQUIC(ctx, conn)
	}
}

// serveQUIC opens one unidirectional stream and writes newline-delimited
// JSON snapshots to it until either side goes away.
func (s *Server) serveQUIC(ctx context.Context, conn *quic.Conn) {
	defer s.workerGroup.Done()

	spectator, err := s.hub.Join("quic")
	if err != nil {
		_ = conn.CloseWithError(quicCodeFull, err.Error())
		return
	}
	logger := s.logger.With(log.String("spectator", spectator.ID), log.String("remote", conn.RemoteAddr().String()))

	stream, err := conn.OpenUniStreamSync(ctx)
	if err != nil {
		_ = s.hub.Leave(spectator.ID)
		logger.Warn("Failed to open QUIC stream", log.Error(err))
		_ = conn.CloseWithError(quicCodeInternal, "stream")
		return
	}

	for {
		select {
		case frame, ok := <-spectator.Frames():
			if !ok {
				_ = stream.Close()
				_ = conn.CloseWithError(quicCodeNormal, "feed closed")
				return
			}
			if _, err := stream.Write(slices.Concat(frame, newline)); err != nil {
				_ = s.hub.Leave(spectator.ID)
				logger.Debug("QUIC spectator write failed", log.Error(err))
				return
			}
		case <-conn.Context().Done():
			_ = s.hub.Leave(spectator.ID)
			return
		case <-ctx.Done():
			_ = s.hub.Leave(spectator.ID)
			_ = conn.CloseWithError(quicCodeNormal, "server shutting down")
			return
		}
	}
}
