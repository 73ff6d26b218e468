package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleWebSocket streams every snapshot as one text frame until the viewer
// disconnects or the hub drops it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	spectator, err := s.hub.Join("websocket")
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		_ = s.hub.Leave(spectator.ID)
		s.logger.Warn("WebSocket upgrade failed", log.Error(err))
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go s.readWebSocket(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case frame, ok := <-spectator.Frames():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				_ = s.hub.Leave(spectator.ID)
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = s.hub.Leave(spectator.ID)
				return
			}
		case <-done:
			_ = s.hub.Leave(spectator.ID)
			return
		}
	}
}

// readWebSocket discards viewer messages and reports when the peer goes away.
func (s *Server) readWebSocket(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
