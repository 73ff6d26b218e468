package server

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/quic-go/quic-go"

	"github.com/zeusync/ultrapong/internal/match"
)

// Client follows a match feed over either transport and decodes snapshots.
type Client struct {
	snapshots chan match.Snapshot
	done      chan struct{}
	closeOnce sync.Once
	closeFn   func() error

	errMu sync.Mutex
	err   error
}

func newClient(closeFn func() error) *Client {
	return &Client{
		snapshots: make(chan match.Snapshot, 64),
		done:      make(chan struct{}),
		closeFn:   closeFn,
	}
}

// DialQUIC connects to a QUIC feed. The server certificate is self-signed so
// verification is skipped.
func DialQUIC(ctx context.Context, addr string) (*Client, error) {
	conn, err := quic.DialAddr(ctx, addr, &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{ALPN},
	}, &quic.Config{
		MaxIdleTimeout: 60 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	c := newClient(func() error { return conn.CloseWithError(quicCodeNormal, "bye") })
	go func() {
		stream, err := conn.AcceptUniStream(ctx)
		if err != nil {
			c.finish(err)
			return
		}
		c.finish(c.readLines(bufio.NewReader(stream)))
	}()
	return c, nil
}

// DialWebSocket connects to a WebSocket feed such as ws://host:8080/ws.
func DialWebSocket(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	c := newClient(func() error {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		return conn.Close()
	})
	go func() {
		for {
			var snap match.Snapshot
			if err := conn.ReadJSON(&snap); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					err = nil
				}
				c.finish(err)
				return
			}
			if !c.deliver(snap) {
				c.finish(nil)
				return
			}
		}
	}()
	return c, nil
}

func (c *Client) readLines(r *bufio.Reader) error {
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var snap match.Snapshot
		if err := json.Unmarshal(line, &snap); err != nil {
			return err
		}
		if !c.deliver(snap) {
			return nil
		}
	}
}

func (c *Client) deliver(snap match.Snapshot) bool {
	select {
	case c.snapshots <- snap:
		return true
	case <-c.done:
		return false
	}
}

func (c *Client) finish(err error) {
	c.errMu.Lock()
	c.err = err
	c.errMu.Unlock()
	close(c.snapshots)
}

// Snapshots is closed when the feed ends; Err then reports why.
func (c *Client) Snapshots() <-chan match.Snapshot {
	return c.snapshots
}

func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.closeFn()
	})
	return err
}
