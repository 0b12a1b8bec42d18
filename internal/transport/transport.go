// Package transport owns the WebSocket connection, adapted from the
// teacher's read/write pump pair (rswebdev-schlangen engine/network.go)
// but pointed outward: this dials a slither.io-compatible server
// instead of accepting upgrades from one.
package transport

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Send after Close has been called.
var ErrClosed = errors.New("transport: connection closed")

// Origin and UserAgent are the headers Dial sends on the opening
// request; the server's admission policy checks both (§6).
const (
	Origin    = "http://slither.io"
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Conn wraps a gorilla/websocket client connection with a buffered,
// ordered write path and a cancellable read loop, matching the
// concurrency model of §5: a single sender goroutine preserves the
// ordering guarantee that a send initiated first completes on the wire
// first.
type Conn struct {
	ws     *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
	logger *log.Logger
}

// Dial opens a WebSocket connection to url with the Origin/User-Agent
// headers §4.B and §6 require.
func Dial(ctx context.Context, url string, logger *log.Logger) (*Conn, error) {
	if logger == nil {
		logger = log.Default()
	}
	header := http.Header{}
	header.Set("Origin", Origin)
	header.Set("User-Agent", UserAgent)

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}

	c := &Conn{
		ws:     ws,
		sendCh: make(chan []byte, 32),
		done:   make(chan struct{}),
		logger: logger,
	}
	return c, nil
}

// Send enqueues a binary frame for the write pump. It never blocks the
// caller past the channel buffer; it returns ErrClosed once Close has
// run.
func (c *Conn) Send(frame []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.sendCh <- frame:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// ReadOne blocks for a single inbound binary frame, skipping any
// non-binary messages. It is used by the handshake stage, which needs
// synchronous request/response pairs before the steady-state ReadLoop
// takes over.
func (c *Conn) ReadOne() ([]byte, error) {
	for {
		select {
		case <-c.done:
			return nil, ErrClosed
		default:
		}
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		return data, nil
	}
}

// ReadLoop blocks reading binary frames and invokes handler for each,
// in receive order (§5 ordering guarantee (a)). It returns when the
// connection closes or ctx is canceled.
func (c *Conn) ReadLoop(ctx context.Context, handler func([]byte)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return ErrClosed
		default:
		}

		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			return err
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		handler(data)
	}
}

// WriteLoop drains sendCh onto the wire until Close is called or ctx is
// canceled, the write-side half of the structured concurrency model in
// §5.
func (c *Conn) WriteLoop(ctx context.Context) {
	for {
		select {
		case frame, ok := <-c.sendCh:
			if !ok {
				return
			}
			c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				c.logger.Printf("[transport] write error: %v", err)
				return
			}
		case <-ctx.Done():
			return
		case <-c.done:
			return
		}
	}
}

// Close releases the WebSocket, guaranteed closure on any exit path per
// §5's resource model.
func (c *Conn) Close() error {
	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}
	return c.ws.Close()
}
