package websocket

import (
	"context"

	"golang.org/x/net/websocket"

	"github.com/robotalks/uartlog.go/pkg/logbuf"
)

// Sink implements uplink.Sink over a websocket, one record per
// message. Records which failed validation are dropped.
type Sink websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *Sink {
	return (*Sink)(conn)
}

// SendRecord implements uplink.Sink.
func (s *Sink) SendRecord(_ context.Context, rec logbuf.Record) error {
	if !rec.Valid {
		return nil
	}
	return websocket.Message.Send((*websocket.Conn)(s), rec.Payload)
}
