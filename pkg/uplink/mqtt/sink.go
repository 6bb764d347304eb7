package mqtt

import (
	"context"

	"github.com/robotalks/uartlog.go/pkg/logbuf"
)

// Sink publishes records to the broker: validated payloads go to
// <prefix><device>/log, records which failed validation go to
// <prefix><device>/log/corrupt so a monitor can count and inspect
// them without trusting their content.
type Sink struct {
	Queue  *Queue
	Device string
}

// NewSink creates a Sink publishing as device.
func NewSink(q *Queue, device string) *Sink {
	return &Sink{Queue: q, Device: device}
}

// SendRecord implements uplink.Sink.
func (s *Sink) SendRecord(_ context.Context, rec logbuf.Record) error {
	topic := s.Device + "/log"
	if !rec.Valid {
		topic += "/corrupt"
	}
	token := s.Queue.Pub(topic, rec.Payload)
	token.Wait()
	return token.Error()
}
