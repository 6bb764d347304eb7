package uplink

import (
	"context"

	"github.com/robotalks/uartlog.go/pkg/logbuf"
)

// Sink receives records recovered from the log buffer.
type Sink interface {
	SendRecord(context.Context, logbuf.Record) error
}

// SendRecordFunc is the func form of Sink.
type SendRecordFunc func(context.Context, logbuf.Record) error

// SendRecord implements Sink.
func (f SendRecordFunc) SendRecord(ctx context.Context, rec logbuf.Record) error {
	return f(ctx, rec)
}
