package uplink

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/uartlog.go/pkg/logbuf"
)

// Flusher owns the log buffer and serializes producer and consumer
// access to it. Producers log through it from any goroutine; Run
// drains complete frames every tick and hands them to the sinks.
type Flusher struct {
	Codec    logbuf.Codec
	Sinks    []Sink
	Interval time.Duration
	// Budget bounds the bytes drained per tick, 0 for no limit. At
	// least one frame is drained per tick even when it exceeds the
	// budget, so a small budget paces the flush without stalling it.
	Budget int

	ring *logbuf.Ring
	lock sync.Mutex
}

// DefaultInterval is the tick interval when none is configured.
const DefaultInterval = 100 * time.Millisecond

// NewFlusher creates a Flusher over a fresh buffer.
func NewFlusher(capacity int) (*Flusher, error) {
	ring, err := logbuf.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Flusher{Interval: DefaultInterval, ring: ring}, nil
}

// Log queues a raw unframed message, best effort.
func (f *Flusher) Log(msg []byte) {
	f.lock.Lock()
	logbuf.LogMessage(f.ring, msg)
	f.lock.Unlock()
}

// LogFramed queues a checksum-framed message.
func (f *Flusher) LogFramed(msg []byte) error {
	f.lock.Lock()
	err := f.Codec.LogMessageFramed(f.ring, msg)
	f.lock.Unlock()
	return err
}

// Pending returns the number of queued bytes.
func (f *Flusher) Pending() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.ring.Len()
}

// Flush drains one budget's worth of complete frames and forwards
// the records. It is also called on every tick by Run.
func (f *Flusher) Flush(ctx context.Context) {
	f.lock.Lock()
	records := f.Codec.DrainBudget(f.ring, f.Budget)
	f.lock.Unlock()
	f.forward(ctx, records)
}

func (f *Flusher) forward(ctx context.Context, records []logbuf.Record) {
	for _, rec := range records {
		if rec.Valid {
			glog.V(2).Infof("record %d bytes", len(rec.Payload))
		} else {
			glog.Warningf("bad record (%d bytes): %v", len(rec.Payload), rec.Err)
		}
		for _, sink := range f.Sinks {
			if err := sink.SendRecord(ctx, rec); err != nil {
				glog.Errorf("sink error: %v", err)
			}
		}
	}
}

// Run implements framework.Runnable: it flushes every Interval until
// the context is canceled, with one final flush so queued records
// are not lost on shutdown.
func (f *Flusher) Run(ctx context.Context) error {
	interval := f.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	timer := time.Tick(interval)
	for {
		select {
		case <-ctx.Done():
			// ignore the budget so nothing stays queued
			f.lock.Lock()
			records := f.Codec.Drain(f.ring)
			f.lock.Unlock()
			f.forward(context.Background(), records)
			return ctx.Err()
		case <-timer:
			f.Flush(ctx)
		}
	}
}
