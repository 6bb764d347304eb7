package stream

import (
	"context"
	"encoding/binary"
	"io"

	"github.com/robotalks/uartlog.go/pkg/logbuf"
)

// ReadWriter implements uplink.Sink over a byte stream.
// Each record is prefixed by 4-byte (little-endian) indicating the length.
// Records which failed validation are dropped: the stream carries
// clean payloads only.
type ReadWriter struct {
	io.ReadWriter
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{s}
}

// SendRecord implements uplink.Sink.
func (p *ReadWriter) SendRecord(_ context.Context, rec logbuf.Record) error {
	if !rec.Valid {
		return nil
	}
	size := uint32(len(rec.Payload))
	if err := binary.Write(p, binary.LittleEndian, size); err != nil {
		return err
	}
	_, err := p.Write(rec.Payload)
	return err
}

// ReadRecord reads back one length-prefixed record, for the peer end
// of the stream.
func (p *ReadWriter) ReadRecord() ([]byte, error) {
	var size uint32
	if err := binary.Read(p, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	rec := make([]byte, size)
	_, err := io.ReadFull(p, rec)
	return rec, err
}
