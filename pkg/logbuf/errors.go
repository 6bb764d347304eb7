package logbuf

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacity indicates the requested capacity cannot hold the
	// reserved slot plus at least one byte of data.
	ErrCapacity = errors.New("capacity must be at least 2")
	// ErrBufferFull indicates a push was rejected. The buffer keeps
	// whatever was queued before; the caller decides what to do with
	// the rest.
	ErrBufferFull = errors.New("buffer full")
	// ErrBufferEmpty indicates there was nothing to pop. This is the
	// natural end-of-drain signal, not a fault.
	ErrBufferEmpty = errors.New("buffer empty")
	// ErrMessageTooLong indicates a payload too large for the one-byte
	// length prefix of a frame.
	ErrMessageTooLong = errors.New("message too long")
	// ErrTruncated indicates the buffer ran out before a frame was
	// complete, usually because the producer hit a full buffer
	// mid-frame.
	ErrTruncated = errors.New("frame truncated")
)

// ChecksumError reports a frame whose checksum did not revalidate.
type ChecksumError struct {
	Want byte
	Got  byte
}

// Error implements error.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: want %#02x, got %#02x", e.Want, e.Got)
}
