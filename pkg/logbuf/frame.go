package logbuf

// A frame is queued as
//
//	[len][payload bytes...][checksum]
//
// where len is one byte holding the payload length and the checksum
// covers the payload only. The length prefix lets the consumer find
// frame boundaries without a sentinel byte which could collide with
// payload data.

// MaxPayload is the largest payload a single frame can carry.
const MaxPayload = 255

// frameOverhead is the length prefix plus the checksum byte.
const frameOverhead = 2

// Codec frames messages with a checksum and recovers them again.
// The zero value uses CRC8.
type Codec struct {
	Algorithm Algorithm
}

// LogMessage queues msg byte by byte and stops silently at the first
// rejected push. Partial messages are an accepted property of a
// lossy transport log; use LogMessageFramed when the consumer needs
// to tell them apart.
func LogMessage(r *Ring, msg []byte) {
	for _, b := range msg {
		if !r.Push(b) {
			break
		}
	}
}

// LogMessageFramed frames msg and queues it. On a full buffer the
// frame is left truncated (there is no rollback) and ErrBufferFull
// is returned; the consumer will flag the truncated frame when
// draining. Payloads longer than MaxPayload are rejected up front
// with ErrMessageTooLong and nothing is queued.
func (c Codec) LogMessageFramed(r *Ring, msg []byte) error {
	if len(msg) > MaxPayload {
		return ErrMessageTooLong
	}
	sum := c.Algorithm.Sum(msg)
	if !r.Push(byte(len(msg))) {
		return ErrBufferFull
	}
	for _, b := range msg {
		if !r.Push(b) {
			return ErrBufferFull
		}
	}
	if !r.Push(sum) {
		return ErrBufferFull
	}
	return nil
}
