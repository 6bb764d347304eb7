package logbuf

// Ring is a fixed-capacity circular byte buffer with a write cursor
// (head) and a read cursor (tail). One slot is always kept empty so
// full and empty are distinguishable from the cursors alone: the
// usable capacity is one byte less than the allocated capacity.
//
//	head == tail               empty
//	(head+1) % capacity == tail  full
type Ring struct {
	buf  []byte
	head int
	tail int
}

// MinCapacity is the smallest allowed capacity: one usable slot plus
// the reserved one.
const MinCapacity = 2

// New creates a Ring. The storage is allocated once and never grows.
func New(capacity int) (*Ring, error) {
	if capacity < MinCapacity {
		return nil, ErrCapacity
	}
	return &Ring{buf: make([]byte, capacity)}, nil
}

// Cap returns the usable capacity in bytes.
func (r *Ring) Cap() int {
	return len(r.buf) - 1
}

// Len returns the number of unread bytes.
func (r *Ring) Len() int {
	if r.head >= r.tail {
		return r.head - r.tail
	}
	return len(r.buf) + r.head - r.tail
}

// Free returns the number of bytes which can still be pushed.
func (r *Ring) Free() int {
	return r.Cap() - r.Len()
}

// IsEmpty indicates there's nothing to pop.
func (r *Ring) IsEmpty() bool {
	return r.head == r.tail
}

// IsFull indicates the next Push will be rejected.
func (r *Ring) IsFull() bool {
	return (r.head+1)%len(r.buf) == r.tail
}

// Push stores one byte and returns false when the buffer is full.
// Unread data is never overwritten: the rejection is the
// back-pressure signal to the producer, which decides to drop,
// retry or slow down.
func (r *Ring) Push(b byte) bool {
	if r.IsFull() {
		return false
	}
	r.buf[r.head] = b
	r.head = (r.head + 1) % len(r.buf)
	return true
}

// Pop removes and returns the oldest unread byte.
func (r *Ring) Pop() (byte, bool) {
	if r.IsEmpty() {
		return 0, false
	}
	b := r.buf[r.tail]
	r.tail = (r.tail + 1) % len(r.buf)
	return b, true
}

// Peek returns the oldest unread byte without consuming it.
func (r *Ring) Peek() (byte, bool) {
	if r.IsEmpty() {
		return 0, false
	}
	return r.buf[r.tail], true
}

// Reset discards all unread bytes.
func (r *Ring) Reset() {
	r.head, r.tail = 0, 0
}

// WriteByte implements io.ByteWriter over Push.
func (r *Ring) WriteByte(b byte) error {
	if !r.Push(b) {
		return ErrBufferFull
	}
	return nil
}

// ReadByte implements io.ByteReader over Pop.
func (r *Ring) ReadByte() (byte, error) {
	b, ok := r.Pop()
	if !ok {
		return 0, ErrBufferEmpty
	}
	return b, nil
}
