package logbuf

import "io"

// Record is one framed message recovered from the buffer.
type Record struct {
	Payload []byte
	Valid   bool
	// Err tells why Valid is false: *ChecksumError or ErrTruncated.
	Err error
}

// Drain pops every unread byte, splits frames on the length prefix
// and revalidates each checksum. The buffer is left empty. A
// trailing frame cut short by a full buffer comes back with Valid
// false and Err set to ErrTruncated.
func (c Codec) Drain(r *Ring) []Record {
	var records []Record
	for {
		rec, ok := c.drainFrame(r)
		if !ok {
			return records
		}
		records = append(records, rec)
	}
}

// DrainBudget drains at most budget bytes of complete frames, so a
// periodic flusher can bound the work per tick the way a DMA
// transfer bounds a burst. The first frame of a call is drained even
// when it alone exceeds the budget, so an oversized frame delays the
// flush but never wedges it. A frame whose bytes are not all queued
// yet is left for the next call, unless the buffer is full and the
// frame can never complete, in which case it is drained as invalid
// to unwedge the producer. budget <= 0 means no limit.
func (c Codec) DrainBudget(r *Ring, budget int) []Record {
	var records []Record
	spent := 0
	for {
		n, ok := r.Peek()
		if !ok {
			return records
		}
		size := int(n) + frameOverhead
		if budget > 0 && spent > 0 && spent+size > budget {
			return records
		}
		if r.Len() < size && !r.IsFull() {
			return records
		}
		rec, _ := c.drainFrame(r)
		records = append(records, rec)
		spent += size
	}
}

func (c Codec) drainFrame(r *Ring) (rec Record, ok bool) {
	n, ok := r.Pop()
	if !ok {
		return
	}
	rec.Payload = make([]byte, 0, n)
	for i := 0; i < int(n); i++ {
		b, popped := r.Pop()
		if !popped {
			rec.Err = ErrTruncated
			return
		}
		rec.Payload = append(rec.Payload, b)
	}
	sum, popped := r.Pop()
	if !popped {
		rec.Err = ErrTruncated
		return
	}
	if want := c.Algorithm.Sum(rec.Payload); want != sum {
		rec.Err = &ChecksumError{Want: want, Got: sum}
		return
	}
	rec.Valid = true
	return
}

// Flush pops every unread byte and writes it to w, oldest first,
// without interpreting frames. This is the raw "dump the queue down
// the line" path; a write error leaves the bytes already popped
// unrecoverable, the same way a broken line loses what was sent.
func Flush(r *Ring, w io.ByteWriter) error {
	for {
		b, ok := r.Pop()
		if !ok {
			return nil
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
	}
}
