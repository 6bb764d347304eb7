package logbuf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogMessage(t *testing.T) {
	r, err := New(8)
	require.NoError(t, err)
	LogMessage(r, []byte("boot ok"))
	require.True(t, r.IsFull())

	// best effort: the overflow is dropped silently
	LogMessage(r, []byte("more"))
	require.Equal(t, 7, r.Len())

	var out bytes.Buffer
	require.NoError(t, Flush(r, &out))
	require.Equal(t, "boot ok", out.String())
	require.True(t, r.IsEmpty())
}

func TestLogMessageFramedRoundTrip(t *testing.T) {
	testCases := []struct {
		name     string
		alg      Algorithm
		payloads []string
	}{
		{"crc8 single", CRC8, []string{"boot ok"}},
		{"crc8 empty payload", CRC8, []string{""}},
		{"crc8 multiple", CRC8, []string{"System initialized...", "", "Sensor failed at T=123ms"}},
		{"xor multiple", XORFold, []string{"a", "bb", "ccc"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := New(128)
			require.NoError(t, err)
			codec := Codec{Algorithm: tc.alg}
			for _, p := range tc.payloads {
				require.NoError(t, codec.LogMessageFramed(r, []byte(p)))
			}
			records := codec.Drain(r)
			require.Len(t, records, len(tc.payloads))
			for n, rec := range records {
				require.True(t, rec.Valid, "record %d", n)
				require.NoError(t, rec.Err)
				require.Equal(t, tc.payloads[n], string(rec.Payload))
			}
			require.True(t, r.IsEmpty())
		})
	}
}

func TestLogMessageFramedTooLong(t *testing.T) {
	r, err := New(512)
	require.NoError(t, err)
	var codec Codec
	require.Equal(t, ErrMessageTooLong, codec.LogMessageFramed(r, make([]byte, MaxPayload+1)))
	require.True(t, r.IsEmpty()) // rejected up front, nothing queued

	require.NoError(t, codec.LogMessageFramed(r, make([]byte, MaxPayload)))
	records := codec.Drain(r)
	require.Len(t, records, 1)
	require.True(t, records[0].Valid)
	require.Len(t, records[0].Payload, MaxPayload)
}

func TestLogMessageFramedTruncation(t *testing.T) {
	// 8 usable bytes cannot hold "too long!!" plus framing: the
	// frame is left truncated and flagged on drain.
	r, err := New(9)
	require.NoError(t, err)
	var codec Codec
	require.Equal(t, ErrBufferFull, codec.LogMessageFramed(r, []byte("too long!!")))

	records := codec.Drain(r)
	require.Len(t, records, 1)
	require.False(t, records[0].Valid)
	require.Equal(t, ErrTruncated, records[0].Err)
	require.True(t, r.IsEmpty())
}

func TestDrainDetectsCorruption(t *testing.T) {
	for _, alg := range []Algorithm{CRC8, XORFold} {
		codec := Codec{Algorithm: alg}
		payload := []byte("boot ok")
		// flip each bit of each queued byte, checksum included
		for pos := 0; pos < len(payload)+frameOverhead; pos++ {
			for bit := uint(0); bit < 8; bit++ {
				r, err := New(32)
				require.NoError(t, err)
				require.NoError(t, codec.LogMessageFramed(r, payload))
				if pos == 0 {
					// corrupting the length prefix desyncs framing
					// instead; skip it here, TestDrainBudget covers
					// the wedged-frame path.
					continue
				}
				r.buf[pos] ^= 1 << bit

				records := codec.Drain(r)
				require.Len(t, records, 1, "%v pos=%d bit=%d", alg, pos, bit)
				rec := records[0]
				require.False(t, rec.Valid, "%v pos=%d bit=%d", alg, pos, bit)
				var cerr *ChecksumError
				require.IsType(t, cerr, rec.Err)
				require.Contains(t, rec.Err.Error(), "checksum mismatch")
			}
		}
	}
}

func TestDrainMixedAlgorithms(t *testing.T) {
	// a consumer folding what a producer framed with CRC8 must see
	// the frame as corrupt, not silently accept it
	r, err := New(32)
	require.NoError(t, err)
	require.NoError(t, Codec{Algorithm: CRC8}.LogMessageFramed(r, []byte("boot ok")))
	records := Codec{Algorithm: XORFold}.Drain(r)
	require.Len(t, records, 1)
	require.False(t, records[0].Valid)
}

func TestDrainBudget(t *testing.T) {
	r, err := New(64)
	require.NoError(t, err)
	var codec Codec
	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, codec.LogMessageFramed(r, []byte(msg)))
	}

	// "one" and "two" cost 5 bytes each: a 12-byte budget covers
	// exactly two frames and leaves "three" queued.
	records := codec.DrainBudget(r, 12)
	require.Len(t, records, 2)
	require.Equal(t, "one", string(records[0].Payload))
	require.Equal(t, "two", string(records[1].Payload))
	require.Equal(t, 7, r.Len())

	records = codec.DrainBudget(r, 0)
	require.Len(t, records, 1)
	require.Equal(t, "three", string(records[0].Payload))
	require.True(t, r.IsEmpty())
}

func TestDrainBudgetOversizedFrame(t *testing.T) {
	// a frame bigger than the whole budget still drains, one frame
	// per call, instead of sitting in the ring until it fills up and
	// blocks the producer for good
	r, err := New(16)
	require.NoError(t, err)
	var codec Codec
	require.NoError(t, codec.LogMessageFramed(r, []byte("0123456789"))) // 12 bytes framed

	records := codec.DrainBudget(r, 8)
	require.Len(t, records, 1)
	require.True(t, records[0].Valid)
	require.Equal(t, "0123456789", string(records[0].Payload))
	require.True(t, r.IsEmpty())

	// with two oversized frames the budget paces them out one call
	// at a time
	big, err := New(64)
	require.NoError(t, err)
	require.NoError(t, codec.LogMessageFramed(big, []byte("first big frame")))
	require.NoError(t, codec.LogMessageFramed(big, []byte("second big frame")))
	records = codec.DrainBudget(big, 8)
	require.Len(t, records, 1)
	require.Equal(t, "first big frame", string(records[0].Payload))
	records = codec.DrainBudget(big, 8)
	require.Len(t, records, 1)
	require.Equal(t, "second big frame", string(records[0].Payload))
	require.True(t, big.IsEmpty())
}

func TestDrainBudgetIncompleteFrame(t *testing.T) {
	r, err := New(16)
	require.NoError(t, err)
	var codec Codec

	// a length prefix promising more bytes than are queued: left for
	// the producer to finish
	require.True(t, r.Push(5))
	require.True(t, r.Push('h'))
	require.True(t, r.Push('i'))
	require.Empty(t, codec.DrainBudget(r, 0))
	require.Equal(t, 3, r.Len())

	// but a full buffer can never complete the frame: drain it as
	// invalid so the producer is not wedged forever
	r.Reset()
	require.True(t, r.Push(200))
	for r.Push(0xee) {
	}
	require.True(t, r.IsFull())
	records := codec.DrainBudget(r, 0)
	require.Len(t, records, 1)
	require.False(t, records[0].Valid)
	require.Equal(t, ErrTruncated, records[0].Err)
	require.True(t, r.IsEmpty())
}

func TestFlushWriteError(t *testing.T) {
	r, err := New(8)
	require.NoError(t, err)
	LogMessage(r, []byte("abc"))

	failing, werr := New(2) // 1 usable byte, fails on the 2nd write
	require.NoError(t, werr)
	require.Equal(t, ErrBufferFull, Flush(r, failing))
}
