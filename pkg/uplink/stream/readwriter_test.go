package stream

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uartlog.go/pkg/logbuf"
)

func TestReadWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	ctx := context.Background()

	require.NoError(t, rw.SendRecord(ctx, logbuf.Record{Payload: []byte("boot ok"), Valid: true}))
	// invalid records never reach the stream
	require.NoError(t, rw.SendRecord(ctx, logbuf.Record{Payload: []byte("garbage"), Err: logbuf.ErrTruncated}))
	require.NoError(t, rw.SendRecord(ctx, logbuf.Record{Valid: true}))
	require.NoError(t, rw.SendRecord(ctx, logbuf.Record{Payload: []byte("second"), Valid: true}))

	rec, err := rw.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, "boot ok", string(rec))
	rec, err = rw.ReadRecord()
	require.NoError(t, err)
	require.Empty(t, rec)
	rec, err = rw.ReadRecord()
	require.NoError(t, err)
	require.Equal(t, "second", string(rec))
	_, err = rw.ReadRecord()
	require.Equal(t, io.EOF, err)
}
