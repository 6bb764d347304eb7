// Package logbuf provides the device-side log transport buffer.
package logbuf

// The log buffer models the TX queue in front of a UART: a
// fixed-capacity byte ring the firmware logs into, drained later
// when the line (or the consumer) is ready. Messages can be queued
// raw or framed with a one-byte checksum so the consumer can tell
// corrupted or truncated records apart from good ones.
//
// The buffer is single-owner and lock-free. If a producer and a
// consumer live on different goroutines, access must be serialized
// externally (see package uplink).
//
// Producer: device firmware / instrumented code
// Consumer: uplink flusher
