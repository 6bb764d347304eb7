package uplink

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/uartlog.go/pkg/logbuf"
)

// Config provides common options to set up a Flusher.
type Config struct {
	// Device identifies the log source in uplink topics. Defaults to
	// the machine ID when left empty.
	Device string
	// Checksum names the framing algorithm: "crc8" or "xor".
	Checksum string
	// Capacity is the allocated size of the log buffer in bytes.
	Capacity int
	// Interval is the flush tick.
	Interval time.Duration
	// Budget bounds the bytes drained per tick, 0 for no limit. A
	// budget smaller than a frame still drains one frame per tick.
	Budget int
}

var defaultConfig = Config{
	Checksum: "crc8",
	Capacity: 256,
	Interval: DefaultInterval,
}

func init() {
	if val := os.Getenv("UARTLOG_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv("UARTLOG_CHECKSUM"); val != "" {
		defaultConfig.Checksum = val
	}
	if val := os.Getenv("UARTLOG_CAPACITY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.Capacity = n
		}
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Device ID reported with records.")
	flag.StringVar(&defaultConfig.Checksum, "checksum", defaultConfig.Checksum, "Frame checksum algorithm: crc8|xor.")
	flag.IntVar(&defaultConfig.Capacity, "capacity", defaultConfig.Capacity, "Log buffer capacity in bytes.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Flush interval.")
	flag.IntVar(&defaultConfig.Budget, "budget", defaultConfig.Budget, "Max bytes flushed per tick, 0 for no limit.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// DeviceID returns the configured device ID, or the machine ID.
func (c *Config) DeviceID() string {
	if c.Device != "" {
		return c.Device
	}
	return MachineID()
}

// NewFlusher creates a Flusher using current config. Sinks are added
// by the caller.
func (c *Config) NewFlusher() (*Flusher, error) {
	alg, err := logbuf.ParseAlgorithm(c.Checksum)
	if err != nil {
		return nil, err
	}
	f, err := NewFlusher(c.Capacity)
	if err != nil {
		return nil, err
	}
	f.Codec = logbuf.Codec{Algorithm: alg}
	f.Interval = c.Interval
	f.Budget = c.Budget
	return f, nil
}
