package sh

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/uartlog.go/pkg/logbuf"
	"github.com/robotalks/uartlog.go/pkg/uplink"
)

// Shell provides an ishell backed console for poking a log buffer:
// queue messages raw or framed, corrupt one on purpose, then drain
// and watch validation catch it.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell *ishell.Shell
	Ring  *logbuf.Ring
	Codec logbuf.Codec
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&LogCmd,
		&LogFramedCmd,
		&CorruptCmd,
		&DrainCmd,
		&FlushCmd,
		&StatusCmd,
		&ResetCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell over a buffer built from conf.
func New(conf *uplink.Config) (*Shell, error) {
	alg, err := logbuf.ParseAlgorithm(conf.Checksum)
	if err != nil {
		return nil, err
	}
	ring, err := logbuf.New(conf.Capacity)
	if err != nil {
		return nil, err
	}
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell: ishell.New(),
		Ring:  ring,
		Codec: logbuf.Codec{Algorithm: alg},
	}
	s.Shell.Set(shellKey, s)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	s.refreshPrompt()
	return s, nil
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

func (s *Shell) refreshPrompt() {
	s.Shell.SetPrompt(fmt.Sprintf("[%d/%d] > ", s.Ring.Len(), s.Ring.Cap()))
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

type recordOut struct {
	Message string `json:"message"`
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
}

func (s *Shell) printRecords(c *ishell.Context, records []logbuf.Record) {
	if s.OutputJSON {
		out := make([]recordOut, len(records))
		for n, rec := range records {
			out[n] = recordOut{Message: string(rec.Payload), Valid: rec.Valid}
			if rec.Err != nil {
				out[n].Error = rec.Err.Error()
			}
		}
		data, err := json.Marshal(out)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(data))
		return
	}
	if len(records) == 0 {
		c.Println("No records")
		return
	}
	for _, rec := range records {
		if rec.Valid {
			c.Printf("ok      %q\n", rec.Payload)
		} else {
			c.Printf("BAD     %q (%v)\n", rec.Payload, rec.Err)
		}
	}
}

func messageArg(c *ishell.Context) ([]byte, error) {
	if len(c.Args) == 0 {
		return nil, fmt.Errorf("MESSAGE required")
	}
	return []byte(strings.Join(c.Args, " ")), nil
}

var (
	// LogCmd queues a raw message, best effort.
	LogCmd = ishell.Cmd{
		Name:    "log",
		Aliases: []string{"l"},
		Help:    "MESSAGE (queue raw bytes, dropped silently on overflow)",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			msg, err := messageArg(c)
			if err != nil {
				c.Err(err)
				return
			}
			logbuf.LogMessage(s.Ring, msg)
			s.refreshPrompt()
		},
	}

	// LogFramedCmd queues a checksum framed message.
	LogFramedCmd = ishell.Cmd{
		Name:    "logf",
		Aliases: []string{"f"},
		Help:    "MESSAGE (queue with length prefix and checksum)",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			msg, err := messageArg(c)
			if err != nil {
				c.Err(err)
				return
			}
			if err = s.Codec.LogMessageFramed(s.Ring, msg); err != nil {
				c.Err(err)
			}
			s.refreshPrompt()
		},
	}

	// CorruptCmd frames a message but flips one payload bit after
	// the checksum is computed, so draining must flag it.
	CorruptCmd = ishell.Cmd{
		Name:    "corrupt",
		Aliases: []string{"x"},
		Help:    "MESSAGE (queue framed with a flipped payload bit)",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			msg, err := messageArg(c)
			if err != nil {
				c.Err(err)
				return
			}
			if len(msg) > logbuf.MaxPayload {
				c.Err(logbuf.ErrMessageTooLong)
				return
			}
			sum := s.Codec.Algorithm.Sum(msg)
			msg[0] ^= 0x01
			ok := s.Ring.Push(byte(len(msg)))
			for _, b := range msg {
				ok = ok && s.Ring.Push(b)
			}
			if ok = ok && s.Ring.Push(sum); !ok {
				c.Err(logbuf.ErrBufferFull)
			}
			s.refreshPrompt()
		},
	}

	// DrainCmd drains all frames and validates them.
	DrainCmd = ishell.Cmd{
		Name:    "drain",
		Aliases: []string{"d"},
		Help:    "(drain framed records and validate checksums)",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			s.printRecords(c, s.Codec.Drain(s.Ring))
			s.refreshPrompt()
		},
	}

	// FlushCmd dumps raw bytes without interpreting frames.
	FlushCmd = ishell.Cmd{
		Name: "flush",
		Help: "(dump raw queued bytes)",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var out bytes.Buffer
			if err := logbuf.Flush(s.Ring, &out); err != nil {
				c.Err(err)
				return
			}
			c.Printf("%q\n", out.Bytes())
			s.refreshPrompt()
		},
	}

	// StatusCmd prints cursor and capacity state.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			c.Printf("checksum=%s used=%d free=%d cap=%d empty=%v full=%v\n",
				s.Codec.Algorithm, s.Ring.Len(), s.Ring.Free(), s.Ring.Cap(),
				s.Ring.IsEmpty(), s.Ring.IsFull())
		},
	}

	// ResetCmd discards all queued bytes.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "(discard all queued bytes)",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			s.Ring.Reset()
			s.refreshPrompt()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	s, err := New(uplink.NewConfig())
	if err != nil {
		log.Fatalln(err)
	}
	s.Run(flag.Args()...)
}
