package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tobiajo/whirlpool/protocol"
)

// MalformedPolicy decides what happens to input lines that fail to decode.
type MalformedPolicy string

const (
	// Abort stops the run with the decode error.
	Abort MalformedPolicy = "abort"
	// Skip logs the line and moves on; node state is untouched.
	Skip MalformedPolicy = "skip"
)

func ParsePolicy(s string) (MalformedPolicy, error) {
	switch MalformedPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case Abort:
		return Abort, nil
	case Skip:
		return Skip, nil
	default:
		return "", fmt.Errorf("unknown malformed policy %q", s)
	}
}

// Stepper consumes one inbound envelope and returns the reply, if any.
type Stepper interface {
	Step(in protocol.Envelope) (*protocol.Envelope, error)
}

type Config struct {
	Policy       MalformedPolicy
	MaxLineBytes int
	Logger       *logrus.Entry
}

// Runner feeds decoded input lines through a Stepper one at a time and
// writes the replies in input order.
type Runner struct {
	node    Stepper
	reader  *LineReader
	writer  *LineWriter
	policy  MalformedPolicy
	logger  *logrus.Entry
	skipped int
}

func NewRunner(node Stepper, in io.Reader, out io.Writer, cfg Config) *Runner {
	policy := cfg.Policy
	if policy == "" {
		policy = Abort
	}
	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		logger = l.WithField("prefix", "transport")
	}
	return &Runner{
		node:   node,
		reader: NewLineReader(in, cfg.MaxLineBytes),
		writer: NewLineWriter(out),
		policy: policy,
		logger: logger,
	}
}

// Run processes input until it is exhausted, a message fails, or ctx is
// cancelled. Cancellation is checked between messages.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := r.reader.Next()
		if errors.Is(err, io.EOF) {
			r.logger.WithField("lines", r.reader.Line()).Info("Input exhausted")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input line %d: %w", r.reader.Line()+1, err)
		}

		if err := r.handle(line); err != nil {
			return err
		}
	}
}

func (r *Runner) handle(line []byte) error {
	lineNo := r.reader.Line()

	in, err := protocol.Decode(line)
	if err != nil {
		if r.policy == Skip {
			r.skipped++
			r.logger.WithError(err).WithField("line", lineNo).Warn("Skipping malformed message")
			return nil
		}
		return fmt.Errorf("input line %d: %w", lineNo, err)
	}
	r.logger.WithField("line", lineNo).Debugf("Received %s", line)

	reply, err := r.node.Step(in)
	if err != nil {
		return fmt.Errorf("input line %d (%s): %w", lineNo, in, err)
	}
	if reply == nil {
		return nil
	}

	buf, err := protocol.Encode(*reply)
	if err != nil {
		return fmt.Errorf("input line %d (%s): %w", lineNo, in, err)
	}
	if err := r.writer.Write(buf); err != nil {
		return fmt.Errorf("input line %d (%s): %w", lineNo, in, err)
	}
	r.logger.Debugf("Sent %s", buf)
	return nil
}

// Skipped is the number of malformed lines dropped under the Skip policy.
func (r *Runner) Skipped() int {
	return r.skipped
}
