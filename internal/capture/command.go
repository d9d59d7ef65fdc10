package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/tuispeak/internal/logging"
)

const (
	defaultStartupGrace = 200 * time.Millisecond
	defaultStopGrace    = 2 * time.Second
	maxStderrBytes      = 4096
)

// CommandDevice captures audio by running an external program that writes raw PCM to stdout.
type CommandDevice struct {
	Command []string
	Format  Format
	// StartupGrace is how long Open waits for the program to fail before reporting success.
	StartupGrace time.Duration
	// StopGrace is how long Close waits after an interrupt before killing the program.
	StopGrace time.Duration
	Logger    logging.Logger
}

// NewCommandDevice returns a device running command, or arecord when command is empty.
func NewCommandDevice(command []string, format Format, logger logging.Logger) *CommandDevice {
	if len(command) == 0 {
		command = DefaultCommand(format)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CommandDevice{
		Command:      command,
		Format:       format,
		StartupGrace: defaultStartupGrace,
		StopGrace:    defaultStopGrace,
		Logger:       logger,
	}
}

// Open starts the capture program.
func (d *CommandDevice) Open(ctx context.Context) (Stream, error) {
	if len(d.Command) == 0 || strings.TrimSpace(d.Command[0]) == "" {
		return nil, fmt.Errorf("%w: capture command is empty", ErrDeviceUnavailable)
	}
	path, err := exec.LookPath(d.Command[0])
	if err != nil {
		return nil, classify(err, "")
	}
	cmd := exec.Command(path, d.Command[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	stderr := &limitedBuffer{limit: maxStderrBytes}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, classify(err, stderr.String())
	}
	d.Logger.Debugw("capture program started", "command", strings.Join(d.Command, " "), "pid", cmd.Process.Pid)

	chunkSize := d.Format.BytesPerSecond() / 10
	if chunkSize <= 0 {
		chunkSize = 3200
	}
	s := &commandStream{
		cmd:     cmd,
		stdout:  stdout,
		stderr:  stderr,
		format:  d.Format,
		chunks:  make(chan []byte, 64),
		exited:  make(chan struct{}),
		stop:    make(chan struct{}),
		grace:   d.StopGrace,
		logger:  d.Logger,
		chunkSz: chunkSize,
	}
	go s.pump()

	grace := d.StartupGrace
	if grace <= 0 {
		grace = defaultStartupGrace
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-s.exited:
		if s.closedByUs() {
			return nil, fmt.Errorf("%w: capture stopped", ErrDeviceUnavailable)
		}
		return nil, classify(s.waitErr, stderr.String())
	case <-ctx.Done():
		_ = s.Close()
		return nil, ctx.Err()
	case <-timer.C:
		return s, nil
	}
}

type commandStream struct {
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	stderr  *limitedBuffer
	format  Format
	chunks  chan []byte
	exited  chan struct{}
	stop    chan struct{}
	grace   time.Duration
	logger  logging.Logger
	chunkSz int

	waitErr  error
	mu       sync.Mutex
	closing  bool
	stopOnce sync.Once
}

func (s *commandStream) Chunks() <-chan []byte { return s.chunks }

func (s *commandStream) Format() Format { return s.format }

func (s *commandStream) pump() {
	defer close(s.exited)
	defer close(s.chunks)
	for {
		buf := make([]byte, s.chunkSz)
		n, err := io.ReadFull(s.stdout, buf)
		if n > 0 {
			select {
			case s.chunks <- buf[:n]:
			case <-s.stop:
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Warnf("capture read failed: %v", err)
			}
			break
		}
	}
	s.waitErr = s.cmd.Wait()
}

func (s *commandStream) closedByUs() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// Close interrupts the program so it can flush, then kills it after the grace period.
func (s *commandStream) Close() error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		<-s.exited
		return nil
	}
	s.closing = true
	s.mu.Unlock()

	select {
	case <-s.exited:
		return nil
	default:
	}
	if err := s.cmd.Process.Signal(os.Interrupt); err != nil {
		_ = s.cmd.Process.Kill()
	}
	grace := s.grace
	if grace <= 0 {
		grace = defaultStopGrace
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-s.exited:
	case <-timer.C:
		s.logger.Warnf("capture program ignored interrupt; killing pid %d", s.cmd.Process.Pid)
		s.stopOnce.Do(func() { close(s.stop) })
		_ = s.cmd.Process.Kill()
		<-s.exited
	}
	return nil
}

func classify(err error, stderr string) error {
	msg := strings.ToLower(stderr)
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	case errors.Is(err, os.ErrPermission),
		strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "access denied"),
		strings.Contains(msg, "not permitted"):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, detail(err, stderr))
	default:
		return fmt.Errorf("%w: %s", ErrDeviceUnavailable, detail(err, stderr))
	}
}

func detail(err error, stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return stderr
	}
	if err != nil {
		return err.Error()
	}
	return "capture program exited"
}

type limitedBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
