package recorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuispeak/internal/capture"
	"github.com/verte-zerg/tuispeak/internal/logging"
	"github.com/verte-zerg/tuispeak/internal/model"
)

// Evaluator scores a finalized recording.
type Evaluator interface {
	Evaluate(ctx context.Context, sessionID string, req model.EvaluateRequest) (model.ScoreResult, error)
}

// Controller owns the capture device handle, the session buffer and the handoff to evaluation.
// One session exists at a time.
type Controller struct {
	device    capture.Device
	evaluator Evaluator
	reporter  Reporter
	logger    logging.Logger
	timeout   time.Duration
	newID     func() string
	now       func() time.Time

	mu         sync.Mutex
	session    *Session
	stream     capture.Stream
	pumpDone   chan struct{}
	opening    bool
	cancelOpen bool
	stopping   bool
	text       string
	topic      string

	inflight sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l logging.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithTimeout bounds each evaluation request. Zero means run to completion.
func WithTimeout(d time.Duration) Option { return func(c *Controller) { c.timeout = d } }

// WithIDGenerator overrides session id generation.
func WithIDGenerator(fn func() string) Option { return func(c *Controller) { c.newID = fn } }

// New returns an idle controller.
func New(device capture.Device, evaluator Evaluator, reporter Reporter, opts ...Option) *Controller {
	c := &Controller{
		device:    device,
		evaluator: evaluator,
		reporter:  reporter,
		logger:    logging.NewNop(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports whether a session is recording. Opening is returned while Start is
// waiting on the device.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opening {
		return Opening
	}
	if c.session != nil {
		return c.session.State
	}
	return Idle
}

// SetInput records the practice text and topic used by the next evaluation.
func (c *Controller) SetInput(text, topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.topic = topic
}

// Start opens the capture device and begins a new session.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.opening || c.session != nil {
		c.mu.Unlock()
		return ErrAlreadyRecording
	}
	c.opening = true
	c.mu.Unlock()

	stream, err := c.device.Open(ctx)

	c.mu.Lock()
	c.opening = false
	cancelled := c.cancelOpen
	c.cancelOpen = false
	if err == nil && cancelled {
		c.mu.Unlock()
		c.logger.Infow("recording cancelled while opening device")
		if cerr := stream.Close(); cerr != nil {
			c.logger.Warnw("failed to close capture stream", "error", cerr)
		}
		return nil
	}
	defer c.mu.Unlock()
	if err != nil {
		key := MsgDeviceUnavailable
		if errors.Is(err, ErrPermissionDenied) {
			key = MsgPermissionDenied
		}
		c.logger.Warnw("failed to open capture device", "error", err)
		c.reporter.Notify(Notification{Level: LevelWarning, Key: key, Err: err})
		return err
	}

	sess := &Session{ID: c.newID(), State: Recording, StartedAt: c.now()}
	done := make(chan struct{})
	c.session = sess
	c.stream = stream
	c.pumpDone = done
	go c.pump(sess, stream, done)

	c.logger.Infow("recording started", "session", sess.ID)
	c.reporter.StateChanged(Recording)
	c.reporter.Notify(Notification{Level: LevelInfo, Key: MsgRecordingStarted})
	return nil
}

func (c *Controller) pump(sess *Session, stream capture.Stream, done chan struct{}) {
	for chunk := range stream.Chunks() {
		c.mu.Lock()
		sess.append(chunk)
		c.mu.Unlock()
	}
	close(done)

	c.mu.Lock()
	lost := c.session == sess && !c.stopping
	c.mu.Unlock()
	if lost {
		c.logger.Warnw("capture stream ended unexpectedly", "session", sess.ID)
		c.reporter.Notify(Notification{Level: LevelWarning, Key: MsgDeviceUnavailable})
		if err := c.Stop(); err != nil {
			c.logger.Warnw("failed to stop after stream loss", "session", sess.ID, "error", err)
		}
	}
}

// Stop halts capture, releases the device, finalizes the session and hands the audio
// to evaluation in the background. It is a no-op while idle. A Stop during Opening
// cancels the pending Start.
func (c *Controller) Stop() error {
	sess, audio, ok, closeErr := c.halt()
	if !ok {
		return nil
	}

	c.mu.Lock()
	sess.PracticeText = c.text
	sess.Topic = c.topic
	c.reporter.Notify(Notification{Level: LevelInfo, Key: MsgRecordingStopped})
	c.inflight.Add(1)
	c.mu.Unlock()

	c.logger.Infow("recording stopped", "session", sess.ID, "duration", audio.Duration, "bytes", audio.PCMBytes)
	go func() {
		defer c.inflight.Done()
		if _, err := c.Evaluate(context.Background(), sess.ID, audio, sess.PracticeText, sess.Topic); err != nil {
			c.logger.Warnw("evaluation did not produce a score", "session", sess.ID, "error", err)
		}
	}()
	if closeErr != nil {
		return fmt.Errorf("failed to close capture stream: %w", closeErr)
	}
	return nil
}

// Abandon releases the device and drops the current session without evaluating it.
func (c *Controller) Abandon() {
	sess, _, ok, _ := c.halt()
	if !ok {
		return
	}
	c.logger.Infow("recording abandoned", "session", sess.ID)
}

// halt reports Idle while still holding the lock so a concurrent Start cannot emit
// Recording ahead of it.
func (c *Controller) halt() (*Session, Audio, bool, error) {
	c.mu.Lock()
	if c.opening {
		c.cancelOpen = true
		c.mu.Unlock()
		return nil, Audio{}, false, nil
	}
	sess := c.session
	if sess == nil || sess.State != Recording || c.stopping {
		c.mu.Unlock()
		return nil, Audio{}, false, nil
	}
	c.stopping = true
	stream, done := c.stream, c.pumpDone
	c.mu.Unlock()

	closeErr := stream.Close()
	<-done

	c.mu.Lock()
	defer c.mu.Unlock()
	audio := sess.finalize(stream.Format())
	c.session = nil
	c.stream = nil
	c.pumpDone = nil
	c.stopping = false
	c.reporter.StateChanged(Idle)
	return sess, audio, true, closeErr
}

// Evaluate posts the audio for scoring and reports the outcome. Nothing is sent when
// text is blank.
func (c *Controller) Evaluate(ctx context.Context, sessionID string, audio Audio, text, topic string) (model.ScoreResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		c.reporter.Notify(Notification{Level: LevelWarning, Key: MsgMissingInput, Err: ErrMissingInput})
		return model.ScoreResult{}, ErrMissingInput
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := model.EvaluateRequest{Audio: audio.Base64(), Text: text, Topic: topic}
	res, err := c.evaluator.Evaluate(ctx, sessionID, req)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
		c.reporter.Notify(Notification{Level: LevelError, Key: MsgEvaluationFailed, Err: err})
		return model.ScoreResult{}, err
	}
	if !res.Success {
		err = ErrEvaluationRejected
		if res.Error != "" {
			err = fmt.Errorf("%w: %s", ErrEvaluationRejected, res.Error)
		}
		c.reporter.Notify(Notification{Level: LevelError, Key: MsgEvaluationRejected, Err: err})
		return res, err
	}

	c.logger.Infow("evaluation complete", "session", sessionID, "score", res.Score)
	c.reporter.RenderScore(res)
	c.reporter.Notify(Notification{Level: LevelSuccess, Key: MsgEvaluationDone})
	return res, nil
}

// Wait blocks until background evaluations have finished.
func (c *Controller) Wait() {
	c.inflight.Wait()
}
