package recorder

import "github.com/verte-zerg/tuispeak/internal/model"

// Level classifies a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// MessageKey identifies a user-facing message; the UI localizes it.
type MessageKey string

const (
	MsgRecordingStarted   MessageKey = "recording_started"
	MsgRecordingStopped   MessageKey = "recording_stopped"
	MsgPermissionDenied   MessageKey = "permission_denied"
	MsgDeviceUnavailable  MessageKey = "device_unavailable"
	MsgMissingInput       MessageKey = "missing_input"
	MsgEvaluationDone     MessageKey = "evaluation_done"
	MsgEvaluationRejected MessageKey = "evaluation_rejected"
	MsgEvaluationFailed   MessageKey = "evaluation_failed"
)

// Notification is a transient message for the user.
type Notification struct {
	Level Level
	Key   MessageKey
	// Err carries the underlying error, if any.
	Err error
}

// Reporter receives controller output.
type Reporter interface {
	Notify(Notification)
	StateChanged(State)
	RenderScore(model.ScoreResult)
}

// Event is a single controller output delivered by ChannelReporter.
type Event struct {
	Notification *Notification
	State        *State
	Score        *model.ScoreResult
}

// ChannelReporter forwards controller output to a channel.
type ChannelReporter struct {
	events chan Event
}

// NewChannelReporter returns a reporter with the given buffer size.
func NewChannelReporter(size int) *ChannelReporter {
	return &ChannelReporter{events: make(chan Event, size)}
}

// Events returns the receive side of the channel.
func (r *ChannelReporter) Events() <-chan Event { return r.events }

// Notify implements Reporter.
func (r *ChannelReporter) Notify(n Notification) { r.events <- Event{Notification: &n} }

// StateChanged implements Reporter.
func (r *ChannelReporter) StateChanged(s State) { r.events <- Event{State: &s} }

// RenderScore implements Reporter.
func (r *ChannelReporter) RenderScore(res model.ScoreResult) { r.events <- Event{Score: &res} }
