// Package recorder implements the recording session controller.
package recorder

import (
	"encoding/base64"
	"time"

	"github.com/verte-zerg/tuispeak/internal/capture"
)

// State is the controller state visible to the UI.
type State int

// Opening is only reported by Controller.State while the device is being opened;
// sessions are never in it.
const (
	Idle State = iota
	Recording
	Opening
)

func (s State) String() string {
	switch s {
	case Recording:
		return "recording"
	case Opening:
		return "opening"
	default:
		return "idle"
	}
}

// Session is one start-to-evaluation lifecycle of the recorder.
type Session struct {
	ID           string
	State        State
	Chunks       [][]byte
	PracticeText string
	Topic        string
	StartedAt    time.Time
}

func (s *Session) append(chunk []byte) bool {
	if s.State != Recording || len(chunk) == 0 {
		return false
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	s.Chunks = append(s.Chunks, buf)
	return true
}

// finalize moves the session to Idle and joins its chunks into one WAV blob.
func (s *Session) finalize(f capture.Format) Audio {
	size := 0
	for _, c := range s.Chunks {
		size += len(c)
	}
	pcm := make([]byte, 0, size)
	for _, c := range s.Chunks {
		pcm = append(pcm, c...)
	}
	s.State = Idle
	s.Chunks = nil
	return Audio{
		Data:     capture.EncodeWAV(f, pcm),
		MIME:     "audio/wav",
		Format:   f,
		PCMBytes: len(pcm),
		Duration: f.Duration(len(pcm)),
	}
}

// Audio is the finalized, immutable recording of a session.
type Audio struct {
	Data     []byte
	MIME     string
	Format   capture.Format
	PCMBytes int
	Duration time.Duration
}

// Base64 returns the blob encoded for the evaluation payload.
func (a Audio) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Data)
}
