package recorder

import (
	"errors"

	"github.com/verte-zerg/tuispeak/internal/capture"
)

var (
	// ErrPermissionDenied reports that microphone access was refused.
	ErrPermissionDenied = capture.ErrPermissionDenied
	// ErrDeviceUnavailable reports that no capture device could be opened.
	ErrDeviceUnavailable = capture.ErrDeviceUnavailable
	// ErrMissingInput reports that no practice text was set.
	ErrMissingInput = errors.New("practice text is empty")
	// ErrEvaluationFailed reports a transport or server failure during scoring.
	ErrEvaluationFailed = errors.New("evaluation failed")
	// ErrEvaluationRejected reports that the server answered success=false.
	ErrEvaluationRejected = errors.New("evaluation rejected")
	// ErrAlreadyRecording reports a start while a capture device is already open.
	ErrAlreadyRecording = errors.New("already recording")
)
