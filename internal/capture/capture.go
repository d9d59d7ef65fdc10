// Package capture opens microphone streams.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrPermissionDenied reports that microphone access was refused.
	ErrPermissionDenied = errors.New("microphone permission denied")
	// ErrDeviceUnavailable reports that no capture device could be opened.
	ErrDeviceUnavailable = errors.New("capture device unavailable")
)

// Format describes the PCM layout produced by a stream.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultFormat is 16 kHz mono signed 16-bit PCM.
func DefaultFormat() Format {
	return Format{SampleRate: 16000, Channels: 1, BitsPerSample: 16}
}

// BytesPerSecond returns the PCM byte rate.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.Channels * f.BitsPerSample / 8
}

// Validate checks the format fields.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0")
	}
	if f.Channels <= 0 {
		return fmt.Errorf("channels must be > 0")
	}
	if f.BitsPerSample != 16 {
		return fmt.Errorf("only 16-bit PCM is supported")
	}
	return nil
}

// Device opens capture streams.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream delivers ordered PCM fragments until closed.
type Stream interface {
	// Chunks is closed once the stream has ended and all fragments were delivered.
	Chunks() <-chan []byte
	Format() Format
	// Close stops capture and releases the device.
	Close() error
}

// DefaultCommand returns an arecord invocation producing raw PCM on stdout.
func DefaultCommand(f Format) []string {
	return []string{
		"arecord", "-q",
		"-t", "raw",
		"-f", "S16_LE",
		"-r", strconv.Itoa(f.SampleRate),
		"-c", strconv.Itoa(f.Channels),
	}
}
