package capture

import (
	"context"
	"encoding/binary"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAVHeader(t *testing.T) {
	f := DefaultFormat()
	pcm := make([]byte, 3200)
	wav := EncodeWAV(f, pcm)

	require.Len(t, wav, 44+3200)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, uint32(36+3200), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(32000), binary.LittleEndian.Uint32(wav[28:32]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(3200), binary.LittleEndian.Uint32(wav[40:44]))
}

func TestFormatDuration(t *testing.T) {
	f := DefaultFormat()
	assert.Equal(t, time.Second, f.Duration(32000))
	assert.Equal(t, 100*time.Millisecond, f.Duration(3200))
	assert.Equal(t, time.Duration(0), Format{}.Duration(100))
}

func TestFormatValidate(t *testing.T) {
	assert.NoError(t, DefaultFormat().Validate())
	assert.Error(t, Format{SampleRate: 0, Channels: 1, BitsPerSample: 16}.Validate())
	assert.Error(t, Format{SampleRate: 16000, Channels: 0, BitsPerSample: 16}.Validate())
	assert.Error(t, Format{SampleRate: 16000, Channels: 1, BitsPerSample: 8}.Validate())
}

func TestDefaultCommand(t *testing.T) {
	cmd := DefaultCommand(Format{SampleRate: 48000, Channels: 2, BitsPerSample: 16})
	assert.Equal(t, []string{"arecord", "-q", "-t", "raw", "-f", "S16_LE", "-r", "48000", "-c", "2"}, cmd)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		stderr string
		want   error
	}{
		{"missing binary", exec.ErrNotFound, "", ErrDeviceUnavailable},
		{"alsa permission", errors.New("exit status 1"), "arecord: main:830: audio open error: Permission denied", ErrPermissionDenied},
		{"pulse access", errors.New("exit status 1"), "Connection failure: Access denied", ErrPermissionDenied},
		{"no device", errors.New("exit status 1"), "arecord: main:830: audio open error: No such file or directory", ErrDeviceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err, tt.stderr), tt.want)
		})
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommandDeviceMissingProgram(t *testing.T) {
	dev := NewCommandDevice([]string{"tuispeak-no-such-recorder"}, DefaultFormat(), nil)
	_, err := dev.Open(context.Background())
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
}

func TestCommandDeviceEmptyCommand(t *testing.T) {
	dev := &CommandDevice{Format: DefaultFormat()}
	_, err := dev.Open(context.Background())
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
}

func TestCommandDevicePermissionDenied(t *testing.T) {
	requireShell(t)
	dev := NewCommandDevice([]string{"sh", "-c", "echo 'audio open error: Permission denied' >&2; exit 1"}, DefaultFormat(), nil)
	dev.StartupGrace = 5 * time.Second
	_, err := dev.Open(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCommandDeviceStreamsChunksUntilClosed(t *testing.T) {
	requireShell(t)
	dev := NewCommandDevice([]string{"sh", "-c", "head -c 6400 /dev/zero; exec sleep 30"}, DefaultFormat(), nil)
	dev.StartupGrace = 50 * time.Millisecond
	stream, err := dev.Open(context.Background())
	require.NoError(t, err)

	total := 0
	deadline := time.After(5 * time.Second)
	for total < 6400 {
		select {
		case chunk := <-stream.Chunks():
			total += len(chunk)
		case <-deadline:
			t.Fatalf("timed out waiting for chunks, got %d bytes", total)
		}
	}
	require.NoError(t, stream.Close())

	_, open := <-stream.Chunks()
	assert.False(t, open, "chunks channel should be closed after Close")
	assert.Equal(t, 6400, total)
	require.NoError(t, stream.Close())
}
