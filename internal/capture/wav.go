package capture

import (
	"bytes"
	"encoding/binary"
	"time"
)

const wavHeaderSize = 44

// EncodeWAV wraps PCM data in a canonical 44-byte WAV header.
func EncodeWAV(f Format, pcm []byte) []byte {
	blockAlign := f.Channels * f.BitsPerSample / 8
	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(pcm)))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(f.Channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(f.SampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(f.BytesPerSecond()))
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(f.BitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

// Duration returns the playback length of n PCM bytes.
func (f Format) Duration(n int) time.Duration {
	bps := f.BytesPerSecond()
	if bps <= 0 {
		return 0
	}
	return time.Duration(int64(n) * int64(time.Second) / int64(bps))
}
