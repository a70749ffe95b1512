// Package wav encodes float32 PCM samples as single-chunk RIFF/WAVE
// files, either 16-bit integer PCM or 32-bit IEEE float.
package wav

import (
	"encoding/binary"
	"math"
)

const headerSize = 44

// RIFF format tags.
const (
	formatPCM   = 1
	formatFloat = 3
)

// Encode16 returns a 16-bit PCM WAV file. Samples are clamped to
// [-1, 1] before conversion. For multi-channel audio, samples are
// interleaved.
func Encode16(samples []float32, sampleRate, channels int) []byte {
	dataSize := len(samples) * 2
	out := make([]byte, headerSize+dataSize)
	writeHeader(out, sampleRate, channels, formatPCM, 16, dataSize)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(out[headerSize+i*2:], uint16(int16(s*32767)))
	}
	return out
}

// EncodeFloat32 returns a 32-bit IEEE float WAV file.
func EncodeFloat32(samples []float32, sampleRate, channels int) []byte {
	dataSize := len(samples) * 4
	out := make([]byte, headerSize+dataSize)
	writeHeader(out, sampleRate, channels, formatFloat, 32, dataSize)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[headerSize+i*4:], math.Float32bits(s))
	}
	return out
}

func writeHeader(out []byte, sampleRate, channels, format, bits, dataSize int) {
	blockAlign := channels * bits / 8
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+dataSize))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], uint16(format))
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], uint16(bits))
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
}
