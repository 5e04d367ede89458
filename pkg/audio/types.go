// ABOUTME: Audio sample codec helpers
// ABOUTME: Converts interleaved float32 samples to and from little-endian bytes
package audio

import (
	"encoding/binary"
	"math"
)

// BytesPerSample is the size of one float32 sample on the wire
const BytesPerSample = 4

// FrameBytes returns the byte size of one interleaved frame
func FrameBytes(channels int) int {
	return channels * BytesPerSample
}

// PutFloat32LE encodes src into dst as little-endian float32.
// dst must hold at least len(src)*BytesPerSample bytes.
func PutFloat32LE(dst []byte, src []float32) {
	for i, s := range src {
		binary.LittleEndian.PutUint32(dst[i*BytesPerSample:], math.Float32bits(s))
	}
}

// Float32LE decodes little-endian float32 samples from src into dst and
// returns the number of samples written
func Float32LE(dst []float32, src []byte) int {
	n := len(src) / BytesPerSample
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*BytesPerSample:]))
	}
	return n
}

// Grow returns buf resliced to n, reallocating only when its capacity is short
func Grow(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}
