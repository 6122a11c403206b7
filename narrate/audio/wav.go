// Package audio reassembles per-chunk synthesis responses into one valid
// output buffer per script.
package audio

import (
	"bytes"
	"encoding/binary"
)

// Standard PCM WAV header layout. The two size fields are the only ones
// rewritten during assembly:
//
//	bytes 0–3   "RIFF"
//	bytes 4–7   total file size − 8 (little-endian uint32)
//	bytes 8–11  "WAVE"
//	bytes 36–39 "data"
//	bytes 40–43 data chunk size (little-endian uint32)
const (
	WAVHeaderSize = 44

	riffSizeOffset = 4
	dataSizeOffset = 40
)

var (
	riffMarker = []byte("RIFF")
	waveMarker = []byte("WAVE")
)

// HasWAVMarkers reports whether the buffer begins with the RIFF/WAVE
// markers of a standard header.
func HasWAVMarkers(b []byte) bool {
	return len(b) >= WAVHeaderSize &&
		bytes.Equal(b[0:4], riffMarker) &&
		bytes.Equal(b[8:12], waveMarker)
}

// WriteWAVSizes rewrites the two header size fields in place so the header
// stays consistent with the buffer's total length. The buffer must be at
// least header-sized.
func WriteWAVSizes(b []byte) {
	total := uint32(len(b))
	binary.LittleEndian.PutUint32(b[riffSizeOffset:], total-8)
	binary.LittleEndian.PutUint32(b[dataSizeOffset:], total-WAVHeaderSize)
}

// WAVSizes reads the declared overall and data-chunk sizes from a header.
func WAVSizes(b []byte) (riffSize, dataSize uint32) {
	riffSize = binary.LittleEndian.Uint32(b[riffSizeOffset:])
	dataSize = binary.LittleEndian.Uint32(b[dataSizeOffset:])
	return riffSize, dataSize
}

// NewWAVHeader builds a standard 44-byte header for 16-bit mono PCM at the
// given sample rate, declaring dataSize bytes of samples.
func NewWAVHeader(sampleRate, dataSize int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	h := make([]byte, WAVHeaderSize)
	copy(h[0:4], riffMarker)
	binary.LittleEndian.PutUint32(h[4:], uint32(WAVHeaderSize+dataSize-8))
	copy(h[8:12], waveMarker)
	copy(h[12:16], []byte("fmt "))
	binary.LittleEndian.PutUint32(h[16:], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(h[20:], 1)  // PCM
	binary.LittleEndian.PutUint16(h[22:], channels)
	binary.LittleEndian.PutUint32(h[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(h[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(h[34:], bitsPerSample)
	copy(h[36:40], []byte("data"))
	binary.LittleEndian.PutUint32(h[40:], uint32(dataSize))
	return h
}
