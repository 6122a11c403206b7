package audio

import (
	"encoding/binary"
	"testing"
)

func TestNewWAVHeader(t *testing.T) {
	h := NewWAVHeader(22050, 1000)

	if len(h) != WAVHeaderSize {
		t.Fatalf("header size = %d, want %d", len(h), WAVHeaderSize)
	}
	if !HasWAVMarkers(h) {
		t.Error("generated header is missing RIFF/WAVE markers")
	}

	riffSize, dataSize := WAVSizes(h)
	if riffSize != uint32(WAVHeaderSize+1000-8) {
		t.Errorf("riff size = %d, want %d", riffSize, WAVHeaderSize+1000-8)
	}
	if dataSize != 1000 {
		t.Errorf("data size = %d, want 1000", dataSize)
	}

	if rate := binary.LittleEndian.Uint32(h[24:]); rate != 22050 {
		t.Errorf("sample rate = %d, want 22050", rate)
	}
	if string(h[36:40]) != "data" {
		t.Errorf("data marker = %q", h[36:40])
	}
}

func TestWriteWAVSizes(t *testing.T) {
	buf := append(NewWAVHeader(44100, 0), make([]byte, 500)...)
	WriteWAVSizes(buf)

	riffSize, dataSize := WAVSizes(buf)
	if riffSize != uint32(len(buf)-8) {
		t.Errorf("riff size = %d, want %d", riffSize, len(buf)-8)
	}
	if dataSize != 500 {
		t.Errorf("data size = %d, want 500", dataSize)
	}
}

func TestHasWAVMarkers(t *testing.T) {
	tests := []struct {
		name     string
		buf      []byte
		expected bool
	}{
		{name: "valid header", buf: NewWAVHeader(22050, 0), expected: true},
		{name: "too short", buf: []byte("RIFF"), expected: false},
		{name: "empty", buf: nil, expected: false},
		{name: "wrong markers", buf: make([]byte, WAVHeaderSize), expected: false},
		{name: "mp3 frame sync", buf: append([]byte{0xFF, 0xFB}, make([]byte, 100)...), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasWAVMarkers(tt.buf); got != tt.expected {
				t.Errorf("HasWAVMarkers = %v, want %v", got, tt.expected)
			}
		})
	}
}
