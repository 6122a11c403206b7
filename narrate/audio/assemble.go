package audio

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/scriptcast/narrate"
)

// Assemble concatenates an ordered sequence of per-chunk audio segments
// into one output buffer. Segments must already be ordered by chunk index
// ascending and contiguous from 0; ordering them is the orchestrator's
// job, and a violated order is rejected rather than repaired.
//
// WAV segments have their headers stripped after the first, and the kept
// header's size fields are rewritten for the combined payload. If the
// first segment lacks RIFF/WAVE markers the whole sequence is concatenated
// as-is and a warning is logged. MP3 segments are concatenated
// byte-for-byte; decoders tolerate back-to-back frames.
func Assemble(segments []narrate.Segment, container narrate.Container) ([]byte, error) {
	if err := checkSegments(segments, container); err != nil {
		return nil, err
	}

	switch container {
	case narrate.ContainerWAV:
		return assembleWAV(segments), nil
	case narrate.ContainerMP3:
		return concat(segments), nil
	default:
		return nil, fmt.Errorf("%w: %q", narrate.ErrUnsupportedContainer, container)
	}
}

func checkSegments(segments []narrate.Segment, container narrate.Container) error {
	for i, s := range segments {
		if s.ChunkIndex != i {
			return fmt.Errorf("%w: segment %d has chunk index %d",
				narrate.ErrSegmentOrder, i, s.ChunkIndex)
		}
		if s.Container != container {
			return fmt.Errorf("%w: segment %d is %q, assembling %q",
				narrate.ErrContainerMismatch, i, s.Container, container)
		}
	}
	return nil
}

func assembleWAV(segments []narrate.Segment) []byte {
	if len(segments) == 0 {
		return []byte{}
	}
	if len(segments) == 1 {
		return segments[0].Data
	}

	first := segments[0].Data
	if !HasWAVMarkers(first) {
		// Documented degradation: without the expected markers there is no
		// header to fix up, so fall back to naive concatenation.
		log.Warn("first audio segment is missing RIFF/WAVE markers, concatenating without header rewrite",
			"size", len(first))
		return concat(segments)
	}

	var out bytes.Buffer
	out.Write(first[:WAVHeaderSize])
	for _, s := range segments {
		// A header-only segment strips to zero payload bytes.
		if HasWAVMarkers(s.Data) {
			out.Write(s.Data[WAVHeaderSize:])
			continue
		}
		// A segment without a standard header contributes all its bytes.
		out.Write(s.Data)
	}

	b := out.Bytes()
	WriteWAVSizes(b)
	return b
}

func concat(segments []narrate.Segment) []byte {
	var out bytes.Buffer
	for _, s := range segments {
		out.Write(s.Data)
	}
	return out.Bytes()
}
