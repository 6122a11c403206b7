// Package narrate turns long-form text scripts into spoken audio by
// rewriting domain terms, splitting text into synthesis-sized chunks,
// and reassembling the per-chunk audio into a single playable file.
package narrate

// Container identifies the audio container a synthesis provider returns.
type Container string

const (
	// ContainerWAV is a RIFF/WAVE container with a 44-byte PCM header.
	ContainerWAV Container = "wav"
	// ContainerMP3 is a bare MP3 frame stream.
	ContainerMP3 Container = "mp3"
)

// Valid reports whether the container is one of the supported set.
func (c Container) Valid() bool {
	return c == ContainerWAV || c == ContainerMP3
}

// Extension returns the file extension for the container, without the dot.
func (c Container) Extension() string {
	return string(c)
}

// Chunk is one bounded-length slice of a script's text, the unit submitted
// to the synthesis provider. Index is the emission order, starting at 0.
type Chunk struct {
	Index int
	Text  string
}

// Segment is the audio produced for one chunk. ChunkIndex ties it back to
// the chunk it was synthesized from; assembly must follow chunk order,
// never response arrival order.
type Segment struct {
	ChunkIndex int
	Data       []byte
	Container  Container
}

// SynthesisRequest describes one provider call.
type SynthesisRequest struct {
	Text      string
	Voice     string
	Container Container

	// WAV parameters.
	SampleRate int

	// MP3 parameters.
	BitRate int
}

// Result is the terminal artifact of one script's pipeline.
type Result struct {
	ScriptName string
	Container  Container
	Data       []byte
	Chunks     int
}

// Filename returns the output filename for the result.
func (r Result) Filename() string {
	return r.ScriptName + "." + r.Container.Extension()
}

// Outcome reports one script's fate within a batch: either a Result or the
// error that failed its pipeline.
type Outcome struct {
	ScriptName string
	Result     Result
	Err        error
}
