// Package mock provides a deterministic synthesis engine for testing.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgnsrekt/scriptcast/narrate"
	"github.com/dgnsrekt/scriptcast/narrate/audio"
	"github.com/dgnsrekt/scriptcast/narrate/engines"
)

// Engine implements the synthesis engine interface for testing. It
// produces structurally valid audio sized from the input text and records
// every request it receives.
type Engine struct {
	// Configuration
	delay      time.Duration
	sampleRate int
	maxText    int

	// Control for testing
	failOn       int // 1-based call number to fail on, 0 = never
	failureError error

	// State
	mu        sync.Mutex
	callCount int
	requests  []narrate.SynthesisRequest
	shutdown  bool
}

// Option configures the mock engine.
type Option func(*Engine)

// WithDelay simulates provider latency.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) { e.delay = d }
}

// WithSampleRate overrides the generated WAV sample rate.
func WithSampleRate(rate int) Option {
	return func(e *Engine) { e.sampleRate = rate }
}

// WithMaxTextLength overrides the advertised per-request character limit.
func WithMaxTextLength(n int) Option {
	return func(e *Engine) { e.maxText = n }
}

// FailOnCall makes the nth Synthesize call (1-based) return err.
func FailOnCall(n int, err error) Option {
	return func(e *Engine) {
		e.failOn = n
		e.failureError = err
	}
}

// New creates a mock engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		sampleRate: 22050,
		maxText:    4096,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name identifies the engine.
func (e *Engine) Name() string { return "mock" }

// Capabilities returns the mock's limits.
func (e *Engine) Capabilities() engines.Capabilities {
	return engines.Capabilities{
		MaxTextLength:    e.maxText,
		SupportedFormats: []narrate.Container{narrate.ContainerWAV, narrate.ContainerMP3},
		RequiresNetwork:  false,
	}
}

// Synthesize generates silence sized from the text length. WAV output
// carries a valid 44-byte header so assembly exercises the real path.
func (e *Engine) Synthesize(_ context.Context, req narrate.SynthesisRequest) ([]byte, error) {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return nil, narrate.ErrEngineShutdown
	}
	e.callCount++
	call := e.callCount
	e.requests = append(e.requests, req)
	e.mu.Unlock()

	if e.failOn > 0 && call == e.failOn {
		err := e.failureError
		if err == nil {
			err = narrate.ErrSynthesisFailed
		}
		return nil, err
	}

	if e.delay > 0 {
		time.Sleep(e.delay)
	}

	switch req.Container {
	case narrate.ContainerWAV:
		// Two bytes of 16-bit silence per input character.
		dataSize := len(req.Text) * 2
		out := make([]byte, 0, audio.WAVHeaderSize+dataSize)
		out = append(out, audio.NewWAVHeader(e.sampleRate, dataSize)...)
		return append(out, make([]byte, dataSize)...), nil
	case narrate.ContainerMP3:
		// Opaque payload; the assembler treats MP3 as a byte stream.
		return []byte(fmt.Sprintf("MP3[%d:%s]", call, req.Text)), nil
	default:
		return nil, fmt.Errorf("%w: %q", narrate.ErrUnsupportedContainer, req.Container)
	}
}

// Shutdown marks the engine unusable.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown = true
	return nil
}

// CallCount returns how many Synthesize calls were made.
func (e *Engine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.callCount
}

// Requests returns a copy of every request received, in call order.
func (e *Engine) Requests() []narrate.SynthesisRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]narrate.SynthesisRequest, len(e.requests))
	copy(out, e.requests)
	return out
}
