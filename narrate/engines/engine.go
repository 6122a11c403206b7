// Package engines provides speech synthesis engine implementations.
package engines

import (
	"context"

	"github.com/dgnsrekt/scriptcast/narrate"
)

// Capabilities describes what an engine can do.
type Capabilities struct {
	MaxTextLength    int                 // Maximum characters per request
	SupportedFormats []narrate.Container // Containers the engine can produce
	RequiresNetwork  bool                // Needs internet connection
}

// Supports reports whether the engine can produce the given container.
func (c Capabilities) Supports(container narrate.Container) bool {
	for _, f := range c.SupportedFormats {
		if f == container {
			return true
		}
	}
	return false
}

// Engine converts one chunk of text into raw audio bytes.
type Engine interface {
	// Name identifies the engine for logs and reports.
	Name() string

	// Capabilities returns the engine's limits and supported containers.
	Capabilities() Capabilities

	// Synthesize sends one request to the provider and returns the raw
	// audio bytes in the requested container.
	Synthesize(ctx context.Context, req narrate.SynthesisRequest) ([]byte, error)

	// Shutdown releases any resources held by the engine.
	Shutdown() error
}
