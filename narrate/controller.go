package narrate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Script is one named input text awaiting narration.
type Script struct {
	Name string
	Text string
}

// Normalizer rewrites pause markers before substitution.
type Normalizer interface {
	Normalize(text string) string
}

// Lexicon supplies one consistent term snapshot per pipeline run.
type Lexicon interface {
	Terms(ctx context.Context) ([]LexiconTerm, error)
}

// LexiconTerm is one term → spoken-form pair as the controller consumes it.
type LexiconTerm struct {
	Term   string
	Spoken string
}

// Substituter applies lexicon terms to text.
type Substituter func(text string, terms []LexiconTerm) string

// Chunker splits prepared text into request-sized chunks.
type Chunker func(text string, maxChars int) []Chunk

// Synthesizer sends one chunk to the provider.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) ([]byte, error)
	MaxTextLength() int
}

// Assembler concatenates ordered segments into one buffer.
type Assembler func(segments []Segment, container Container) ([]byte, error)

// Controller drives the narration pipeline: normalize → substitute →
// chunk → synthesize per chunk in order → assemble. One controller serves
// a whole batch; each script run is independent.
type Controller struct {
	cfg         Config
	normalizer  Normalizer
	lexicon     Lexicon
	substitute  Substituter
	chunk       Chunker
	synthesizer Synthesizer
	assemble    Assembler
}

// NewController wires the pipeline stages together.
func NewController(cfg Config, normalizer Normalizer, lexicon Lexicon,
	substitute Substituter, chunk Chunker, synthesizer Synthesizer, assemble Assembler,
) *Controller {
	return &Controller{
		cfg:         cfg,
		normalizer:  normalizer,
		lexicon:     lexicon,
		substitute:  substitute,
		chunk:       chunk,
		synthesizer: synthesizer,
		assemble:    assemble,
	}
}

// maxChars returns the effective per-request budget: the configured limit,
// clamped to the provider ceiling so the provider never sees an oversized
// request.
func (c *Controller) maxChars() int {
	budget := c.cfg.MaxChars
	if limit := c.synthesizer.MaxTextLength(); limit > 0 && (budget < 1 || budget > limit) {
		budget = limit
	}
	return budget
}

// NarrateScript runs one script through the full pipeline and returns its
// artifact. A synthesis failure on any chunk discards all partial audio
// for the script. Empty text yields an empty artifact without any
// provider calls.
func (c *Controller) NarrateScript(ctx context.Context, script Script) (Result, error) {
	container := c.cfg.OutputContainer()
	if !container.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedContainer, c.cfg.Container)
	}

	sm := NewStateMachine()
	started := time.Now()
	fail := func(err error) (Result, error) {
		sm.Transition(StateFailed)
		return Result{}, fmt.Errorf("script %q: %w", script.Name, err)
	}

	sm.Transition(StateNormalizing)
	text := c.normalizer.Normalize(script.Text)

	sm.Transition(StateSubstituting)
	terms, err := c.lexicon.Terms(ctx)
	if err != nil {
		return fail(err)
	}
	text = c.substitute(text, terms)

	sm.Transition(StateChunking)
	chunks := c.chunk(text, c.maxChars())
	if len(chunks) == 0 {
		sm.Transition(StateDone)
		log.Debug("script is empty, skipping synthesis", "script", script.Name)
		return Result{ScriptName: script.Name, Container: container, Data: []byte{}}, nil
	}

	sm.Transition(StateSynthesizing)
	segments := make([]Segment, 0, len(chunks))
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrBatchCanceled, err))
		}

		data, err := c.synthesizer.Synthesize(ctx, SynthesisRequest{
			Text:       chunk.Text,
			Voice:      c.cfg.Voice,
			Container:  container,
			SampleRate: c.cfg.SampleRate,
			BitRate:    c.cfg.BitRate,
		})
		if err != nil {
			return fail(fmt.Errorf("chunk %d: %w", chunk.Index, err))
		}
		segments = append(segments, Segment{
			ChunkIndex: chunk.Index,
			Data:       data,
			Container:  container,
		})
	}

	// Segments were produced in submission order, but assembly's contract
	// is index order; sort defensively before handing them over.
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].ChunkIndex < segments[j].ChunkIndex
	})

	sm.Transition(StateAssembling)
	data, err := c.assemble(segments, container)
	if err != nil {
		return fail(err)
	}

	sm.Transition(StateDone)
	log.Info("script narrated",
		"script", script.Name,
		"chunks", len(chunks),
		"bytes", len(data),
		"took", time.Since(started).Round(time.Millisecond))

	return Result{
		ScriptName: script.Name,
		Container:  container,
		Data:       data,
		Chunks:     len(chunks),
	}, nil
}

// NarrateBatch processes scripts concurrently across a bounded worker
// pool. Each script's pipeline is independent: one failure does not abort
// siblings unless AllOrNothing is set, in which case the first failure
// cancels the rest. Outcomes are returned in input order.
func (c *Controller) NarrateBatch(ctx context.Context, scripts []Script) []Outcome {
	outcomes := make([]Outcome, len(scripts))

	workers := c.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	for i, script := range scripts {
		g.Go(func() error {
			result, err := c.NarrateScript(groupCtx, script)

			mu.Lock()
			outcomes[i] = Outcome{ScriptName: script.Name, Result: result, Err: err}
			mu.Unlock()

			if err != nil {
				log.Error("script failed", "script", script.Name, "error", err)
				if c.cfg.AllOrNothing {
					return err
				}
			}
			return nil
		})
	}

	// Errors are already recorded per script; waiting is only for
	// completion (and sibling cancellation in all-or-nothing mode).
	_ = g.Wait()

	return outcomes
}
