// Package openai implements the synthesis engine against the OpenAI
// speech endpoint (or any API-compatible server via base URL override).
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/scriptcast/internal/cache"
	"github.com/dgnsrekt/scriptcast/narrate"
	"github.com/dgnsrekt/scriptcast/narrate/engines"
)

// The documented per-request input ceiling for the speech endpoint.
const maxInputChars = 4096

// Engine calls the OpenAI speech API with rate limiting and optional
// caching of synthesized chunk audio.
type Engine struct {
	client *goopenai.Client
	model  string
	speed  float64

	limiter *rate.Limiter
	cache   *cache.Cache
}

// Config holds engine construction parameters.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Speed             float64
	Timeout           time.Duration
	RequestsPerMinute int
	Cache             *cache.Cache // nil disables caching
}

// New creates an OpenAI speech engine.
func New(cfg Config) (*Engine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key", narrate.ErrMissingConfig)
	}
	if cfg.Model == "" {
		cfg.Model = string(goopenai.TTSModel1)
	}
	if cfg.Speed == 0 {
		cfg.Speed = 1.0
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 50
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Engine{
		client:  goopenai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		speed:   cfg.Speed,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		cache:   cfg.Cache,
	}, nil
}

// Name identifies the engine.
func (e *Engine) Name() string { return "openai" }

// Capabilities returns the endpoint's limits.
func (e *Engine) Capabilities() engines.Capabilities {
	return engines.Capabilities{
		MaxTextLength:    maxInputChars,
		SupportedFormats: []narrate.Container{narrate.ContainerWAV, narrate.ContainerMP3},
		RequiresNetwork:  true,
	}
}

// Synthesize sends one chunk to the speech endpoint and returns the raw
// audio bytes in the requested container.
func (e *Engine) Synthesize(ctx context.Context, req narrate.SynthesisRequest) ([]byte, error) {
	format, err := responseFormat(req.Container)
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(req.Text); n > maxInputChars {
		return nil, fmt.Errorf("%w: %d characters (limit %d)", narrate.ErrTextTooLong, n, maxInputChars)
	}

	var key string
	if e.cache != nil {
		key = cache.Key(req.Text, req.Voice, e.model, string(req.Container),
			strconv.FormatFloat(e.speed, 'f', -1, 64))
		if data, ok := e.cache.Get(key); ok {
			log.Debug("synthesis cache hit", "chars", len(req.Text))
			return data, nil
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", narrate.ErrSynthesisFailed, err)
	}

	resp, err := e.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(e.model),
		Input:          req.Text,
		Voice:          goopenai.SpeechVoice(req.Voice),
		ResponseFormat: format,
		Speed:          e.speed,
	})
	if err != nil {
		return nil, wrapProviderError(err)
	}
	defer resp.Close() //nolint:errcheck

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", narrate.ErrSynthesisFailed, err)
	}

	if e.cache != nil {
		if err := e.cache.Put(key, data); err != nil {
			log.Warn("failed to cache synthesized audio", "error", err)
		}
	}

	return data, nil
}

// Shutdown flushes the audio cache.
func (e *Engine) Shutdown() error {
	if e.cache != nil {
		return e.cache.Close()
	}
	return nil
}

func responseFormat(c narrate.Container) (goopenai.SpeechResponseFormat, error) {
	switch c {
	case narrate.ContainerWAV:
		return goopenai.SpeechResponseFormatWav, nil
	case narrate.ContainerMP3:
		return goopenai.SpeechResponseFormatMp3, nil
	default:
		return "", fmt.Errorf("%w: %q", narrate.ErrUnsupportedContainer, c)
	}
}

// wrapProviderError attaches the provider's status and message to the
// synthesis failure so batch reports can show the real cause.
func wrapProviderError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: provider status %d: %s",
			narrate.ErrSynthesisFailed, apiErr.HTTPStatusCode, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", narrate.ErrSynthesisFailed, err)
}
