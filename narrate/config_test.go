package narrate

import (
	"errors"
	"testing"
)

func TestDefaultConfigIsValidWithMockEngine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine = "mock"
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.Engine = "mock"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.Engine = "espeak" },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "zero max chars",
			mutate:  func(c *Config) { c.MaxChars = 0 },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "unsupported container",
			mutate:  func(c *Config) { c.Container = "ogg" },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "container case is normalized",
			mutate:  func(c *Config) { c.Container = "WAV" },
			wantErr: nil,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative lexicon ttl",
			mutate:  func(c *Config) { c.Lexicon.TTL = -1 },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "openai engine requires api key",
			mutate:  func(c *Config) { c.Engine = "openai"; c.OpenAI.APIKey = "" },
			wantErr: ErrMissingConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestContainerHelpers(t *testing.T) {
	if !ContainerWAV.Valid() || !ContainerMP3.Valid() {
		t.Error("supported containers must be valid")
	}
	if Container("flac").Valid() {
		t.Error("flac is not supported")
	}
	if ContainerWAV.Extension() != "wav" {
		t.Errorf("extension = %q", ContainerWAV.Extension())
	}

	r := Result{ScriptName: "intro", Container: ContainerMP3}
	if r.Filename() != "intro.mp3" {
		t.Errorf("filename = %q", r.Filename())
	}
}

func TestIsRecoverableError(t *testing.T) {
	if IsRecoverableError(ErrEngineShutdown) {
		t.Error("engine shutdown is not recoverable")
	}
	if !IsRecoverableError(ErrSynthesisFailed) {
		t.Error("a failed synthesis only affects one script")
	}
	if !IsRecoverableError(nil) {
		t.Error("nil is recoverable")
	}
}
