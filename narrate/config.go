package narrate

import (
	"fmt"
	"strings"
	"time"
)

// Config contains all narration configuration options.
type Config struct {
	// Engine selection
	Engine string `yaml:"engine" env:"SCRIPTCAST_ENGINE" envDefault:"openai"`

	// Synthesis request settings
	MaxChars  int    `yaml:"max_chars" env:"SCRIPTCAST_MAX_CHARS" envDefault:"4000"`
	Voice     string `yaml:"voice" env:"SCRIPTCAST_VOICE" envDefault:"alloy"`
	Container string `yaml:"container" env:"SCRIPTCAST_CONTAINER" envDefault:"wav"`

	// Audio parameters
	SampleRate int `yaml:"sample_rate" env:"SCRIPTCAST_SAMPLE_RATE" envDefault:"24000"`
	BitRate    int `yaml:"bit_rate" env:"SCRIPTCAST_BIT_RATE" envDefault:"128"`

	// Batch settings
	Workers      int  `yaml:"workers" env:"SCRIPTCAST_WORKERS" envDefault:"4"`
	AllOrNothing bool `yaml:"all_or_nothing" env:"SCRIPTCAST_ALL_OR_NOTHING" envDefault:"false"`

	// Pause marker settings
	PauseDots       int    `yaml:"pause_dots" env:"SCRIPTCAST_PAUSE_DOTS" envDefault:"3"`
	LongPauseRepeat int    `yaml:"long_pause_repeat" env:"SCRIPTCAST_LONG_PAUSE_REPEAT" envDefault:"3"`
	UseSilenceCue   bool   `yaml:"use_silence_cue" env:"SCRIPTCAST_USE_SILENCE_CUE" envDefault:"false"`
	SilenceCue      string `yaml:"silence_cue" env:"SCRIPTCAST_SILENCE_CUE" envDefault:" - "`

	// Lexicon settings
	Lexicon LexiconConfig `yaml:"lexicon"`

	// Engine-specific configurations
	OpenAI OpenAIConfig `yaml:"openai"`
	Mock   MockConfig   `yaml:"mock"`
}

// LexiconConfig contains lexicon source and refresh settings.
type LexiconConfig struct {
	Source string        `yaml:"source" env:"SCRIPTCAST_LEXICON_SOURCE"`
	TTL    time.Duration `yaml:"ttl" env:"SCRIPTCAST_LEXICON_TTL" envDefault:"5m"`
	Watch  bool          `yaml:"watch" env:"SCRIPTCAST_LEXICON_WATCH" envDefault:"false"`
}

// OpenAIConfig contains OpenAI speech engine specific settings.
type OpenAIConfig struct {
	APIKey            string        `yaml:"api_key" env:"SCRIPTCAST_OPENAI_API_KEY"`
	BaseURL           string        `yaml:"base_url" env:"SCRIPTCAST_OPENAI_BASE_URL"`
	Model             string        `yaml:"model" env:"SCRIPTCAST_OPENAI_MODEL" envDefault:"tts-1"`
	Speed             float64       `yaml:"speed" env:"SCRIPTCAST_OPENAI_SPEED" envDefault:"1.0"`
	Timeout           time.Duration `yaml:"timeout" env:"SCRIPTCAST_OPENAI_TIMEOUT" envDefault:"60s"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"SCRIPTCAST_OPENAI_RPM" envDefault:"50"`

	// Cache settings for synthesized chunk audio
	CacheEnabled   bool   `yaml:"cache_enabled" env:"SCRIPTCAST_OPENAI_CACHE_ENABLED" envDefault:"true"`
	CacheDir       string `yaml:"cache_dir" env:"SCRIPTCAST_OPENAI_CACHE_DIR"`
	CacheMemoryMB  int    `yaml:"cache_memory_mb" env:"SCRIPTCAST_OPENAI_CACHE_MEMORY_MB" envDefault:"64"`
	CacheDiskMB    int    `yaml:"cache_disk_mb" env:"SCRIPTCAST_OPENAI_CACHE_DISK_MB" envDefault:"512"`
	CacheZstdLevel int    `yaml:"cache_zstd_level" env:"SCRIPTCAST_OPENAI_CACHE_ZSTD_LEVEL" envDefault:"3"`
}

// MockConfig contains mock engine settings for testing.
type MockConfig struct {
	GenerationDelay time.Duration `yaml:"generation_delay" env:"SCRIPTCAST_MOCK_GENERATION_DELAY" envDefault:"0ms"`
	SampleRate      int           `yaml:"sample_rate" env:"SCRIPTCAST_MOCK_SAMPLE_RATE" envDefault:"22050"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine:     "openai",
		MaxChars:   4000,
		Voice:      "alloy",
		Container:  string(ContainerWAV),
		SampleRate: 24000,
		BitRate:    128,

		Workers:      4,
		AllOrNothing: false,

		PauseDots:       3,
		LongPauseRepeat: 3,
		UseSilenceCue:   false,
		SilenceCue:      " - ",

		Lexicon: LexiconConfig{
			TTL: 5 * time.Minute,
		},

		OpenAI: OpenAIConfig{
			Model:             "tts-1",
			Speed:             1.0,
			Timeout:           60 * time.Second,
			RequestsPerMinute: 50,
			CacheEnabled:      true,
			CacheMemoryMB:     64,
			CacheDiskMB:       512,
			CacheZstdLevel:    3,
		},

		Mock: MockConfig{
			SampleRate: 22050,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Engine) {
	case "openai", "mock":
	default:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, c.Engine)
	}

	if c.MaxChars < 1 {
		return fmt.Errorf("%w: max_chars must be at least 1, got %d", ErrInvalidConfig, c.MaxChars)
	}

	if !Container(strings.ToLower(c.Container)).Valid() {
		return fmt.Errorf("%w: container must be wav or mp3, got %q", ErrInvalidConfig, c.Container)
	}

	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate must be positive, got %d", ErrInvalidConfig, c.SampleRate)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}

	if c.LongPauseRepeat < 1 {
		return fmt.Errorf("%w: long_pause_repeat must be at least 1, got %d", ErrInvalidConfig, c.LongPauseRepeat)
	}

	if c.Lexicon.TTL < 0 {
		return fmt.Errorf("%w: lexicon ttl cannot be negative", ErrInvalidConfig)
	}

	if strings.ToLower(c.Engine) == "openai" && c.OpenAI.APIKey == "" {
		return fmt.Errorf("%w: openai.api_key is required for the openai engine", ErrMissingConfig)
	}

	return nil
}

// OutputContainer returns the configured container in canonical form.
func (c *Config) OutputContainer() Container {
	return Container(strings.ToLower(c.Container))
}
