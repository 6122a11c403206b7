package narrate

import (
	"github.com/spf13/viper"
)

// LoadConfigFromViper loads narration configuration from Viper. Values
// explicitly set in the config file override defaults; unset keys keep
// their DefaultConfig values so env and flag overlays still apply. The
// caller validates once all layers are applied.
func LoadConfigFromViper() Config {
	cfg := DefaultConfig()

	if viper.IsSet("engine") {
		cfg.Engine = viper.GetString("engine")
	}
	if viper.IsSet("max_chars") {
		cfg.MaxChars = viper.GetInt("max_chars")
	}
	if viper.IsSet("voice") {
		cfg.Voice = viper.GetString("voice")
	}
	if viper.IsSet("container") {
		cfg.Container = viper.GetString("container")
	}
	if viper.IsSet("sample_rate") {
		cfg.SampleRate = viper.GetInt("sample_rate")
	}
	if viper.IsSet("bit_rate") {
		cfg.BitRate = viper.GetInt("bit_rate")
	}

	if viper.IsSet("workers") {
		cfg.Workers = viper.GetInt("workers")
	}
	if viper.IsSet("all_or_nothing") {
		cfg.AllOrNothing = viper.GetBool("all_or_nothing")
	}

	if viper.IsSet("pause_dots") {
		cfg.PauseDots = viper.GetInt("pause_dots")
	}
	if viper.IsSet("long_pause_repeat") {
		cfg.LongPauseRepeat = viper.GetInt("long_pause_repeat")
	}
	if viper.IsSet("use_silence_cue") {
		cfg.UseSilenceCue = viper.GetBool("use_silence_cue")
	}
	if viper.IsSet("silence_cue") {
		cfg.SilenceCue = viper.GetString("silence_cue")
	}

	if viper.IsSet("lexicon.source") {
		cfg.Lexicon.Source = viper.GetString("lexicon.source")
	}
	if viper.IsSet("lexicon.ttl") {
		cfg.Lexicon.TTL = viper.GetDuration("lexicon.ttl")
	}
	if viper.IsSet("lexicon.watch") {
		cfg.Lexicon.Watch = viper.GetBool("lexicon.watch")
	}

	loadOpenAIConfig(&cfg.OpenAI)
	loadMockConfig(&cfg.Mock)

	return cfg
}

func loadOpenAIConfig(cfg *OpenAIConfig) {
	if viper.IsSet("openai.api_key") {
		cfg.APIKey = viper.GetString("openai.api_key")
	}
	if viper.IsSet("openai.base_url") {
		cfg.BaseURL = viper.GetString("openai.base_url")
	}
	if viper.IsSet("openai.model") {
		cfg.Model = viper.GetString("openai.model")
	}
	if viper.IsSet("openai.speed") {
		cfg.Speed = viper.GetFloat64("openai.speed")
	}
	if viper.IsSet("openai.timeout") {
		cfg.Timeout = viper.GetDuration("openai.timeout")
	}
	if viper.IsSet("openai.requests_per_minute") {
		cfg.RequestsPerMinute = viper.GetInt("openai.requests_per_minute")
	}
	if viper.IsSet("openai.cache_enabled") {
		cfg.CacheEnabled = viper.GetBool("openai.cache_enabled")
	}
	if viper.IsSet("openai.cache_dir") {
		cfg.CacheDir = viper.GetString("openai.cache_dir")
	}
	if viper.IsSet("openai.cache_memory_mb") {
		cfg.CacheMemoryMB = viper.GetInt("openai.cache_memory_mb")
	}
	if viper.IsSet("openai.cache_disk_mb") {
		cfg.CacheDiskMB = viper.GetInt("openai.cache_disk_mb")
	}
	if viper.IsSet("openai.cache_zstd_level") {
		cfg.CacheZstdLevel = viper.GetInt("openai.cache_zstd_level")
	}
}

func loadMockConfig(cfg *MockConfig) {
	if viper.IsSet("mock.generation_delay") {
		cfg.GenerationDelay = viper.GetDuration("mock.generation_delay")
	}
	if viper.IsSet("mock.sample_rate") {
		cfg.SampleRate = viper.GetInt("mock.sample_rate")
	}
}
