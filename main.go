// Package main provides the entry point for the scriptcast CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/scriptcast/internal/archive"
	"github.com/dgnsrekt/scriptcast/internal/cache"
	"github.com/dgnsrekt/scriptcast/narrate"
	"github.com/dgnsrekt/scriptcast/narrate/audio"
	"github.com/dgnsrekt/scriptcast/narrate/chunker"
	"github.com/dgnsrekt/scriptcast/narrate/engines"
	"github.com/dgnsrekt/scriptcast/narrate/engines/mock"
	"github.com/dgnsrekt/scriptcast/narrate/engines/openai"
	"github.com/dgnsrekt/scriptcast/narrate/lexicon"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	scriptExtensions = []string{".txt", ".md"}

	configFile string
	output     string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "scriptcast [SCRIPT|DIR]...",
		Short: "Narrate text scripts into audio files",
		Long: "Scriptcast converts long-form text scripts into spoken audio.\n" +
			"Scripts are rewritten with a pronunciation lexicon, split into\n" +
			"provider-sized chunks, synthesized, and reassembled into one\n" +
			"audio file per script. Multiple scripts are bundled into a zip.",
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE:         execute,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version

	rootCmd.Flags().StringVar(&configFile, "config", "", "config file (default "+defaultConfigPath()+")")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output file (single script) or zip bundle (batch)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.Flags().String("engine", "", "synthesis engine: openai or mock")
	rootCmd.Flags().String("format", "", "audio container: wav or mp3")
	rootCmd.Flags().String("voice", "", "provider voice identifier")
	rootCmd.Flags().Int("max-chars", 0, "maximum characters per synthesis request")
	rootCmd.Flags().String("lexicon", "", "lexicon CSV source (URL or file path)")
	rootCmd.Flags().Int("workers", 0, "concurrent script pipelines")
	rootCmd.Flags().Bool("all-or-nothing", false, "abort the whole batch on the first script failure")
	rootCmd.Flags().Bool("silence-cue", false, "use the literal silence cue for pause markers instead of punctuation")
}

func defaultConfigPath() string {
	scope := gap.NewScope(gap.User, "scriptcast")
	path, err := scope.ConfigPath("scriptcast.yml")
	if err != nil {
		return "~/.config/scriptcast/scriptcast.yml"
	}
	return path
}

func defaultCacheDir() string {
	scope := gap.NewScope(gap.User, "scriptcast")
	dir, err := scope.CacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "audio")
}

func setupLog() {
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	// Plain logfmt output when logs are being piped somewhere.
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		log.SetFormatter(log.LogfmtFormatter)
	}
}

// loadConfig resolves configuration: defaults, then the config file, then
// environment variables, then flags.
func loadConfig(cmd *cobra.Command) (narrate.Config, error) {
	if configFile == "" {
		configFile = defaultConfigPath()
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configFile); statErr == nil {
			return narrate.Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
		// No config file is fine; defaults and env cover it.
	}

	cfg := narrate.LoadConfigFromViper()

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine, _ = flags.GetString("engine")
	}
	if flags.Changed("format") {
		cfg.Container, _ = flags.GetString("format")
	}
	if flags.Changed("voice") {
		cfg.Voice, _ = flags.GetString("voice")
	}
	if flags.Changed("max-chars") {
		cfg.MaxChars, _ = flags.GetInt("max-chars")
	}
	if flags.Changed("lexicon") {
		cfg.Lexicon.Source, _ = flags.GetString("lexicon")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("all-or-nothing") {
		cfg.AllOrNothing, _ = flags.GetBool("all-or-nothing")
	}
	if flags.Changed("silence-cue") {
		cfg.UseSilenceCue, _ = flags.GetBool("silence-cue")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func execute(cmd *cobra.Command, args []string) error {
	setupLog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	scripts, err := collectScripts(args)
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		return fmt.Errorf("no script files found in %s", strings.Join(args, ", "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Shutdown() //nolint:errcheck

	if !engine.Capabilities().Supports(cfg.OutputContainer()) {
		return fmt.Errorf("%w: engine %s cannot produce %s",
			narrate.ErrUnsupportedContainer, engine.Name(), cfg.Container)
	}

	controller := buildController(ctx, cfg, engine)

	outcomes := controller.NarrateBatch(ctx, scripts)
	if err := writeOutputs(cfg, outcomes); err != nil {
		return err
	}
	return report(outcomes)
}

// collectScripts expands arguments into named scripts. Directories
// contribute their .txt and .md files, sorted by name.
func collectScripts(args []string) ([]narrate.Script, error) {
	var paths []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", arg, err)
		}
		if !st.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !isScriptFile(entry.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(arg, entry.Name()))
		}
	}

	scripts := make([]narrate.Script, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read script %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		scripts = append(scripts, narrate.Script{Name: name, Text: string(data)})
	}
	return scripts, nil
}

func isScriptFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range scriptExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func buildEngine(cfg narrate.Config) (engines.Engine, error) {
	switch strings.ToLower(cfg.Engine) {
	case "mock":
		return mock.New(
			mock.WithDelay(cfg.Mock.GenerationDelay),
			mock.WithSampleRate(cfg.Mock.SampleRate),
		), nil
	case "openai":
		var audioCache *cache.Cache
		if cfg.OpenAI.CacheEnabled {
			dir := cfg.OpenAI.CacheDir
			if dir == "" {
				dir = defaultCacheDir()
			}
			var err error
			audioCache, err = cache.New(cache.Config{
				MemoryCapacity: int64(cfg.OpenAI.CacheMemoryMB) << 20,
				DiskCapacity:   int64(cfg.OpenAI.CacheDiskMB) << 20,
				DiskPath:       dir,
				ZstdLevel:      cfg.OpenAI.CacheZstdLevel,
				MaxAge:         cache.DefaultConfig().MaxAge,
			})
			if err != nil {
				return nil, err
			}
		}
		return openai.New(openai.Config{
			APIKey:            cfg.OpenAI.APIKey,
			BaseURL:           cfg.OpenAI.BaseURL,
			Model:             cfg.OpenAI.Model,
			Speed:             cfg.OpenAI.Speed,
			Timeout:           cfg.OpenAI.Timeout,
			RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
			Cache:             audioCache,
		})
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", narrate.ErrInvalidConfig, cfg.Engine)
	}
}

// buildController wires the pipeline stages to the controller's
// interfaces.
func buildController(ctx context.Context, cfg narrate.Config, engine engines.Engine) *narrate.Controller {
	normalizer := &chunker.Normalizer{
		Dots:          cfg.PauseDots,
		LongRepeat:    cfg.LongPauseRepeat,
		UseSilenceCue: cfg.UseSilenceCue,
		Cue:           cfg.SilenceCue,
	}

	var lex narrate.Lexicon = emptyLexicon{}
	if cfg.Lexicon.Source != "" {
		source := lexicon.NewCSVSource(cfg.Lexicon.Source, nil)
		store := lexicon.NewStore(source.Fetch, cfg.Lexicon.TTL)
		if cfg.Lexicon.Watch && isLocalPath(cfg.Lexicon.Source) {
			go func() {
				if err := lexicon.Watch(ctx, store, cfg.Lexicon.Source); err != nil && ctx.Err() == nil {
					log.Warn("lexicon watcher stopped", "error", err)
				}
			}()
		}
		lex = storeLexicon{store: store}
	}

	substitute := func(text string, terms []narrate.LexiconTerm) string {
		pairs := make([]lexicon.Term, len(terms))
		for i, t := range terms {
			pairs[i] = lexicon.Term{Term: t.Term, Spoken: t.Spoken}
		}
		return lexicon.Substitute(text, pairs)
	}

	return narrate.NewController(
		cfg,
		normalizer,
		lex,
		substitute,
		chunker.Chunk,
		engineSynthesizer{engine},
		audio.Assemble,
	)
}

func isLocalPath(location string) bool {
	return !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://")
}

// storeLexicon adapts the lexicon store to the controller's snapshot
// accessor.
type storeLexicon struct {
	store *lexicon.Store
}

func (l storeLexicon) Terms(ctx context.Context) ([]narrate.LexiconTerm, error) {
	snap, err := l.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	terms := make([]narrate.LexiconTerm, len(snap.Terms))
	for i, t := range snap.Terms {
		terms[i] = narrate.LexiconTerm{Term: t.Term, Spoken: t.Spoken}
	}
	return terms, nil
}

// emptyLexicon is used when no lexicon source is configured.
type emptyLexicon struct{}

func (emptyLexicon) Terms(context.Context) ([]narrate.LexiconTerm, error) {
	return nil, nil
}

// engineSynthesizer adapts an engine to the controller's synthesizer.
type engineSynthesizer struct {
	engines.Engine
}

func (s engineSynthesizer) MaxTextLength() int {
	return s.Engine.Capabilities().MaxTextLength
}

// writeOutputs writes one audio file for a single successful script, or a
// zip bundle when the batch has multiple scripts.
func writeOutputs(cfg narrate.Config, outcomes []narrate.Outcome) error {
	var results []narrate.Result
	for _, o := range outcomes {
		if o.Err == nil {
			results = append(results, o.Result)
		}
	}
	if len(results) == 0 {
		return nil
	}

	if len(outcomes) == 1 {
		path := output
		if path == "" {
			path = results[0].Filename()
		}
		if err := os.WriteFile(path, results[0].Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Info("audio written", "path", path, "size", humanize.Bytes(uint64(len(results[0].Data))))
		return nil
	}

	path := output
	if path == "" {
		path = "narration.zip"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bundle %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	entries := make([]archive.Entry, len(results))
	for i, r := range results {
		entries[i] = archive.Entry{Name: r.Filename(), Data: r.Data}
	}
	if err := archive.WriteZip(f, entries); err != nil {
		return err
	}
	log.Info("bundle written", "path", path, "scripts", len(entries))
	return nil
}

// report prints per-script outcomes and returns an error when any script
// failed, so the exit code reflects the batch.
func report(outcomes []narrate.Outcome) error {
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  FAIL  %s: %v\n", o.ScriptName, o.Err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  OK    %s  (%d chunks, %s)\n",
			o.Result.ScriptName, o.Result.Chunks, humanize.Bytes(uint64(len(o.Result.Data))))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(outcomes))
	}
	return nil
}
