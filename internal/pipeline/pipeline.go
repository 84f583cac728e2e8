// Package pipeline drives one conversion: load the poll export, normalize
// its rows, render the requested format and hand the files to a Sink.
package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/pollev/internal/cache"
	"github.com/ppiankov/pollev/internal/charset"
	"github.com/ppiankov/pollev/internal/model"
	"github.com/ppiankov/pollev/internal/normalize"
	"github.com/ppiankov/pollev/internal/render"
	"github.com/ppiankov/pollev/internal/table"
)

// InputCacheTTL bounds how long decoded inputs stay cached
const InputCacheTTL = 10 * time.Minute

// Pipeline orchestrates conversions for one configuration
type Pipeline struct {
	config *model.Config
	cache  cache.Cache // Optional cache of decoded inputs (nil if disabled)
	logger zerolog.Logger
}

// NewPipeline validates cfg and creates a pipeline for it
func NewPipeline(cfg *model.Config, logger zerolog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		config: cfg,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}, nil
}

// WithCache shares decoded inputs between conversions of this pipeline
func (p *Pipeline) WithCache(c cache.Cache) *Pipeline {
	p.cache = c
	return p
}

// Config returns the configuration the pipeline runs with
func (p *Pipeline) Config() *model.Config {
	return p.config
}

// Result summarizes one conversion
type Result struct {
	Input     string
	Format    model.Format
	Files     []string // Names handed to the sink, primary file first
	Questions int
	Correct   int
	Skipped   []normalize.Skip
	Filtered  int
	Hidden    int
	Images    int
	CacheHit  bool
	Duration  time.Duration
}

// OutputName derives the base output name from an input path
func OutputName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Convert runs the whole pipeline for one input file and format. The
// format and column layout are checked before anything is written.
func (p *Pipeline) Convert(ctx context.Context, input string, format model.Format, sink Sink) (*Result, error) {
	start := time.Now()
	cfg := p.config

	// 1. Select renderer
	renderer, err := render.New(format)
	if err != nil {
		return nil, err
	}

	// 2. Load and decode input
	data, hit, err := p.load(input)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	// 3. Parse table and resolve columns
	tbl, err := table.Parse(data, cfg.Input.Comma)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	cols, err := tbl.Resolve(cfg.Input, cfg.Normalize.Presenter != "")
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	// 4. Filter and normalize
	normalizer, err := normalize.NewNormalizer(normalize.OptionsFromConfig(cfg, p.newRand()), p.logger)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	normalized := normalizer.Normalize(tbl.Records(cols))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 5. Render
	name := OutputName(input)
	doc, err := renderer.Render(ctx, normalized.Questions, cfg.RenderConfig(name))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	// 6. Persist
	result := &Result{
		Input:     input,
		Format:    format,
		Questions: len(normalized.Questions),
		Skipped:   normalized.Skipped,
		Filtered:  normalized.Filtered,
		Hidden:    normalized.Hidden,
		Images:    normalized.Images,
		CacheHit:  hit,
	}
	for _, q := range normalized.Questions {
		result.Correct += q.CorrectCount()
	}

	for _, file := range doc.Files {
		content := file.Content
		if !file.Binary {
			if content, err = charset.Encode(content, cfg.Output.Encoding); err != nil {
				return nil, fmt.Errorf("encode %s: %w", file.Name, err)
			}
		}
		if err := sink.Write(file.Name, content); err != nil {
			return nil, fmt.Errorf("write: %w", err)
		}
		result.Files = append(result.Files, file.Name)
	}

	result.Duration = time.Since(start)
	p.logger.Debug().
		Str("input", input).
		Str("format", string(format)).
		Int("questions", result.Questions).
		Int("skipped", len(result.Skipped)).
		Bool("cache_hit", hit).
		Dur("duration", result.Duration).
		Msg("conversion finished")

	return result, nil
}

// load reads input and decodes it to UTF-8, going through the cache when
// one is attached
func (p *Pipeline) load(input string) ([]byte, bool, error) {
	encoding := p.config.Output.Encoding
	read := func() ([]byte, error) {
		raw, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		return charset.Decode(raw, encoding)
	}

	if p.cache == nil {
		data, err := read()
		return data, false, err
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, false, err
	}
	key := cache.InputKey(input, encoding, info.Size(), info.ModTime())
	return cache.Load(p.cache, key, InputCacheTTL, read)
}

// newRand returns the random source for one conversion. A zero seed
// picks a fresh seed per call.
func (p *Pipeline) newRand() *rand.Rand {
	seed := uint64(p.config.Normalize.Seed)
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
