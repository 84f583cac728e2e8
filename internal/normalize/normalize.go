// Package normalize turns raw poll rows into questions.
package normalize

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/pollev/internal/model"
	"github.com/ppiankov/pollev/internal/parse"
)

// Options controls which rows become questions and how they are reshaped
type Options struct {
	Presenter    string // Keep only rows from this presenter (empty keeps all)
	ActivityType string // Keep only rows with this activity type
	Parse        parse.Options

	RemoveHidden bool
	HiddenMarker string // Title that marks a hidden question, e.g. "~hidden~"
	RemoveImages bool
	ImageMarker  string // Substring that marks a question containing an image

	Shuffle bool
	Rand    *rand.Rand // Source used when Shuffle is set; required in that case
}

// OptionsFromConfig builds normalizer options from the configuration
func OptionsFromConfig(cfg *model.Config, rng *rand.Rand) Options {
	return Options{
		Presenter:    cfg.Normalize.Presenter,
		ActivityType: cfg.Input.MultipleChoiceType,
		Parse: parse.Options{
			Delimiter:     cfg.Input.ResponseDelimiter,
			CorrectMarker: cfg.Input.CorrectMarker,
			PrefixChars:   cfg.Input.PrefixChars,
			PrefixScanLen: cfg.Normalize.PrefixScanLen,
		},
		RemoveHidden: cfg.Normalize.RemoveHidden,
		HiddenMarker: cfg.Input.HiddenMarker,
		RemoveImages: cfg.Normalize.RemoveImages,
		ImageMarker:  cfg.Input.ImageMarker,
		Shuffle:      cfg.Normalize.Shuffle,
		Rand:         rng,
	}
}

// Skip records a row that was dropped because it could not be parsed
type Skip struct {
	Row    int
	Title  string
	Reason string
}

// Result is the outcome of normalizing a table
type Result struct {
	Questions []model.Question
	Skipped   []Skip // Rows with no usable response options
	Filtered  int    // Rows dropped by the activity type or presenter filter
	Hidden    int    // Rows dropped as hidden
	Images    int    // Rows dropped because they reference an image
}

// Normalizer converts raw records into questions
type Normalizer struct {
	opts   Options
	logger zerolog.Logger
}

// NewNormalizer creates a normalizer
func NewNormalizer(opts Options, logger zerolog.Logger) (*Normalizer, error) {
	if opts.Shuffle && opts.Rand == nil {
		return nil, errors.New("normalize: shuffle requires a random source")
	}
	return &Normalizer{
		opts:   opts,
		logger: logger.With().Str("component", "normalize").Logger(),
	}, nil
}

// Normalize filters records and parses each kept row into a question.
// Output order follows input order; shuffling only reorders options
// within a question, and each option keeps its own correct flag.
func (n *Normalizer) Normalize(records []model.RawRecord) Result {
	var res Result

	for _, rec := range records {
		if !n.keep(rec) {
			res.Filtered++
			continue
		}

		title := parse.StripPrefix(rec.Title(), n.opts.Parse.PrefixChars, n.opts.Parse.PrefixScanLen)

		if n.opts.RemoveHidden && n.opts.HiddenMarker != "" && title == n.opts.HiddenMarker {
			res.Hidden++
			n.logger.Debug().Int("row", rec.Row).Msg("dropping hidden question")
			continue
		}

		if n.opts.RemoveImages && n.opts.ImageMarker != "" &&
			(strings.Contains(title, n.opts.ImageMarker) || strings.Contains(rec.Responses(), n.opts.ImageMarker)) {
			res.Images++
			n.logger.Debug().Int("row", rec.Row).Msg("dropping image question")
			continue
		}

		options, err := parse.ParseOptions(rec.Responses(), n.opts.Parse)
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Row: rec.Row, Title: title, Reason: err.Error()})
			n.logger.Warn().Int("row", rec.Row).Str("title", title).Err(err).Msg("skipping row")
			continue
		}

		if n.opts.Shuffle {
			n.opts.Rand.Shuffle(len(options), func(i, j int) {
				options[i], options[j] = options[j], options[i]
			})
		}

		res.Questions = append(res.Questions, model.Question{
			Title:   title,
			Options: options,
			Source:  rec,
		})
	}

	return res
}

func (n *Normalizer) keep(rec model.RawRecord) bool {
	if rec.ActivityType() != n.opts.ActivityType {
		return false
	}
	if n.opts.Presenter != "" && rec.Presenter() != n.opts.Presenter {
		return false
	}
	return true
}
