package model

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/encoding/htmlindex"
)

// Config is the complete pollev configuration.
// Field keys are shared by the YAML settings file, POLLEV_* environment
// variables and command line flags.
type Config struct {
	Input      InputConfig      `yaml:"input" mapstructure:"input"`
	Normalize  NormalizeConfig  `yaml:"normalize" mapstructure:"normalize"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Tex        TexConfig        `yaml:"tex" mapstructure:"tex"`
	HTML       HTMLConfig       `yaml:"html" mapstructure:"html"`
	Structured StructuredConfig `yaml:"structured" mapstructure:"structured"`
	TOML       TOMLConfig       `yaml:"toml" mapstructure:"toml"`
	Tabular    TabularConfig    `yaml:"tabular" mapstructure:"tabular"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
}

// InputConfig describes the layout of the exported CSV
type InputConfig struct {
	PresenterColumn    string `yaml:"presenter_column" mapstructure:"presenter_column" validate:"required"`
	ActivityTypeColumn string `yaml:"activity_type_column" mapstructure:"activity_type_column" validate:"required"`
	TitleColumn        string `yaml:"title_column" mapstructure:"title_column" validate:"required"`
	ResponseColumn     string `yaml:"response_column" mapstructure:"response_column" validate:"required"`
	Comma              string `yaml:"comma" mapstructure:"comma" validate:"len=1"`                       // Field separator of the input file
	MultipleChoiceType string `yaml:"multiple_choice_type" mapstructure:"multiple_choice_type" validate:"required"`
	ResponseDelimiter  string `yaml:"response_delimiter" mapstructure:"response_delimiter" validate:"required"` // Separates options inside the response cell
	CorrectMarker      string `yaml:"correct_marker" mapstructure:"correct_marker" validate:"required"`
	HiddenMarker       string `yaml:"hidden_marker" mapstructure:"hidden_marker"`
	ImageMarker        string `yaml:"image_marker" mapstructure:"image_marker"`
	PrefixChars        string `yaml:"prefix_chars" mapstructure:"prefix_chars"` // Characters ending an enumeration prefix such as "a)"
}

// NormalizeConfig controls filtering and reordering of questions
type NormalizeConfig struct {
	Presenter     string `yaml:"presenter" mapstructure:"presenter"`
	PrefixScanLen int    `yaml:"prefix_scan_len" mapstructure:"prefix_scan_len" validate:"gte=0"`
	Shuffle       bool   `yaml:"shuffle" mapstructure:"shuffle"`
	Seed          int64  `yaml:"seed" mapstructure:"seed"` // 0 picks a random seed per run
	RemoveHidden  bool   `yaml:"remove_hidden" mapstructure:"remove_hidden"`
	RemoveImages  bool   `yaml:"remove_images" mapstructure:"remove_images"`
}

// OutputConfig controls where and how documents are written
type OutputConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir" validate:"required"`
	Encoding      string `yaml:"encoding" mapstructure:"encoding" validate:"required,charset"` // Used for reading the input and writing text outputs
	Format        string `yaml:"format" mapstructure:"format" validate:"required"`
	ShowSolutions bool   `yaml:"show_solutions" mapstructure:"show_solutions"`
}

// TexConfig names the LaTeX environments and macros of the exam document
type TexConfig struct {
	BlockType              string `yaml:"block_type" mapstructure:"block_type" validate:"required"`
	ResponseBlockType      string `yaml:"resp_block_type" mapstructure:"resp_block_type" validate:"required"`
	ChoiceBlockType        string `yaml:"resp_opt_block_type" mapstructure:"resp_opt_block_type" validate:"required"`
	CorrectChoiceBlockType string `yaml:"resp_opt_correct_block_type" mapstructure:"resp_opt_correct_block_type" validate:"required"`
	EndSpacing             int    `yaml:"end_spacing" mapstructure:"end_spacing" validate:"gte=0"`
	EndSpacingMetric       string `yaml:"end_spacing_metric" mapstructure:"end_spacing_metric" validate:"oneof=pt mm cm in em ex bp pc"`
}

// HTMLConfig controls the web page output
type HTMLConfig struct {
	QuizMode       bool   `yaml:"quiz_mode" mapstructure:"quiz_mode"`
	Heading        string `yaml:"heading" mapstructure:"heading"`
	OptionsClass   string `yaml:"options_class" mapstructure:"options_class" validate:"required"`
	CorrectClass   string `yaml:"correct_class" mapstructure:"correct_class" validate:"required"`
	IncorrectClass string `yaml:"incorrect_class" mapstructure:"incorrect_class" validate:"required,nefield=CorrectClass"`
}

// StructuredConfig controls the JSON and YAML documents
type StructuredConfig struct {
	RootName string `yaml:"root_name" mapstructure:"root_name"` // Empty writes questions at the top level
}

// TOMLConfig controls the TOML document
type TOMLConfig struct {
	QuestionPrefix string `yaml:"question_prefix" mapstructure:"question_prefix" validate:"required"`
}

// TabularConfig controls the CSV and spreadsheet documents
type TabularConfig struct {
	Comma     string `yaml:"comma" mapstructure:"comma" validate:"len=1"`
	SheetName string `yaml:"sheet_name" mapstructure:"sheet_name" validate:"required,max=31"`
}

// BatchConfig controls the batch command
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=1"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			PresenterColumn:    "Presenter",
			ActivityTypeColumn: "Activity type",
			TitleColumn:        "Activity title",
			ResponseColumn:     "Response options",
			Comma:              ",",
			MultipleChoiceType: "Multiple choice",
			ResponseDelimiter:  " | ",
			CorrectMarker:      "(Correct)",
			HiddenMarker:       "~hidden~",
			ImageMarker:        "(an image)",
			PrefixChars:        ").]&",
		},
		Normalize: NormalizeConfig{
			PrefixScanLen: 5,
			Shuffle:       true,
		},
		Output: OutputConfig{
			Dir:           ".",
			Encoding:      "utf-8",
			Format:        string(FormatCSV),
			ShowSolutions: true,
		},
		Tex: TexConfig{
			BlockType:              "question",
			ResponseBlockType:      "oneparcheckboxes",
			ChoiceBlockType:        "choice",
			CorrectChoiceBlockType: "CorrectChoice",
			EndSpacing:             4,
			EndSpacingMetric:       "pt",
		},
		HTML: HTMLConfig{
			Heading:        "PollEverywhere Report",
			OptionsClass:   "options",
			CorrectClass:   "correct",
			IncorrectClass: "incorrect",
		},
		Structured: StructuredConfig{
			RootName: "questions",
		},
		TOML: TOMLConfig{
			QuestionPrefix: "question",
		},
		Tabular: TabularConfig{
			Comma:     ",",
			SheetName: "Questions",
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report YAML key names so messages match the settings file
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("charset", func(fl validator.FieldLevel) bool {
		_, err := htmlindex.Get(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the configuration before any input is read.
// An unknown output format is reported as *UnsupportedFormatError.
func (c *Config) Validate() error {
	if _, err := ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// RenderConfig collects the options renderers need for one document
type RenderConfig struct {
	Name              string // Base name of the output, usually the input file name without extension
	ShowCorrect       bool
	Encoding          string // Charset text outputs are written in, declared by self-describing formats
	ResponseDelimiter string
	CorrectMarker     string
	Tex               TexConfig
	HTML              HTMLConfig
	Structured        StructuredConfig
	TOML              TOMLConfig
	Tabular           TabularConfig
}

// RenderConfig derives the renderer options for an output named name
func (c *Config) RenderConfig(name string) RenderConfig {
	return RenderConfig{
		Name:              name,
		ShowCorrect:       c.Output.ShowSolutions,
		Encoding:          c.Output.Encoding,
		ResponseDelimiter: c.Input.ResponseDelimiter,
		CorrectMarker:     c.Input.CorrectMarker,
		Tex:               c.Tex,
		HTML:              c.HTML,
		Structured:        c.Structured,
		TOML:              c.TOML,
		Tabular:           c.Tabular,
	}
}
