package render

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/pollev/internal/model"
)

var fixtureHeader = []string{"Presenter", "Activity type", "Activity title", "Response options", "Created at"}

func fixtureQuestion(row int, title string, options ...model.Option) model.Question {
	raw := make([]string, len(options))
	for i, opt := range options {
		raw[i] = opt.Text
		if opt.Correct {
			raw[i] += "(Correct)"
		}
	}
	return model.Question{
		Title:   title,
		Options: options,
		Source: model.RawRecord{
			Row:     row,
			Header:  fixtureHeader,
			Values:  []string{"alice", "Multiple choice", "1) " + title, strings.Join(raw, " | "), "2024-01-01"},
			Columns: model.Columns{Presenter: 0, ActivityType: 1, Title: 2, Responses: 3},
		},
	}
}

func fixtureQuestions() []model.Question {
	return []model.Question{
		fixtureQuestion(1, "What is 2+2?",
			model.Option{Text: "3"}, model.Option{Text: "4", Correct: true}, model.Option{Text: "5"}),
		fixtureQuestion(2, "Pick the primes",
			model.Option{Text: "2", Correct: true}, model.Option{Text: "4"}, model.Option{Text: "7", Correct: true}),
		fixtureQuestion(3, "Opinion poll",
			model.Option{Text: "Yes"}, model.Option{Text: "No"}),
	}
}

func testConfig(show bool) model.RenderConfig {
	cfg := model.DefaultConfig()
	cfg.Output.ShowSolutions = show
	return cfg.RenderConfig("session")
}

func mustRender(t *testing.T, format model.Format, questions []model.Question, cfg model.RenderConfig) *Document {
	t.Helper()
	r, err := New(format)
	if err != nil {
		t.Fatalf("New(%s): %v", format, err)
	}
	if r.Format() != format {
		t.Errorf("renderer for %s reports format %s", format, r.Format())
	}
	doc, err := r.Render(context.Background(), questions, cfg)
	if err != nil {
		t.Fatalf("Render(%s): %v", format, err)
	}
	if len(doc.Files) == 0 {
		t.Fatalf("Render(%s): no files", format)
	}
	return doc
}

// countCorrect extracts how many options a rendered document marks correct
func countCorrect(t *testing.T, format model.Format, doc *Document) int {
	t.Helper()
	content := doc.Primary().Content
	text := string(content)

	switch format {
	case model.FormatTeX:
		return strings.Count(text, `\CorrectChoice `)
	case model.FormatHTML:
		return strings.Count(text, `class="correct"`)
	case model.FormatMarkdown:
		n := 0
		for _, line := range strings.Split(text, "\n") {
			if strings.HasPrefix(line, "    ") && strings.HasSuffix(line, "**") {
				n++
			}
		}
		return n
	case model.FormatJSON, model.FormatYAML:
		var tree map[string]map[string]map[string]any
		decode(t, format, content, &tree)
		n := 0
		for _, e := range tree["questions"] {
			if c, ok := e["correct"].([]any); ok {
				n += len(c)
			}
		}
		return n
	case model.FormatJSONArray, model.FormatYAMLArray:
		var tree map[string][]map[string]any
		decode(t, format, content, &tree)
		n := 0
		for _, e := range tree["questions"] {
			if c, ok := e["correct"].([]any); ok {
				n += len(c)
			}
		}
		return n
	case model.FormatTOML:
		var tree map[string]map[string]map[string]any
		if err := toml.Unmarshal(content, &tree); err != nil {
			t.Fatalf("toml decode: %v", err)
		}
		n := 0
		for _, e := range tree["question"] {
			if c, ok := e["correct"].([]any); ok {
				n += len(c)
			}
		}
		return n
	case model.FormatCSV:
		return strings.Count(text, "(Correct)")
	case model.FormatXLSX:
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			t.Fatalf("xlsx open: %v", err)
		}
		defer func() { _ = f.Close() }()
		rows, err := f.GetRows("Questions")
		if err != nil {
			t.Fatalf("xlsx rows: %v", err)
		}
		n := 0
		for _, row := range rows {
			for _, cell := range row {
				n += strings.Count(cell, "(Correct)")
			}
		}
		return n
	case model.FormatText:
		n := 0
		inCorrect := false
		for _, line := range strings.Split(text, "\n") {
			switch {
			case line == "Correct:":
				inCorrect = true
			case line == "Question:":
				inCorrect = false
			case inCorrect && strings.HasPrefix(line, "\t- "):
				n++
			}
		}
		return n
	}

	t.Fatalf("no correct counter for %s", format)
	return 0
}

func decode(t *testing.T, format model.Format, content []byte, v any) {
	t.Helper()
	var err error
	switch format {
	case model.FormatJSON, model.FormatJSONArray:
		err = json.Unmarshal(content, v)
	default:
		err = yaml.Unmarshal(content, v)
	}
	if err != nil {
		t.Fatalf("decode %s: %v", format, err)
	}
}

func TestNew_Unsupported(t *testing.T) {
	_, err := New(model.Format("pdf"))

	var fmtErr *model.UnsupportedFormatError
	if !errors.As(err, &fmtErr) {
		t.Fatalf("Expected UnsupportedFormatError, got %v", err)
	}
	if fmtErr.Format != "pdf" {
		t.Errorf("Expected format 'pdf', got %q", fmtErr.Format)
	}
}

func TestRenderers_CorrectCountRoundTrip(t *testing.T) {
	questions := fixtureQuestions()
	want := 0
	for _, q := range questions {
		want += strings.Count(q.Source.Responses(), "(Correct)")
	}

	for _, format := range model.Formats {
		t.Run(string(format), func(t *testing.T) {
			doc := mustRender(t, format, questions, testConfig(true))
			if got := countCorrect(t, format, doc); got != want {
				t.Errorf("Expected %d correct options, got %d", want, got)
			}
		})
	}
}

func TestRenderers_HiddenSolutionsDoNotLeak(t *testing.T) {
	questions := fixtureQuestions()
	cfg := testConfig(false)

	forbidden := []string{
		cfg.CorrectMarker,
		`class="` + cfg.HTML.CorrectClass + `"`,
		`class="` + cfg.HTML.IncorrectClass + `"`,
		`\` + cfg.Tex.CorrectChoiceBlockType,
		`"correct"`,
		"correct:",
		"Correct:",
		"**",
	}

	for _, format := range model.Formats {
		t.Run(string(format), func(t *testing.T) {
			doc := mustRender(t, format, questions, cfg)

			if got := countCorrect(t, format, doc); got != 0 {
				t.Errorf("Expected no correct options, got %d", got)
			}

			if doc.Primary().Binary {
				return
			}
			text := string(doc.Primary().Content)
			for _, s := range forbidden {
				if strings.Contains(text, s) {
					t.Errorf("output leaks %q:\n%s", s, text)
				}
			}
		})
	}
}

func TestRenderers_Idempotent(t *testing.T) {
	questions := fixtureQuestions()
	cfg := testConfig(true)

	for _, format := range model.Formats {
		if format == model.FormatXLSX {
			// Workbook archives are compared by content in tabular_test.go
			continue
		}
		t.Run(string(format), func(t *testing.T) {
			first := mustRender(t, format, questions, cfg)
			second := mustRender(t, format, questions, cfg)

			if len(first.Files) != len(second.Files) {
				t.Fatalf("file count changed: %d vs %d", len(first.Files), len(second.Files))
			}
			for i := range first.Files {
				if first.Files[i].Name != second.Files[i].Name {
					t.Errorf("file name changed: %q vs %q", first.Files[i].Name, second.Files[i].Name)
				}
				if !bytes.Equal(first.Files[i].Content, second.Files[i].Content) {
					t.Errorf("%s: output differs between runs", first.Files[i].Name)
				}
			}
		})
	}
}

func TestRenderers_DoNotMutateInput(t *testing.T) {
	questions := fixtureQuestions()
	before := fixtureQuestions()

	for _, format := range model.Formats {
		mustRender(t, format, questions, testConfig(true))
	}

	for i := range questions {
		if questions[i].Title != before[i].Title {
			t.Errorf("title %d mutated", i)
		}
		for j := range questions[i].Options {
			if questions[i].Options[j] != before[i].Options[j] {
				t.Errorf("option %d/%d mutated", i, j)
			}
		}
	}
}

func TestRenderers_FileNames(t *testing.T) {
	tests := map[model.Format]string{
		model.FormatTeX:       "session.tex",
		model.FormatHTML:      "session-html/session.html",
		model.FormatMarkdown:  "session.md",
		model.FormatJSON:      "session.json",
		model.FormatJSONArray: "session.json",
		model.FormatYAML:      "session.yaml",
		model.FormatYAMLArray: "session.yaml",
		model.FormatTOML:      "session.toml",
		model.FormatCSV:       "session.csv",
		model.FormatXLSX:      "session.xlsx",
		model.FormatText:      "session.txt",
	}

	for format, want := range tests {
		doc := mustRender(t, format, fixtureQuestions(), testConfig(true))
		if got := doc.Primary().Name; got != want {
			t.Errorf("%s: expected primary file %q, got %q", format, want, got)
		}
	}
}

func TestRenderers_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, format := range model.Formats {
		r, err := New(format)
		if err != nil {
			t.Fatalf("New(%s): %v", format, err)
		}
		if _, err := r.Render(ctx, fixtureQuestions(), testConfig(true)); !errors.Is(err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", format, err)
		}
	}
}

func TestCSVFixtureParses(t *testing.T) {
	doc := mustRender(t, model.FormatCSV, fixtureQuestions(), testConfig(true))
	records, err := csv.NewReader(bytes.NewReader(doc.Primary().Content)).ReadAll()
	if err != nil {
		t.Fatalf("csv output does not parse: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("Expected header plus 3 rows, got %d", len(records))
	}
}
