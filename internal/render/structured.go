package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/pollev/internal/model"
)

// Layout selects how structured documents arrange questions
type Layout int

const (
	LayoutKeyed Layout = iota // {"1": {...}, "2": {...}}
	LayoutArray               // [{...}, {...}]
)

// entry is the structured form of one question. Correct is nil when
// solutions are hidden, which drops the key from every encoding.
type entry struct {
	Title     string    `json:"title" yaml:"title" toml:"title"`
	Responses []string  `json:"responses" yaml:"responses" toml:"responses"`
	Correct   *[]string `json:"correct,omitempty" yaml:"correct,omitempty" toml:"correct,omitempty"`
}

func entries(questions []model.Question, showCorrect bool) []entry {
	out := make([]entry, 0, len(questions))
	for _, q := range questions {
		e := entry{Title: q.Title, Responses: q.Texts()}
		if showCorrect {
			correct := q.CorrectTexts()
			e.Correct = &correct
		}
		out = append(out, e)
	}
	return out
}

// keyedEntries encodes entries as a mapping from 1-based index to entry,
// keeping index order in JSON and YAML output
type keyedEntries []entry

func (k keyedEntries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range k {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i + 1)))
		buf.WriteByte(':')
		data, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (k keyedEntries) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, e := range k {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: strconv.Itoa(i + 1)}
		value := &yaml.Node{}
		if err := value.Encode(e); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// tree builds the value to encode, nested under the root name when set
func tree(questions []model.Question, cfg model.RenderConfig, layout Layout) any {
	var body any
	switch layout {
	case LayoutArray:
		body = entries(questions, cfg.ShowCorrect)
	default:
		body = keyedEntries(entries(questions, cfg.ShowCorrect))
	}

	if cfg.Structured.RootName == "" {
		return body
	}
	return map[string]any{cfg.Structured.RootName: body}
}

// JSONRenderer writes questions as a JSON document
type JSONRenderer struct {
	Layout Layout
}

func (r *JSONRenderer) Format() model.Format {
	if r.Layout == LayoutArray {
		return model.FormatJSONArray
	}
	return model.FormatJSON
}

func (r *JSONRenderer) Render(ctx context.Context, questions []model.Question, cfg model.RenderConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(tree(questions, cfg, r.Layout), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json renderer: %w", err)
	}
	data = append(data, '\n')

	return single(r.Format(), cfg, "application/json", data), nil
}

// YAMLRenderer writes questions as a YAML document
type YAMLRenderer struct {
	Layout Layout
}

func (r *YAMLRenderer) Format() model.Format {
	if r.Layout == LayoutArray {
		return model.FormatYAMLArray
	}
	return model.FormatYAML
}

func (r *YAMLRenderer) Render(ctx context.Context, questions []model.Question, cfg model.RenderConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tree(questions, cfg, r.Layout)); err != nil {
		return nil, fmt.Errorf("yaml renderer: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml renderer: %w", err)
	}

	return single(r.Format(), cfg, "application/yaml", buf.Bytes()), nil
}

// TOMLRenderer writes questions as tables named "<prefix>.<index>".
// TOML tables are unordered, so readers should sort by index.
type TOMLRenderer struct{}

func (r *TOMLRenderer) Format() model.Format { return model.FormatTOML }

func (r *TOMLRenderer) Render(ctx context.Context, questions []model.Question, cfg model.RenderConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keyed := make(map[string]entry, len(questions))
	for i, e := range entries(questions, cfg.ShowCorrect) {
		keyed[strconv.Itoa(i+1)] = e
	}

	data, err := toml.Marshal(map[string]map[string]entry{cfg.TOML.QuestionPrefix: keyed})
	if err != nil {
		return nil, fmt.Errorf("toml renderer: %w", err)
	}

	return single(model.FormatTOML, cfg, "application/toml", data), nil
}
