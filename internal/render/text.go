package render

import (
	"context"
	"strings"

	"github.com/ppiankov/pollev/internal/model"
)

// TextRenderer writes labeled plain text blocks, one per question
type TextRenderer struct{}

func (r *TextRenderer) Format() model.Format { return model.FormatText }

func (r *TextRenderer) Render(ctx context.Context, questions []model.Question, cfg model.RenderConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	for i, q := range questions {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString("Question:\n")
		b.WriteString(q.Title)
		b.WriteString("\n\nOptions:\n")
		for _, opt := range q.Options {
			b.WriteString("\t- " + opt.Text + "\n")
		}

		if cfg.ShowCorrect {
			b.WriteString("\nCorrect:\n")
			for _, text := range q.CorrectTexts() {
				b.WriteString("\t- " + text + "\n")
			}
		}
	}

	return single(model.FormatText, cfg, textType("text/plain", cfg), []byte(b.String())), nil
}
