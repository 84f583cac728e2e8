package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/pollev/internal/model"
	"github.com/ppiankov/pollev/internal/parse"
)

// TeXRenderer writes a LaTeX document using the exam class
type TeXRenderer struct{}

func (r *TeXRenderer) Format() model.Format { return model.FormatTeX }

func (r *TeXRenderer) Render(ctx context.Context, questions []model.Question, cfg model.RenderConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("\\documentclass{exam}\n")
	b.WriteString("\\begin{document}\n\n")
	b.WriteString("\\begin{questions}\n")

	for _, q := range questions {
		writeTeXQuestion(&b, q, cfg)
	}

	b.WriteString("\\end{questions}\n\n")
	b.WriteString("\\end{document}\n")

	return single(model.FormatTeX, cfg, "application/x-tex", []byte(b.String())), nil
}

func writeTeXQuestion(b *strings.Builder, q model.Question, cfg model.RenderConfig) {
	tex := cfg.Tex
	spacing := fmt.Sprintf("\\\\[%d%s]", tex.EndSpacing, tex.EndSpacingMetric)

	fmt.Fprintf(b, "\\begin{%s}\n", tex.BlockType)
	b.WriteString(parse.EscapeTeX(q.Title))
	fmt.Fprintf(b, "\n\\end{%s}\\\\\n", tex.BlockType)

	fmt.Fprintf(b, "\\begin{%s}\n", tex.ResponseBlockType)
	for _, opt := range q.Options {
		block := tex.ChoiceBlockType
		if opt.Correct && cfg.ShowCorrect {
			block = tex.CorrectChoiceBlockType
		}
		fmt.Fprintf(b, "\\%s %s%s\n", block, parse.EscapeTeX(opt.Text), spacing)
	}
	fmt.Fprintf(b, "\\end{%s}\n\n", tex.ResponseBlockType)
}
