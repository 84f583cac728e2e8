package render

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/pollev/internal/model"
)

func TestTeXRenderer_Scenario(t *testing.T) {
	questions := []model.Question{fixtureQuestion(1, "What is 2+2?",
		model.Option{Text: "3"}, model.Option{Text: "4", Correct: true}, model.Option{Text: "5"})}

	doc, err := (&TeXRenderer{}).Render(context.Background(), questions, testConfig(true))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := `\documentclass{exam}
\begin{document}

\begin{questions}
\begin{question}
What is 2+2?
\end{question}\\
\begin{oneparcheckboxes}
\choice 3\\[4pt]
\CorrectChoice 4\\[4pt]
\choice 5\\[4pt]
\end{oneparcheckboxes}

\end{questions}

\end{document}
`
	if diff := cmp.Diff(want, string(doc.Primary().Content)); diff != "" {
		t.Errorf("tex output mismatch (-want +got):\n%s", diff)
	}
}

func TestTeXRenderer_HiddenSolutions(t *testing.T) {
	doc, err := (&TeXRenderer{}).Render(context.Background(), fixtureQuestions(), testConfig(false))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := string(doc.Primary().Content)
	if strings.Contains(out, `\CorrectChoice`) {
		t.Errorf("hidden solutions still mark correct choices:\n%s", out)
	}
	if got := strings.Count(out, `\choice `); got != 8 {
		t.Errorf("Expected 8 plain choices, got %d", got)
	}
}

func TestTeXRenderer_EscapesAndConfig(t *testing.T) {
	questions := []model.Question{fixtureQuestion(1, "Save 50% & more",
		model.Option{Text: "$5"}, model.Option{Text: "a_b", Correct: true})}

	cfg := testConfig(true)
	cfg.Tex.BlockType = "problem"
	cfg.Tex.ResponseBlockType = "checkboxes"
	cfg.Tex.EndSpacing = 2
	cfg.Tex.EndSpacingMetric = "mm"

	doc, err := (&TeXRenderer{}).Render(context.Background(), questions, cfg)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := string(doc.Primary().Content)

	for _, want := range []string{
		`\begin{problem}`,
		`Save 50\% \& more`,
		`\begin{checkboxes}`,
		`\choice \$5\\[2mm]`,
		`\CorrectChoice a\_b\\[2mm]`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestTeXRenderer_Empty(t *testing.T) {
	doc, err := (&TeXRenderer{}).Render(context.Background(), nil, testConfig(true))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := "\\documentclass{exam}\n\\begin{document}\n\n\\begin{questions}\n\\end{questions}\n\n\\end{document}\n"
	if got := string(doc.Primary().Content); got != want {
		t.Errorf("Expected empty document %q, got %q", want, got)
	}
}
