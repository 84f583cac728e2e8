package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/pollev/internal/model"
)

func TestMarkdownRenderer_Scenario(t *testing.T) {
	r, err := NewMarkdownRenderer()
	if err != nil {
		t.Fatalf("NewMarkdownRenderer failed: %v", err)
	}

	questions := []model.Question{fixtureQuestion(1, "What is 2+2?",
		model.Option{Text: "3"}, model.Option{Text: "4", Correct: true}, model.Option{Text: "5"})}

	doc, err := r.Render(context.Background(), questions, testConfig(true))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := "# PollEverywhere Report\n\n1. What is 2+2?\n    a. 3\n    b. **4**\n    c. 5\n"
	if diff := cmp.Diff(want, string(doc.Primary().Content)); diff != "" {
		t.Errorf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownRenderer_KeepsAngleBrackets(t *testing.T) {
	r, err := NewMarkdownRenderer()
	if err != nil {
		t.Fatalf("NewMarkdownRenderer failed: %v", err)
	}

	questions := []model.Question{fixtureQuestion(1, "Which holds when a<b?",
		model.Option{Text: "x<y", Correct: true}, model.Option{Text: "x>y"}, model.Option{Text: "<b>x</b>"})}

	doc, err := r.Render(context.Background(), questions, testConfig(true))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := "# PollEverywhere Report\n\n1. Which holds when a<b?\n    a. **x<y**\n    b. x>y\n    c. <b>x</b>\n"
	if diff := cmp.Diff(want, string(doc.Primary().Content)); diff != "" {
		t.Errorf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "numbered questions with lettered options",
			page: `<h1>Quiz</h1><ol><li>First<ol type="a"><li>x</li><li class="correct">y</li></ol></li><li>Second<ol type="a"><li>z</li></ol></li></ol>`,
			want: "# Quiz\n\n1. First\n    a. x\n    b. **y**\n\n2. Second\n    a. z\n",
		},
		{
			name: "head and scripts dropped",
			page: `<html><head><title>t</title><style>li{}</style></head><body><script>var a;</script><h2>Sub</h2></body></html>`,
			want: "## Sub\n",
		},
		{
			name: "markdown characters escaped",
			page: `<ol><li>a*b_c</li></ol>`,
			want: "1. a\\*b\\_c\n",
		},
		{
			name: "paragraph text kept",
			page: `<p>Hello <b>there</b></p>`,
			want: "Hello there\n",
		},
		{
			name: "unordered list",
			page: `<ul><li>one</li><li>two</li></ul>`,
			want: "- one\n\n- two\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTMLToMarkdown(tt.page, "correct")
			if err != nil {
				t.Fatalf("HTMLToMarkdown failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLetterMarker(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "a"},
		{1, "b"},
		{25, "z"},
		{26, "aa"},
		{27, "ab"},
		{52, "ba"},
	}

	for _, tt := range tests {
		if got := letterMarker(tt.index); got != tt.want {
			t.Errorf("letterMarker(%d) = %q, expected %q", tt.index, got, tt.want)
		}
	}
}
