package render

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/ppiankov/pollev/internal/model"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName = "html-styles.css"
	ScriptName     = "html-js.js"
	pageTemplate   = "page.html"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// AssetsFS exposes the stylesheet and quiz script shipped with the page
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// HTMLRenderer writes a standalone page into "<name>-html/" together with
// its stylesheet, and the quiz script when quiz mode is on
type HTMLRenderer struct {
	page *pongo2.Template
}

// NewHTMLRenderer parses the embedded page template
func NewHTMLRenderer() (*HTMLRenderer, error) {
	templates, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("html renderer: open templates: %w", err)
	}

	set := pongo2.NewSet("pollev", pongo2.NewFSLoader(templates))
	page, err := set.FromFile(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("html renderer: load %s: %w", pageTemplate, err)
	}
	return &HTMLRenderer{page: page}, nil
}

func (r *HTMLRenderer) Format() model.Format { return model.FormatHTML }

func (r *HTMLRenderer) Render(ctx context.Context, questions []model.Question, cfg model.RenderConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := r.page.Execute(pageContext(questions, cfg, cfg.HTML.QuizMode))
	if err != nil {
		return nil, fmt.Errorf("html renderer: execute template: %w", err)
	}

	dir := cfg.Name + "-html/"
	doc := &Document{Files: []File{{
		Name:        dir + cfg.Name + model.FormatHTML.Extension(),
		ContentType: textType("text/html", cfg),
		Content:     []byte(page),
	}}}

	css, err := fs.ReadFile(AssetsFS(), StylesheetName)
	if err != nil {
		return nil, fmt.Errorf("html renderer: read %s: %w", StylesheetName, err)
	}
	doc.Files = append(doc.Files, File{Name: dir + StylesheetName, ContentType: "text/css", Content: css})

	if cfg.HTML.QuizMode {
		js, err := fs.ReadFile(AssetsFS(), ScriptName)
		if err != nil {
			return nil, fmt.Errorf("html renderer: read %s: %w", ScriptName, err)
		}
		doc.Files = append(doc.Files, File{Name: dir + ScriptName, ContentType: "text/javascript", Content: js})
	}

	return doc, nil
}

// pageHTML renders the page markup alone, without the quiz script
func (r *HTMLRenderer) pageHTML(questions []model.Question, cfg model.RenderConfig) (string, error) {
	out, err := r.page.Execute(pageContext(questions, cfg, false))
	if err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return out, nil
}

func pageContext(questions []model.Question, cfg model.RenderConfig, quiz bool) pongo2.Context {
	items := make([]map[string]any, len(questions))
	for i, q := range questions {
		options := make([]map[string]any, len(q.Options))
		for j, opt := range q.Options {
			options[j] = map[string]any{
				"text":  escapeText(opt.Text),
				"class": optionClass(opt, cfg),
			}
		}
		items[i] = map[string]any{
			"title":   escapeText(q.Title),
			"options": options,
		}
	}

	script := ""
	if quiz {
		script = ScriptName
	}

	return pongo2.Context{
		"charset":         charsetLabel(cfg),
		"name":            cfg.Name,
		"heading":         cfg.HTML.Heading,
		"stylesheet":      StylesheetName,
		"script":          script,
		"show_correct":    cfg.ShowCorrect,
		"options_class":   cfg.HTML.OptionsClass,
		"correct_class":   cfg.HTML.CorrectClass,
		"incorrect_class": cfg.HTML.IncorrectClass,
		"questions":       items,
	}
}

// optionClass is empty for every option when solutions are hidden, so the
// markup does not reveal the answer
func optionClass(opt model.Option, cfg model.RenderConfig) string {
	if !cfg.ShowCorrect {
		return ""
	}
	if opt.Correct {
		return cfg.HTML.CorrectClass
	}
	return cfg.HTML.IncorrectClass
}

// escapeText turns plain poll text into HTML. Markup in the text is shown
// literally; the result is passed through the text policy as a last check.
func escapeText(raw string) string {
	return strings.TrimSpace(textSanitizer().Sanitize(html.EscapeString(raw)))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
