// Package render turns normalized questions into output documents.
//
// Every supported model.Format has exactly one Renderer. Renderers are
// stateless and never modify the questions they are given; when
// RenderConfig.ShowCorrect is false none of them reveals which options are
// correct.
package render

import (
	"context"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/ppiankov/pollev/internal/model"
)

// Renderer converts questions into a Document
type Renderer interface {
	Format() model.Format
	Render(ctx context.Context, questions []model.Question, cfg model.RenderConfig) (*Document, error)
}

// File is one named output of a Document. Names are relative paths that
// the caller resolves against the output directory.
type File struct {
	Name        string
	ContentType string
	Content     []byte
	Binary      bool // Binary files are written verbatim, never re-encoded
}

// Document is the result of a render: a primary file plus optional assets
type Document struct {
	Files []File
}

// Primary returns the main output file
func (d *Document) Primary() File {
	if d == nil || len(d.Files) == 0 {
		return File{}
	}
	return d.Files[0]
}

// New returns the renderer for format
func New(format model.Format) (Renderer, error) {
	switch format {
	case model.FormatTeX:
		return &TeXRenderer{}, nil
	case model.FormatHTML:
		return NewHTMLRenderer()
	case model.FormatMarkdown:
		return NewMarkdownRenderer()
	case model.FormatJSON:
		return &JSONRenderer{Layout: LayoutKeyed}, nil
	case model.FormatJSONArray:
		return &JSONRenderer{Layout: LayoutArray}, nil
	case model.FormatYAML:
		return &YAMLRenderer{Layout: LayoutKeyed}, nil
	case model.FormatYAMLArray:
		return &YAMLRenderer{Layout: LayoutArray}, nil
	case model.FormatTOML:
		return &TOMLRenderer{}, nil
	case model.FormatCSV:
		return &CSVRenderer{}, nil
	case model.FormatXLSX:
		return &XLSXRenderer{}, nil
	case model.FormatText:
		return &TextRenderer{}, nil
	default:
		return nil, &model.UnsupportedFormatError{Format: string(format)}
	}
}

// single wraps one text file named after cfg.Name and the format extension
func single(format model.Format, cfg model.RenderConfig, contentType string, content []byte) *Document {
	return &Document{Files: []File{{
		Name:        cfg.Name + format.Extension(),
		ContentType: contentType,
		Content:     content,
	}}}
}

// charsetLabel returns the canonical name of the encoding text outputs are
// written in, falling back to utf-8
func charsetLabel(cfg model.RenderConfig) string {
	enc, err := htmlindex.Get(cfg.Encoding)
	if err != nil {
		return "utf-8"
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return "utf-8"
	}
	return name
}

// textType appends the output charset to a text media type
func textType(mediaType string, cfg model.RenderConfig) string {
	return mediaType + "; charset=" + charsetLabel(cfg)
}
