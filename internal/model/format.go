package model

import "strings"

// Format identifies an output renderer
type Format string

const (
	FormatTeX       Format = "tex"        // LaTeX exam document
	FormatHTML      Format = "html"       // Standalone web page plus stylesheet
	FormatMarkdown  Format = "markdown"   // Markdown derived from the web page
	FormatJSON      Format = "json"       // Questions keyed by 1-based index
	FormatJSONArray Format = "json-array" // Questions as a flat array
	FormatYAML      Format = "yaml"       // Questions keyed by 1-based index
	FormatYAMLArray Format = "yaml-array" // Questions as a flat array
	FormatTOML      Format = "toml"       // Questions keyed by index under a prefix table
	FormatCSV       Format = "csv"        // Normalized table re-serialized as CSV
	FormatXLSX      Format = "xlsx"       // Normalized table as a spreadsheet
	FormatText      Format = "txt"        // Labeled plain text blocks
)

// Formats lists every supported output format in display order
var Formats = []Format{
	FormatTeX,
	FormatHTML,
	FormatMarkdown,
	FormatJSON,
	FormatJSONArray,
	FormatYAML,
	FormatYAMLArray,
	FormatTOML,
	FormatCSV,
	FormatXLSX,
	FormatText,
}

// Extension returns the conventional file extension, including the dot
func (f Format) Extension() string {
	switch f {
	case FormatTeX:
		return ".tex"
	case FormatHTML:
		return ".html"
	case FormatMarkdown:
		return ".md"
	case FormatJSON, FormatJSONArray:
		return ".json"
	case FormatYAML, FormatYAMLArray:
		return ".yaml"
	case FormatTOML:
		return ".toml"
	case FormatCSV:
		return ".csv"
	case FormatXLSX:
		return ".xlsx"
	case FormatText:
		return ".txt"
	default:
		return ""
	}
}

// Description returns a one-line summary of the output
func (f Format) Description() string {
	switch f {
	case FormatTeX:
		return "LaTeX exam document"
	case FormatHTML:
		return "web page with stylesheet, optional interactive quiz"
	case FormatMarkdown:
		return "Markdown report"
	case FormatJSON:
		return "JSON, questions keyed by index"
	case FormatJSONArray:
		return "JSON, questions as an array"
	case FormatYAML:
		return "YAML, questions keyed by index"
	case FormatYAMLArray:
		return "YAML, questions as an array"
	case FormatTOML:
		return "TOML, one table per question"
	case FormatCSV:
		return "normalized CSV table"
	case FormatXLSX:
		return "normalized spreadsheet"
	case FormatText:
		return "plain text"
	default:
		return ""
	}
}

// ParseFormat resolves a format name, accepting a few common aliases
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "md":
		n = string(FormatMarkdown)
	case "yml":
		n = string(FormatYAML)
	case "text":
		n = string(FormatText)
	case "latex":
		n = string(FormatTeX)
	}

	for _, f := range Formats {
		if string(f) == n {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{Format: name}
}

// FormatNames returns the names of all supported formats
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return names
}
