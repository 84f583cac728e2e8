package model

// RawRecord is one row of the exported poll history table
type RawRecord struct {
	Row     int      // 1-based data row number in the source file (header excluded)
	Header  []string // Column names shared by every record of the table
	Values  []string // Cell values, aligned with Header
	Columns Columns  // Resolved indices of the columns the pipeline reads
}

// Columns holds the resolved indices of the named input columns
type Columns struct {
	Presenter    int
	ActivityType int
	Title        int
	Responses    int
}

// Presenter returns the presenter (screen name) cell
func (r RawRecord) Presenter() string { return r.cell(r.Columns.Presenter) }

// ActivityType returns the activity type tag
func (r RawRecord) ActivityType() string { return r.cell(r.Columns.ActivityType) }

// Title returns the raw activity title
func (r RawRecord) Title() string { return r.cell(r.Columns.Title) }

// Responses returns the raw, delimiter-joined response options
func (r RawRecord) Responses() string { return r.cell(r.Columns.Responses) }

func (r RawRecord) cell(i int) string {
	if i < 0 || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}

// Option is a single response option of a question
type Option struct {
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"correct" yaml:"correct"`
}

// Question is a normalized multiple choice question.
// A Question always has at least one option; any number may be correct.
type Question struct {
	Title   string    `json:"title" yaml:"title"`
	Options []Option  `json:"options" yaml:"options"`
	Source  RawRecord `json:"-" yaml:"-"`
}

// Texts returns the display text of every option in order
func (q Question) Texts() []string {
	out := make([]string, len(q.Options))
	for i, opt := range q.Options {
		out[i] = opt.Text
	}
	return out
}

// CorrectTexts returns the display text of the correct options in order
func (q Question) CorrectTexts() []string {
	out := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.Correct {
			out = append(out, opt.Text)
		}
	}
	return out
}

// CorrectCount returns how many options are flagged correct
func (q Question) CorrectCount() int {
	n := 0
	for _, opt := range q.Options {
		if opt.Correct {
			n++
		}
	}
	return n
}
