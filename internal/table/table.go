// Package table reads exported poll history CSV files.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/pollev/internal/model"
)

// Table is a parsed CSV file: one header row followed by data rows
type Table struct {
	Header []string
	Rows   [][]string
}

// Parse reads UTF-8 CSV data separated by comma.
// Short rows are padded so every row is aligned with the header.
func Parse(data []byte, comma string) (*Table, error) {
	sep, err := separator(comma)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("input is empty: missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Header: header}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		if isBlank(row) {
			continue
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// Index returns the position of the named column, or -1
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Resolve looks up the columns named by cfg.
// The presenter column is only required when filtering by presenter.
func (t *Table) Resolve(cfg model.InputConfig, needPresenter bool) (model.Columns, error) {
	cols := model.Columns{Presenter: -1}

	lookup := func(name string) (int, error) {
		i := t.Index(name)
		if i < 0 {
			return -1, &model.ColumnNotFoundError{Column: name, Header: t.Header}
		}
		return i, nil
	}

	var err error
	if cols.ActivityType, err = lookup(cfg.ActivityTypeColumn); err != nil {
		return cols, err
	}
	if cols.Title, err = lookup(cfg.TitleColumn); err != nil {
		return cols, err
	}
	if cols.Responses, err = lookup(cfg.ResponseColumn); err != nil {
		return cols, err
	}

	if needPresenter {
		if cols.Presenter, err = lookup(cfg.PresenterColumn); err != nil {
			return cols, err
		}
	} else {
		cols.Presenter = t.Index(cfg.PresenterColumn)
	}

	return cols, nil
}

// Records wraps every data row as a RawRecord using the resolved columns
func (t *Table) Records(cols model.Columns) []model.RawRecord {
	out := make([]model.RawRecord, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = model.RawRecord{
			Row:     i + 1,
			Header:  t.Header,
			Values:  row,
			Columns: cols,
		}
	}
	return out
}

func separator(comma string) (rune, error) {
	if comma == "" {
		return ',', nil
	}
	if utf8.RuneCountInString(comma) != 1 {
		return 0, fmt.Errorf("field separator must be a single character, got %q", comma)
	}
	r, _ := utf8.DecodeRuneInString(comma)
	return r, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
