package render

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/pollev/internal/model"
)

// rows re-serializes questions into their source table layout. The title
// column carries the normalized title and the response column is rebuilt
// from the options in their current order, with the correct marker only
// when solutions are shown.
func rows(questions []model.Question, cfg model.RenderConfig) (header []string, out [][]string) {
	if len(questions) == 0 {
		return nil, nil
	}

	header = questions[0].Source.Header
	out = make([][]string, 0, len(questions))

	for _, q := range questions {
		src := q.Source
		row := make([]string, len(header))
		copy(row, src.Values)

		if i := src.Columns.Title; i >= 0 && i < len(row) {
			row[i] = q.Title
		}
		if i := src.Columns.Responses; i >= 0 && i < len(row) {
			row[i] = joinResponses(q, cfg)
		}
		out = append(out, row)
	}
	return header, out
}

func joinResponses(q model.Question, cfg model.RenderConfig) string {
	parts := make([]string, len(q.Options))
	for i, opt := range q.Options {
		parts[i] = opt.Text
		if opt.Correct && cfg.ShowCorrect {
			parts[i] += cfg.CorrectMarker
		}
	}
	return strings.Join(parts, cfg.ResponseDelimiter)
}

// CSVRenderer writes the normalized table as delimited text
type CSVRenderer struct{}

func (r *CSVRenderer) Format() model.Format { return model.FormatCSV }

func (r *CSVRenderer) Render(ctx context.Context, questions []model.Question, cfg model.RenderConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if cfg.Tabular.Comma != "" {
		w.Comma, _ = utf8.DecodeRuneInString(cfg.Tabular.Comma)
	}

	header, records := rows(questions, cfg)
	if header != nil {
		if err := w.Write(header); err != nil {
			return nil, fmt.Errorf("csv renderer: write header: %w", err)
		}
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("csv renderer: write rows: %w", err)
	}

	return single(model.FormatCSV, cfg, textType("text/csv", cfg), buf.Bytes()), nil
}

// XLSXRenderer writes the normalized table as a spreadsheet workbook
type XLSXRenderer struct{}

func (r *XLSXRenderer) Format() model.Format { return model.FormatXLSX }

func (r *XLSXRenderer) Render(ctx context.Context, questions []model.Question, cfg model.RenderConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := cfg.Tabular.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return nil, fmt.Errorf("xlsx renderer: create sheet: %w", err)
		}
		f.SetActiveSheet(idx)
		f.DeleteSheet("Sheet1")
	}

	header, records := rows(questions, cfg)
	all := records
	if header != nil {
		all = append([][]string{header}, records...)
	}

	for i, row := range all {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("xlsx renderer: %w", err)
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("xlsx renderer: set %s: %w", cell, err)
			}
		}
	}

	if header != nil {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("xlsx renderer: header style: %w", err)
		}
		if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
			return nil, fmt.Errorf("xlsx renderer: apply header style: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx renderer: write workbook: %w", err)
	}

	return &Document{Files: []File{{
		Name:        cfg.Name + model.FormatXLSX.Extension(),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
		Binary:      true,
	}}}, nil
}
