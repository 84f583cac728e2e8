package table

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/pollev/internal/model"
)

const sample = `Presenter,Activity type,Activity title,Response options,Created at
alice,Multiple choice,1) What is 2+2?,a) 3 | b) 4(Correct) | c) 5,2024-01-01
bob,Open ended,Thoughts?,,2024-01-02

alice,Multiple choice,"2) Pick, carefully",a) x | b) y(Correct)
`

func TestParse(t *testing.T) {
	tbl, err := Parse([]byte(sample), ",")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	wantHeader := []string{"Presenter", "Activity type", "Activity title", "Response options", "Created at"}
	if diff := cmp.Diff(wantHeader, tbl.Header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	if len(tbl.Rows) != 3 {
		t.Fatalf("Expected 3 rows (blank line skipped), got %d", len(tbl.Rows))
	}

	// Short rows are padded to the header width
	if len(tbl.Rows[2]) != len(wantHeader) {
		t.Errorf("Expected padded row of %d cells, got %d", len(wantHeader), len(tbl.Rows[2]))
	}
	if tbl.Rows[2][2] != "2) Pick, carefully" {
		t.Errorf("Expected quoted title to be kept whole, got %q", tbl.Rows[2][2])
	}
}

func TestParse_Semicolon(t *testing.T) {
	tbl, err := Parse([]byte("a;b\n1;2\n"), ";")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tbl.Rows[0][1] != "2" {
		t.Errorf("Expected semicolon separated cells, got %v", tbl.Rows[0])
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse(nil, ","); err == nil {
		t.Error("Expected error for empty input")
	}
	if _, err := Parse([]byte("a,b\n"), ",,"); err == nil {
		t.Error("Expected error for multi-character separator")
	}
}

func TestResolve(t *testing.T) {
	tbl, err := Parse([]byte(sample), ",")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cfg := model.DefaultConfig().Input

	cols, err := tbl.Resolve(cfg, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := model.Columns{Presenter: 0, ActivityType: 1, Title: 2, Responses: 3}
	if diff := cmp.Diff(want, cols); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	records := tbl.Records(cols)
	if records[0].Title() != "1) What is 2+2?" {
		t.Errorf("unexpected title %q", records[0].Title())
	}
	if records[0].Presenter() != "alice" || records[0].Row != 1 {
		t.Errorf("unexpected record %+v", records[0])
	}
}

func TestResolve_MissingColumn(t *testing.T) {
	tbl, err := Parse([]byte("Presenter,Activity type,Activity title\nx,y,z\n"), ",")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = tbl.Resolve(model.DefaultConfig().Input, false)

	var colErr *model.ColumnNotFoundError
	if !errors.As(err, &colErr) {
		t.Fatalf("Expected ColumnNotFoundError, got %v", err)
	}
	if colErr.Column != "Response options" {
		t.Errorf("Expected missing column 'Response options', got %q", colErr.Column)
	}
}

func TestResolve_PresenterOnlyWhenFiltering(t *testing.T) {
	tbl, err := Parse([]byte("Activity type,Activity title,Response options\nx,y,z\n"), ",")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	cfg := model.DefaultConfig().Input

	cols, err := tbl.Resolve(cfg, false)
	if err != nil {
		t.Fatalf("Expected no error without presenter filter, got %v", err)
	}
	if cols.Presenter != -1 {
		t.Errorf("Expected presenter index -1, got %d", cols.Presenter)
	}

	if _, err := tbl.Resolve(cfg, true); err == nil {
		t.Error("Expected ColumnNotFoundError when filtering by presenter")
	}
}
