package model

import (
	"fmt"
	"strings"
)

// ColumnNotFoundError is returned when the input table lacks a required column
type ColumnNotFoundError struct {
	Column string   // Configured column name that was looked up
	Header []string // Columns actually present in the input
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in input (have: %s)", e.Column, strings.Join(e.Header, ", "))
}

// UnsupportedFormatError is returned when an output format is not recognized
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q (supported: %s)", e.Format, strings.Join(FormatNames(), ", "))
}
