// Package export renders loaded collections as CSV files and hands them to a
// Saver, the stand-in for a browser download.
package export

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrNothingToExport is returned for an empty collection; no file is made.
var ErrNothingToExport = errors.New("nothing to export")

// DateLayout is used for every date cell, always in UTC.
const DateLayout = "2006-01-02 15:04:05"

// Kind decides how a cell is written.
type Kind int

const (
	// Text is free text and is always quoted.
	Text Kind = iota
	// Plain is an identifier or enum; quoted only when it needs to be.
	Plain
	// Number is written bare.
	Number
)

// Column is one column of an export.
type Column[T any] struct {
	Header string
	Kind   Kind
	Value  func(T) string
}

func TextColumn[T any](header string, fn func(T) string) Column[T] {
	return Column[T]{Header: header, Kind: Text, Value: fn}
}

func PlainColumn[T any](header string, fn func(T) string) Column[T] {
	return Column[T]{Header: header, Kind: Plain, Value: fn}
}

// NumberColumn writes the number, or an empty cell when ok is false.
func NumberColumn[T any](header string, fn func(T) (float64, bool)) Column[T] {
	return Column[T]{Header: header, Kind: Number, Value: func(item T) string {
		v, ok := fn(item)
		if !ok {
			return ""
		}
		return FormatNumber(v)
	}}
}

// DateColumn writes the date in DateLayout, or an empty cell for a zero time.
func DateColumn[T any](header string, fn func(T) time.Time) Column[T] {
	return Column[T]{Header: header, Kind: Plain, Value: func(item T) string {
		return FormatDate(fn(item))
	}}
}

// CSV renders a header row and one row per item, in the order given.
func CSV[T any](rows []T, columns []Column[T]) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}
	if len(columns) == 0 {
		return nil, errors.New("export has no columns")
	}

	var buf bytes.Buffer
	for i, col := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(quoteIfNeeded(col.Header))
	}
	for _, row := range rows {
		buf.WriteByte('\n')
		for i, col := range columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(cell(col.Kind, col.Value(row)))
		}
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func cell(kind Kind, v string) string {
	switch kind {
	case Text:
		return quote(v)
	case Number:
		return v
	}
	return quoteIfNeeded(v)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

// FormatNumber writes f without grouping or exponent, with no trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
