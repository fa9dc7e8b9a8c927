// Package sheetdb is the ledger storage boundary: a row-oriented remote
// spreadsheet accessed through a third-party API. The core never talks to
// the wire directly — it goes through these interfaces, which exist in two
// flavors: a REST client for production and an in-memory fake for tests.
package sheetdb

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrSubtableNotFound = errors.New("subtable not found")
	ErrTableNotFound    = errors.New("table not found")
)

// CellRef addresses a single cell. Rows and columns are 1-based, matching
// the upstream API's addressing.
type CellRef struct {
	Row int
	Col int
}

type Client interface {
	OpenTable(ctx context.Context, id string) (Table, error)
}

type Table interface {
	ListSubtables(ctx context.Context) ([]string, error)
	// Subtable returns a lazy handle by name; a missing subtable surfaces
	// on first use.
	Subtable(name string) Subtable
	// SubtableByID locates a subtable by its stable numeric id. Names are
	// operator-renameable; ids are not.
	SubtableByID(ctx context.Context, id int64) (Subtable, error)
}

type Subtable interface {
	Name() string
	// Rows returns the raw 2D grid including the header row.
	Rows(ctx context.Context) ([][]string, error)
	// Records returns header-keyed rows. The upstream implementation may
	// silently drop rows it considers malformed; callers that care must
	// cross-check len(Records) against len(Rows)-1.
	Records(ctx context.Context) ([]map[string]string, error)
	// WriteRange overwrites a rectangular region. ref is an A1-style
	// range like "A5:U7".
	WriteRange(ctx context.Context, ref string, rows [][]string) error
	WriteCell(ctx context.Context, row, col int, value string) error
	// InsertRows inserts rows before the 1-based row index at.
	InsertRows(ctx context.Context, at int, rows [][]string) error
	// DeleteRows removes the given 1-based row indices.
	DeleteRows(ctx context.Context, indices []int) error
	AppendRows(ctx context.Context, rows [][]string) error
	// FindAll returns every cell whose full value equals text.
	FindAll(ctx context.Context, text string) ([]CellRef, error)
}

// ColName converts a 1-based column index to its A1 letter form.
func ColName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}

// A1 formats a single 1-based cell reference.
func A1(row, col int) string {
	return fmt.Sprintf("%s%d", ColName(col), row)
}

// A1Range formats a rectangular 1-based range reference.
func A1Range(startRow, startCol, endRow, endCol int) string {
	return fmt.Sprintf("%s:%s", A1(startRow, startCol), A1(endRow, endCol))
}
