// Package normalize repairs the operator-edited header row before any
// record lookup. The upstream sheet's headers routinely drift: blanked
// cells, stray whitespace, duplicated names. A blank header silently
// breaks every keyed lookup downstream, so every read path runs through
// here — including values cached before normalization existed, which is
// why both functions are idempotent.
package normalize

import (
	"fmt"
	"strings"
)

// OrderIDHeader is what a blank first column really means: the Order ID
// column, whose header someone cleared by accident.
const OrderIDHeader = "Order ID"

// Headers returns a normalized copy of a raw header row: a blank first
// column becomes "Order ID", any other blank becomes "Unnamed_{index}".
func Headers(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			if i == 0 {
				h = OrderIDHeader
			} else {
				h = fmt.Sprintf("Unnamed_%d", i)
			}
		}
		out[i] = h
	}
	return out
}

// Record normalizes a header-keyed record: keys are trimmed, a blank key
// maps to "Order ID", and on collision the first non-empty value wins in
// order of appearance.
func Record(raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw))
	// Map iteration order is random; collisions resolve by value, not by
	// insertion order: an existing non-blank value is never overwritten,
	// a blank one yields to a non-blank incomer.
	for k, v := range raw {
		key := strings.TrimSpace(k)
		if key == "" {
			key = OrderIDHeader
		}
		existing, ok := out[key]
		if !ok || (existing == "" && v != "") {
			out[key] = v
		}
	}
	return out
}

// RecordsFromGrid rebuilds header-keyed records straight from the raw 2D
// grid. Used when the bulk-record API and the raw grid disagree on row
// counts — the record API silently drops rows it considers malformed, and
// dropped rows are exactly the ones we must not lose.
func RecordsFromGrid(grid [][]string) []map[string]string {
	if len(grid) == 0 {
		return nil
	}
	headers := Headers(grid[0])
	records := make([]map[string]string, 0, len(grid)-1)
	for _, row := range grid[1:] {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, Record(rec))
	}
	return records
}
