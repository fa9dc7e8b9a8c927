package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pephaul/orderdesk/internal/cache"
	"github.com/pephaul/orderdesk/internal/sheetdb"
)

const (
	lockCodeHeader    = "Product Code"
	lockMaxKitsHeader = "Max Kits"
	lockStateHeader   = "Is Locked"
	lockDateHeader    = "Locked Date"
	lockByHeader      = "Locked By"
)

// Lock is one product's lock row: an explicit flag plus a per-product
// kit ceiling. MaxKits of zero means the round-wide default applies.
type Lock struct {
	Code       string `json:"code"`
	MaxKits    int    `json:"max_kits"`
	Locked     bool   `json:"locked"`
	LockedDate string `json:"locked_date"`
	LockedBy   string `json:"locked_by"`
}

// LockStore persists product locks in their own subtable. A locked
// product stays visible in the catalog but rejects new order lines.
type LockStore struct {
	tab   sheetdb.Subtable
	store *cache.Store
	now   func() time.Time
}

func NewLockStore(tab sheetdb.Subtable, store *cache.Store) *LockStore {
	return &LockStore{tab: tab, store: store, now: time.Now}
}

// Locked returns the lock row per product code, cached.
func (s *LockStore) Locked(ctx context.Context) (map[string]Lock, error) {
	return cache.Typed(s.store, cache.KeyProductLocks, cache.TTLInventory, func() (map[string]Lock, error) {
		grid, err := s.tab.Rows(ctx)
		if err != nil {
			return nil, fmt.Errorf("read product locks: %w", err)
		}
		locks := make(map[string]Lock)
		if len(grid) == 0 {
			return locks, nil
		}
		cols := lockColumns(grid[0])
		for _, row := range grid[1:] {
			code := cellAt(row, cols.code)
			if code == "" {
				continue
			}
			lk := Lock{
				Code:       code,
				LockedDate: cellAt(row, cols.date),
				LockedBy:   cellAt(row, cols.by),
			}
			if n, err := strconv.Atoi(cellAt(row, cols.maxKits)); err == nil && n > 0 {
				lk.MaxKits = n
			}
			switch strings.ToLower(cellAt(row, cols.state)) {
			case "yes", "true", "locked", "1":
				lk.Locked = true
			}
			locks[code] = lk
		}
		return locks, nil
	})
}

// SetLock writes one product's lock row, creating it on first use.
// maxKits of zero leaves the product's existing ceiling in place; by is
// stamped as the acting admin. Locking records the date, unlocking
// clears it.
func (s *LockStore) SetLock(ctx context.Context, code string, locked bool, maxKits int, by string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("product code required")
	}

	grid, err := s.tab.Rows(ctx)
	if err != nil {
		return fmt.Errorf("read product locks: %w", err)
	}
	state, date := "No", ""
	if locked {
		state = "Yes"
		date = s.now().Format("2006-01-02 15:04:05")
	}
	maxCell := ""
	if maxKits > 0 {
		maxCell = strconv.Itoa(maxKits)
	}

	if len(grid) == 0 {
		header := []string{lockCodeHeader, lockMaxKitsHeader, lockStateHeader, lockDateHeader, lockByHeader}
		rows := [][]string{header, {code, maxCell, state, date, by}}
		if err := s.tab.AppendRows(ctx, rows); err != nil {
			return fmt.Errorf("seed product locks tab: %w", err)
		}
		s.invalidate()
		return nil
	}

	cols := lockColumns(grid[0])
	for i, row := range grid[1:] {
		if cellAt(row, cols.code) != code {
			continue
		}
		cells := map[int]string{cols.state: state, cols.date: date, cols.by: by}
		if maxKits > 0 {
			cells[cols.maxKits] = maxCell
		}
		for col, val := range cells {
			if col < 0 {
				continue
			}
			if err := s.tab.WriteCell(ctx, i+2, col+1, val); err != nil {
				return fmt.Errorf("update lock for %s: %w", code, err)
			}
		}
		s.invalidate()
		log.Info().Str("product", code).Bool("locked", locked).Int("max_kits", maxKits).Msg("inventory: product lock updated")
		return nil
	}

	if err := s.tab.AppendRows(ctx, [][]string{lockRow(cols, len(grid[0]), code, maxCell, state, date, by)}); err != nil {
		return fmt.Errorf("append lock for %s: %w", code, err)
	}
	s.invalidate()
	log.Info().Str("product", code).Bool("locked", locked).Int("max_kits", maxKits).Msg("inventory: product lock created")
	return nil
}

func (s *LockStore) invalidate() {
	s.store.Invalidate(cache.KeyProductLocks, cache.KeyInventory)
}

type lockCols struct {
	code, maxKits, state, date, by int
}

// lockColumns resolves header positions. Code and state get positional
// fallbacks; the optional columns resolve to -1 when a legacy tab lacks
// them, and reads/writes against them are skipped.
func lockColumns(header []string) lockCols {
	cols := lockCols{code: 0, maxKits: -1, state: 1, date: -1, by: -1}
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case lockCodeHeader:
			cols.code = i
		case lockMaxKitsHeader:
			cols.maxKits = i
		case lockStateHeader, "Locked": // older tabs carried a bare "Locked" header
			cols.state = i
		case lockDateHeader:
			cols.date = i
		case lockByHeader:
			cols.by = i
		}
	}
	return cols
}

// lockRow lays the values out at whatever positions the live header uses.
func lockRow(cols lockCols, width int, code, maxCell, state, date, by string) []string {
	cells := map[int]string{cols.code: code, cols.state: state, cols.maxKits: maxCell, cols.date: date, cols.by: by}
	for c := range cells {
		if c+1 > width {
			width = c + 1
		}
	}
	row := make([]string, width)
	for c, v := range cells {
		if c >= 0 {
			row[c] = v
		}
	}
	return row
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
