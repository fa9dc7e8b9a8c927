package sheetdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Client used by tests and local development. It
// reproduces the upstream quirks the core has to survive: Records drops
// rows with a blank leading cell the way the bulk-record API drops rows
// it considers malformed, and duplicate headers collapse last-wins.
type Memory struct {
	mu     sync.Mutex
	tables map[string]*MemoryTable
}

func NewMemory() *Memory {
	return &Memory{tables: make(map[string]*MemoryTable)}
}

// AddTable registers a table under the given id and returns it for seeding.
func (m *Memory) AddTable(id string) *MemoryTable {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &MemoryTable{subs: make(map[string]*MemorySubtable), ids: make(map[int64]string)}
	m.tables[id] = t
	return t
}

func (m *Memory) OpenTable(_ context.Context, id string) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, id)
	}
	return t, nil
}

type MemoryTable struct {
	mu    sync.Mutex
	subs  map[string]*MemorySubtable
	order []string
	ids   map[int64]string
}

// AddSubtable creates a subtable seeded with the given grid.
func (t *MemoryTable) AddSubtable(name string, gid int64, grid [][]string) *MemorySubtable {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := make([][]string, len(grid))
	for i, row := range grid {
		cp[i] = append([]string(nil), row...)
	}
	s := &MemorySubtable{name: name, grid: cp}
	t.subs[name] = s
	t.order = append(t.order, name)
	t.ids[gid] = name
	return s
}

func (t *MemoryTable) ListSubtables(_ context.Context) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...), nil
}

func (t *MemoryTable) Subtable(name string) Subtable {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.subs[name]; ok {
		return s
	}
	return &missingSubtable{name: name}
}

func (t *MemoryTable) SubtableByID(_ context.Context, id int64) (Subtable, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	name, ok := t.ids[id]
	if !ok {
		return nil, fmt.Errorf("%w: gid %d", ErrSubtableNotFound, id)
	}
	return t.subs[name], nil
}

type MemorySubtable struct {
	mu   sync.Mutex
	name string
	grid [][]string

	// FailNextRead, when set, makes the next read call return this error
	// and then clears itself. Lets tests exercise retry and fallback paths.
	FailNextRead error
	// FailAllReads makes every read call fail.
	FailAllReads error
}

func (s *MemorySubtable) Name() string { return s.name }

func (s *MemorySubtable) readErr() error {
	if s.FailAllReads != nil {
		return s.FailAllReads
	}
	if err := s.FailNextRead; err != nil {
		s.FailNextRead = nil
		return err
	}
	return nil
}

func (s *MemorySubtable) Rows(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readErr(); err != nil {
		return nil, err
	}
	out := make([][]string, len(s.grid))
	for i, row := range s.grid {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (s *MemorySubtable) Records(_ context.Context) ([]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readErr(); err != nil {
		return nil, err
	}
	if len(s.grid) == 0 {
		return nil, nil
	}
	headers := s.grid[0]
	var records []map[string]string
	for _, row := range s.grid[1:] {
		// The real bulk-record API quietly skips rows it cannot key.
		if len(row) == 0 || allBlank(row) {
			continue
		}
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i] // duplicate headers collapse last-wins
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func allBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (s *MemorySubtable) WriteRange(_ context.Context, ref string, rows [][]string) error {
	startRow, startCol, err := parseA1Start(ref)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range rows {
		r := startRow + i - 1
		s.growTo(r+1, startCol-1+len(row))
		for j, v := range row {
			s.grid[r][startCol-1+j] = v
		}
	}
	return nil
}

func (s *MemorySubtable) WriteCell(_ context.Context, row, col int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.growTo(row, col)
	s.grid[row-1][col-1] = value
	return nil
}

func (s *MemorySubtable) InsertRows(_ context.Context, at int, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := at - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.grid) {
		idx = len(s.grid)
	}
	cp := make([][]string, 0, len(rows))
	for _, row := range rows {
		cp = append(cp, append([]string(nil), row...))
	}
	s.grid = append(s.grid[:idx], append(cp, s.grid[idx:]...)...)
	return nil
}

func (s *MemorySubtable) DeleteRows(_ context.Context, indices []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, idx := range sorted {
		i := idx - 1
		if i < 0 || i >= len(s.grid) {
			continue
		}
		s.grid = append(s.grid[:i], s.grid[i+1:]...)
	}
	return nil
}

func (s *MemorySubtable) AppendRows(_ context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.grid = append(s.grid, append([]string(nil), row...))
	}
	return nil
}

func (s *MemorySubtable) FindAll(_ context.Context, text string) ([]CellRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var refs []CellRef
	for i, row := range s.grid {
		for j, cell := range row {
			if cell == text {
				refs = append(refs, CellRef{Row: i + 1, Col: j + 1})
			}
		}
	}
	return refs, nil
}

// Grid returns a copy of the current state, for test assertions.
func (s *MemorySubtable) Grid() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.grid))
	for i, row := range s.grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func (s *MemorySubtable) growTo(rows, cols int) {
	for len(s.grid) < rows {
		s.grid = append(s.grid, nil)
	}
	for i := range s.grid {
		for len(s.grid[i]) < cols {
			s.grid[i] = append(s.grid[i], "")
		}
	}
}

// parseA1Start extracts the 1-based start row/col of an A1 range.
func parseA1Start(ref string) (int, int, error) {
	start := ref
	if i := strings.Index(ref, ":"); i >= 0 {
		start = ref[:i]
	}
	col, row := 0, 0
	for _, r := range start {
		switch {
		case r >= 'A' && r <= 'Z':
			col = col*26 + int(r-'A') + 1
		case r >= 'a' && r <= 'z':
			col = col*26 + int(r-'a') + 1
		case r >= '0' && r <= '9':
			row = row*10 + int(r-'0')
		default:
			return 0, 0, fmt.Errorf("bad A1 ref %q", ref)
		}
	}
	if col == 0 || row == 0 {
		return 0, 0, fmt.Errorf("bad A1 ref %q", ref)
	}
	return row, col, nil
}

type missingSubtable struct {
	name string
}

func (m *missingSubtable) Name() string { return m.name }
func (m *missingSubtable) err() error {
	return fmt.Errorf("%w: %s", ErrSubtableNotFound, m.name)
}
func (m *missingSubtable) Rows(context.Context) ([][]string, error) { return nil, m.err() }
func (m *missingSubtable) Records(context.Context) ([]map[string]string, error) {
	return nil, m.err()
}
func (m *missingSubtable) WriteRange(context.Context, string, [][]string) error { return m.err() }
func (m *missingSubtable) WriteCell(context.Context, int, int, string) error    { return m.err() }
func (m *missingSubtable) InsertRows(context.Context, int, [][]string) error    { return m.err() }
func (m *missingSubtable) DeleteRows(context.Context, []int) error              { return m.err() }
func (m *missingSubtable) AppendRows(context.Context, [][]string) error         { return m.err() }
func (m *missingSubtable) FindAll(context.Context, string) ([]CellRef, error)   { return nil, m.err() }
