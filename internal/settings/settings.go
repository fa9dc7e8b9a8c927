// Package settings reads and writes the operator-tunable switches kept
// in their own subtable: the order form kill switch, the goal counter
// shown on the landing page, cosmetic knobs.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pephaul/orderdesk/internal/cache"
	"github.com/pephaul/orderdesk/internal/sheetdb"
)

// Setting keys as stored in the first column of the settings subtable.
const (
	KeyFormLocked  = "form_locked"
	KeyLockMessage = "lock_message"
	KeyOrderGoal   = "order_goal"
	KeyTheme       = "theme"
	KeyActiveTab   = "active_tab"
)

// Values is the parsed settings snapshot.
type Values struct {
	FormLocked  bool   `json:"form_locked"`
	LockMessage string `json:"lock_message"`
	OrderGoal   int    `json:"order_goal"`
	Theme       string `json:"theme"`
	ActiveTab   string `json:"active_tab"`
}

// Service reads settings through the shared cache and keeps the last
// good snapshot in memory: when the backend is down, stale settings are
// far better than a dead order form.
type Service struct {
	tab   sheetdb.Subtable
	store *cache.Store

	mu        sync.Mutex
	lastKnown *Values
	now       func() time.Time
}

func NewService(tab sheetdb.Subtable, store *cache.Store) *Service {
	return &Service{tab: tab, store: store, now: time.Now}
}

// Get returns the current settings. On backend failure it serves the
// last snapshot this process saw, and zero values before the first
// successful read.
func (s *Service) Get(ctx context.Context) Values {
	v, err := cache.Typed(s.store, cache.KeySettings, cache.TTLSettings, func() (Values, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.lastKnown != nil {
			log.Warn().Err(err).Msg("settings: read failed, serving last known values")
			return *s.lastKnown
		}
		log.Warn().Err(err).Msg("settings: read failed with no prior snapshot, serving defaults")
		return Values{}
	}
	s.mu.Lock()
	s.lastKnown = &v
	s.mu.Unlock()
	return v
}

func (s *Service) fetch(ctx context.Context) (Values, error) {
	grid, err := s.tab.Rows(ctx)
	if err != nil {
		return Values{}, fmt.Errorf("read settings: %w", err)
	}
	var v Values
	for _, row := range grid {
		if len(row) < 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(row[0]))
		val := strings.TrimSpace(row[1])
		switch key {
		case KeyFormLocked:
			v.FormLocked = parseBool(val)
		case KeyLockMessage:
			v.LockMessage = val
		case KeyOrderGoal:
			if n, err := strconv.Atoi(val); err == nil {
				v.OrderGoal = n
			}
		case KeyTheme:
			v.Theme = val
		case KeyActiveTab:
			v.ActiveTab = val
		}
	}
	return v, nil
}

// Set writes one setting, creating its row on first use, and drops the
// cached snapshot so the change is visible on the next read.
func (s *Service) Set(ctx context.Context, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return fmt.Errorf("setting key required")
	}

	grid, err := s.tab.Rows(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	stamp := s.now().Format("2006-01-02 15:04:05")

	for i, row := range grid {
		if len(row) == 0 || strings.ToLower(strings.TrimSpace(row[0])) != key {
			continue
		}
		if err := s.tab.WriteCell(ctx, i+1, 2, value); err != nil {
			return fmt.Errorf("write setting %s: %w", key, err)
		}
		if err := s.tab.WriteCell(ctx, i+1, 3, stamp); err != nil {
			return fmt.Errorf("stamp setting %s: %w", key, err)
		}
		s.store.Invalidate(cache.KeySettings)
		log.Info().Str("key", key).Msg("settings: updated")
		return nil
	}

	if err := s.tab.AppendRows(ctx, [][]string{{key, value, stamp}}); err != nil {
		return fmt.Errorf("append setting %s: %w", key, err)
	}
	s.store.Invalidate(cache.KeySettings)
	log.Info().Str("key", key).Msg("settings: created")
	return nil
}

// SetFormLocked flips the order form kill switch with an optional
// customer-facing message.
func (s *Service) SetFormLocked(ctx context.Context, locked bool, message string) error {
	val := "no"
	if locked {
		val = "yes"
	}
	if err := s.Set(ctx, KeyFormLocked, val); err != nil {
		return err
	}
	if message != "" {
		return s.Set(ctx, KeyLockMessage, message)
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "on", "1", "locked":
		return true
	}
	return false
}
