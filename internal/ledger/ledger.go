package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pephaul/orderdesk/internal/cache"
	"github.com/pephaul/orderdesk/internal/pricing"
	"github.com/pephaul/orderdesk/internal/sheetdb"
)

// Ledger is the order store over the remote order tab.
type Ledger struct {
	tab          sheetdb.Subtable
	store        *cache.Store
	calc         pricing.Calculator
	fallbackRate float64

	// injectable for tests
	now   func() time.Time
	newID func() string
}

func New(tab sheetdb.Subtable, store *cache.Store, calc pricing.Calculator, fallbackRate float64) *Ledger {
	l := &Ledger{
		tab:          tab,
		store:        store,
		calc:         calc,
		fallbackRate: fallbackRate,
		now:          time.Now,
	}
	l.newID = l.timestampID
	return l
}

// timestampID derives the order id from the creation time. Two orders in
// the same second collide; SaveOrder resolves that with a random suffix.
func (l *Ledger) timestampID() string {
	return "ORD-" + l.now().Format("20060102150405")
}

func shortSuffix() string {
	id, err := uuid.NewV4()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano()%10000, 10)
	}
	return id.String()[:4]
}

// snapshot is one consistent read of the order tab: the raw grid plus the
// resolved column map. Row indices are 1-based sheet rows.
type snapshot struct {
	grid [][]string
	cols columns
}

func (l *Ledger) fetchSnapshot(ctx context.Context) (*snapshot, error) {
	grid, err := l.tab.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read order rows: %w", err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("order tab has no header row")
	}

	// Parsing starts from the raw grid on purpose: bulk-record APIs drop
	// rows they consider malformed, and a dropped row is still someone's
	// order. Row indices must line up with the physical sheet for writes.
	return &snapshot{grid: grid, cols: resolveColumns(grid[0])}, nil
}

// cachedSnapshot serves reads through the shared cache. fast selects the
// short-TTL entry used by latency-sensitive lookups.
func (l *Ledger) cachedSnapshot(ctx context.Context, fast bool) (*snapshot, error) {
	key, ttl := cache.KeyOrders, cache.TTLOrders
	if fast {
		key, ttl = cache.KeyOrdersFast, cache.TTLOrdersFast
	}
	return cache.Typed(l.store, key, ttl, func() (*snapshot, error) {
		return l.fetchSnapshot(ctx)
	})
}

func (l *Ledger) invalidate() {
	l.store.Invalidate(cache.KeyOrders, cache.KeyOrdersFast, cache.KeyInventory, cache.KeyStats)
}

// parseOrders reconstructs every aggregate in sheet order. Rows sharing an
// Order ID form one group; the first occurrence holds the order-level
// fields and becomes FirstRow.
func (l *Ledger) parseOrders(s *snapshot) []*Order {
	var orders []*Order
	byID := make(map[string]*Order)

	for i, row := range s.grid[1:] {
		sheetRow := i + 2
		id := s.cols.value(row, ColOrderID)
		if id == "" {
			continue
		}
		o, seen := byID[id]
		if !seen {
			o = l.parseOrderHead(s.cols, row, sheetRow)
			byID[id] = o
			orders = append(orders, o)
		}
		if it, ok := parseItem(s.cols, row, sheetRow); ok {
			o.Items = append(o.Items, it)
		}
	}

	for _, o := range orders {
		l.recomputeTotals(o)
	}
	return orders
}

func (l *Ledger) parseOrderHead(cols columns, row []string, sheetRow int) *Order {
	rate := parseFloat(cols.value(row, ColExchangeRate))
	if rate <= 0 {
		rate = l.fallbackRate
	}
	return &Order{
		FirstRow:      sheetRow,
		ID:            cols.value(row, ColOrderID),
		Date:          cols.value(row, ColOrderDate),
		FullName:      cols.value(row, ColFullName),
		Username:      cols.value(row, ColTelegram),
		ExchangeRate:  rate,
		AdminFeePHP:   parseFloat(cols.value(row, ColAdminFeePHP)),
		GrandTotalPHP: parseFloat(cols.value(row, ColGrandTotalPHP)),
		Status:        parseStatus(cols.value(row, ColOrderStatus)),
		Locked:        parseBool(cols.value(row, ColLocked)),
		PaymentStatus: parsePaymentStatus(cols.value(row, ColPaymentStatus)),
		PaymentLink:   cols.value(row, ColPaymentLink),
		PaymentDate:   cols.value(row, ColPaymentDate),
		ShipName:      cols.value(row, ColShipName),
		ShipPhone:     cols.value(row, ColShipPhone),
		ShipAddress:   cols.value(row, ColShipAddress),
		Tracking:      cols.value(row, ColTracking),
		Remarks:       cols.value(row, ColRemarks),
	}
}

func parseItem(cols columns, row []string, sheetRow int) (Item, bool) {
	code := cols.value(row, ColProductCode)
	qty := parseInt(cols.value(row, ColQty))
	if code == "" || qty <= 0 {
		return Item{}, false
	}
	return Item{
		ProductCode:  code,
		ProductName:  cols.value(row, ColProductName),
		OrderType:    cols.value(row, ColOrderType),
		Supplier:     cols.value(row, ColSupplier),
		Qty:          qty,
		UnitPriceUSD: parseFloat(cols.value(row, ColUnitPriceUSD)),
		LineTotalUSD: parseFloat(cols.value(row, ColLineTotalUSD)),
		LineTotalPHP: parseFloat(cols.value(row, ColLineTotalPHP)),
		Row:          sheetRow,
	}, true
}

// recomputeTotals rebuilds subtotals from line items and self-heals a
// grand total that drifted from its components. The stored admin fee is
// authoritative: fees are set at order time, not re-derived on read.
func (l *Ledger) recomputeTotals(o *Order) {
	var subUSD float64
	for i := range o.Items {
		it := &o.Items[i]
		if it.LineTotalUSD == 0 && it.UnitPriceUSD != 0 {
			it.LineTotalUSD = it.UnitPriceUSD * float64(it.Qty)
		}
		if it.LineTotalPHP == 0 && it.LineTotalUSD != 0 {
			it.LineTotalPHP = round2(it.LineTotalUSD * o.ExchangeRate)
		}
		subUSD += it.LineTotalUSD
	}
	o.SubtotalUSD = round2(subUSD)
	o.SubtotalPHP = round2(subUSD * o.ExchangeRate)

	expected := round2(o.SubtotalPHP + o.AdminFeePHP)
	if diff := o.GrandTotalPHP - expected; diff > 0.01 || diff < -0.01 {
		if o.GrandTotalPHP != 0 {
			log.Debug().
				Str("order_id", o.ID).
				Float64("stored", o.GrandTotalPHP).
				Float64("computed", expected).
				Msg("ledger: grand total drifted, using computed value")
		}
		o.GrandTotalPHP = expected
	}
}

// Orders returns every order, served from the shared cache.
func (l *Ledger) Orders(ctx context.Context) ([]*Order, error) {
	s, err := l.cachedSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}
	return l.parseOrders(s), nil
}

// GetOrder returns one order by id from the cached snapshot.
func (l *Ledger) GetOrder(ctx context.Context, id string) (*Order, error) {
	return l.getOrder(ctx, id, false)
}

// GetOrderFresh bypasses the cache; used right before a write so the
// decision is made against live data.
func (l *Ledger) GetOrderFresh(ctx context.Context, id string) (*Order, error) {
	return l.getOrder(ctx, id, true)
}

func (l *Ledger) getOrder(ctx context.Context, id string, fresh bool) (*Order, error) {
	var (
		s   *snapshot
		err error
	)
	if fresh {
		s, err = l.fetchSnapshot(ctx)
	} else {
		s, err = l.cachedSnapshot(ctx, false)
	}
	if err != nil {
		return nil, err
	}
	for _, o := range l.parseOrders(s) {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// FindOrdersByUsername returns the orders belonging to a handle, newest
// first. Exact handle match is tried first; containment only when nothing
// matched exactly, so "@ana" does not swallow "@anastasia"'s orders when
// "@ana" exists.
func (l *Ledger) FindOrdersByUsername(ctx context.Context, handle string) ([]*Order, error) {
	want := NormalizeHandle(handle)
	if want == "" {
		return nil, nil
	}
	s, err := l.cachedSnapshot(ctx, true)
	if err != nil {
		return nil, err
	}
	all := l.parseOrders(s)

	var exact, loose []*Order
	for _, o := range all {
		got := NormalizeHandle(o.Username)
		switch {
		case got == want:
			exact = append(exact, o)
		case got != "" && strings.Contains(got, want):
			loose = append(loose, o)
		}
	}
	matches := exact
	if len(matches) == 0 {
		matches = loose
	}
	// newest first: sheet order is chronological append order
	for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
		matches[i], matches[j] = matches[j], matches[i]
	}
	return matches, nil
}

func parseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "₱")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	f := parseFloat(s)
	return int(f)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "locked", "1", "y":
		return true
	}
	return false
}

func parseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "locked":
		return StatusLocked
	case "cancelled", "canceled":
		return StatusCancelled
	default:
		return StatusPending
	}
}

func parsePaymentStatus(s string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid", "yes", "true", "confirmed":
		return PaymentPaid
	case "waiting for confirmation", "waiting":
		return PaymentWaiting
	default:
		return PaymentUnpaid
	}
}

func round2(f float64) float64 {
	return float64(int64(f*100+sign(f)*0.5)) / 100
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

func money(f float64) string {
	return strconv.FormatFloat(round2(f), 'f', 2, 64)
}

func boolCell(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
