package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// SaveOrder prices the draft, assigns an id and appends the row-group.
func (l *Ledger) SaveOrder(ctx context.Context, draft Draft) (*Order, error) {
	if len(draft.Items) == 0 {
		return nil, ErrNoItems
	}

	s, err := l.fetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	cols, err := ensureColumns(ctx, l.tab, s.grid[0])
	if err != nil {
		return nil, err
	}

	rate := draft.ExchangeRate
	if rate <= 0 {
		rate = l.fallbackRate
	}

	o := &Order{
		ID:            l.uniqueID(s),
		Date:          l.now().Format("2006-01-02 15:04:05"),
		FullName:      draft.FullName,
		Username:      draft.Username,
		ExchangeRate:  rate,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		Remarks:       draft.Remarks,
		Items:         priceItems(draft.Items, rate),
	}
	l.recomputeTotals(o)
	o.AdminFeePHP = l.calc.AdminFee(o.TotalVials())
	o.GrandTotalPHP = round2(o.SubtotalPHP + o.AdminFeePHP)

	if err := l.tab.AppendRows(ctx, buildOrderRows(cols, o)); err != nil {
		return nil, fmt.Errorf("append order %s: %w", o.ID, err)
	}
	l.invalidate()

	log.Info().
		Str("order_id", o.ID).
		Int("items", len(o.Items)).
		Float64("grand_total_php", o.GrandTotalPHP).
		Msg("ledger: order saved")
	return o, nil
}

// uniqueID returns a timestamp id, suffixed when an order created in the
// same second already took it.
func (l *Ledger) uniqueID(s *snapshot) string {
	id := l.newID()
	for _, row := range s.grid[1:] {
		if s.cols.value(row, ColOrderID) == id {
			return id + "-" + shortSuffix()
		}
	}
	return id
}

// AddItems replaces the item set of an unpaid order, or spawns a linked
// follow-up order when the original is already paid. The new set fully
// replaces the old one: callers send the complete desired state, not a
// delta. rate prices the follow-up order; the unpaid branch keeps the
// original order's rate and admin fee so a confirmed quote never moves.
func (l *Ledger) AddItems(ctx context.Context, id, username string, rate float64, items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	s, err := l.fetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	o := l.findInSnapshot(s, id)
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if err := checkOwner(o, username); err != nil {
		return nil, err
	}
	if o.Status == StatusCancelled {
		return nil, ErrOrderCancelled
	}

	if o.PaymentStatus == PaymentPaid {
		// Paid totals are settled; additions become their own order so the
		// confirmed amount never changes under the customer.
		follow, err := l.SaveOrder(ctx, Draft{
			FullName:     o.FullName,
			Username:     o.Username,
			ExchangeRate: rate,
			Items:        items,
			Remarks:      "Added to " + o.ID,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("order_id", o.ID).Str("follow_up", follow.ID).Msg("ledger: paid order, items moved to follow-up order")
		return follow, nil
	}
	if o.Locked || o.Status == StatusLocked {
		return nil, ErrOrderLocked
	}

	cols, err := ensureColumns(ctx, l.tab, s.grid[0])
	if err != nil {
		return nil, err
	}

	o.Items = priceItems(items, o.ExchangeRate)
	l.recomputeTotals(o)
	// fee preserved from order time
	o.GrandTotalPHP = round2(o.SubtotalPHP + o.AdminFeePHP)

	rows := groupRows(s, id)
	if err := l.tab.DeleteRows(ctx, rows); err != nil {
		return nil, fmt.Errorf("replace order %s: delete rows: %w", id, err)
	}
	if err := l.tab.InsertRows(ctx, o.FirstRow, buildOrderRows(cols, o)); err != nil {
		return nil, fmt.Errorf("replace order %s: insert rows: %w", id, err)
	}
	l.invalidate()

	log.Info().Str("order_id", id).Int("items", len(o.Items)).Msg("ledger: order items replaced")
	return o, nil
}

// UpdateItemQuantity sets one item's quantity, removing the item when qty
// is zero. The last remaining item cannot be zeroed; cancel the order
// instead.
func (l *Ledger) UpdateItemQuantity(ctx context.Context, id, username, code, orderType, supplier string, qty int) (*Order, error) {
	s, err := l.fetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	o := l.findInSnapshot(s, id)
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if err := checkOwner(o, username); err != nil {
		return nil, err
	}
	if o.Status == StatusCancelled {
		return nil, ErrOrderCancelled
	}
	if o.PaymentStatus == PaymentPaid || o.Locked || o.Status == StatusLocked {
		return nil, ErrOrderLocked
	}

	cols, err := ensureColumns(ctx, l.tab, s.grid[0])
	if err != nil {
		return nil, err
	}

	target := -1
	for i, it := range o.Items {
		if !strings.EqualFold(it.ProductCode, code) || !strings.EqualFold(it.OrderType, orderType) {
			continue
		}
		if supplier != "" && !strings.EqualFold(it.Supplier, supplier) {
			continue
		}
		target = i
		break
	}
	if target < 0 {
		return nil, ErrItemNotFound
	}
	it := o.Items[target]

	if qty <= 0 {
		if len(o.Items) == 1 {
			return nil, ErrNoItems
		}
		if err := l.removeItemRow(ctx, cols, o, it); err != nil {
			return nil, err
		}
		o.Items = append(o.Items[:target], o.Items[target+1:]...)
	} else {
		it.Qty = qty
		it.LineTotalUSD = round2(it.UnitPriceUSD * float64(qty))
		it.LineTotalPHP = round2(it.LineTotalUSD * o.ExchangeRate)
		o.Items[target] = it
		if err := l.writeItemCells(ctx, cols, it); err != nil {
			return nil, err
		}
	}

	l.recomputeTotals(o)
	o.GrandTotalPHP = round2(o.SubtotalPHP + o.AdminFeePHP)
	if err := l.writeCellByName(ctx, cols, o.FirstRow, ColGrandTotalPHP, money(o.GrandTotalPHP)); err != nil {
		return nil, err
	}
	l.invalidate()

	log.Info().Str("order_id", id).Str("product", code).Int("qty", qty).Msg("ledger: item quantity updated")
	return o, nil
}

// removeItemRow deletes an item's physical row, except when the item
// lives on the group's first row: that row carries the order-level fields
// and is blanked of item cells instead of deleted.
func (l *Ledger) removeItemRow(ctx context.Context, cols columns, o *Order, it Item) error {
	if it.Row != o.FirstRow {
		if err := l.tab.DeleteRows(ctx, []int{it.Row}); err != nil {
			return fmt.Errorf("delete item row %d: %w", it.Row, err)
		}
		return nil
	}
	for _, name := range []string{
		ColSupplier, ColProductCode, ColProductName, ColOrderType,
		ColQty, ColUnitPriceUSD, ColLineTotalUSD, ColLineTotalPHP,
	} {
		if err := l.writeCellByName(ctx, cols, it.Row, name, ""); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) writeItemCells(ctx context.Context, cols columns, it Item) error {
	fields := map[string]string{
		ColQty:          strconv.Itoa(it.Qty),
		ColLineTotalUSD: money(it.LineTotalUSD),
		ColLineTotalPHP: money(it.LineTotalPHP),
	}
	for name, val := range fields {
		if err := l.writeCellByName(ctx, cols, it.Row, name, val); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) writeCellByName(ctx context.Context, cols columns, row int, name, value string) error {
	i, ok := cols.col(name)
	if !ok {
		return fmt.Errorf("column %q not present in order tab", name)
	}
	if err := l.tab.WriteCell(ctx, row, i+1, value); err != nil {
		return fmt.Errorf("write %s at row %d: %w", name, row, err)
	}
	return nil
}

// CancelOrder removes the order's row-group entirely. Only the owner can
// cancel, and only before payment or locking.
func (l *Ledger) CancelOrder(ctx context.Context, id, username string) error {
	s, err := l.fetchSnapshot(ctx)
	if err != nil {
		return err
	}
	o := l.findInSnapshot(s, id)
	if o == nil {
		return ErrOrderNotFound
	}
	if err := checkOwner(o, username); err != nil {
		return err
	}
	if o.PaymentStatus == PaymentPaid || o.Locked || o.Status == StatusLocked {
		return ErrOrderLocked
	}

	if err := l.tab.DeleteRows(ctx, groupRows(s, id)); err != nil {
		return fmt.Errorf("cancel order %s: %w", id, err)
	}
	l.invalidate()
	log.Info().Str("order_id", id).Msg("ledger: order cancelled and rows removed")
	return nil
}

// CleanupZeroQuantityRows deletes stray item rows with a zero or blank
// quantity. A non-empty orderID scopes the sweep to that group; an
// unscoped sweep also drops fully blank orphan rows. First rows of a
// group survive even when their item cells are empty: they hold the
// order-level fields. Returns the number of rows removed.
func (l *Ledger) CleanupZeroQuantityRows(ctx context.Context, orderID string) (int, error) {
	s, err := l.fetchSnapshot(ctx)
	if err != nil {
		return 0, err
	}

	firstRows := make(map[string]int)
	var stale []int
	for i, row := range s.grid[1:] {
		sheetRow := i + 2
		id := s.cols.value(row, ColOrderID)
		if id == "" {
			if orderID == "" && rowBlank(row) {
				stale = append(stale, sheetRow)
			}
			continue
		}
		if orderID != "" && id != orderID {
			continue
		}
		if _, seen := firstRows[id]; !seen {
			firstRows[id] = sheetRow
			continue
		}
		code := s.cols.value(row, ColProductCode)
		if code == "" || parseInt(s.cols.value(row, ColQty)) <= 0 {
			stale = append(stale, sheetRow)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := l.tab.DeleteRows(ctx, stale); err != nil {
		return 0, fmt.Errorf("cleanup zero-qty rows: %w", err)
	}
	l.invalidate()
	log.Info().Int("removed", len(stale)).Msg("ledger: zero-quantity rows cleaned up")
	return len(stale), nil
}

func (l *Ledger) findInSnapshot(s *snapshot, id string) *Order {
	for _, o := range l.parseOrders(s) {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// groupRows returns the 1-based sheet rows carrying the given order id.
func groupRows(s *snapshot, id string) []int {
	var rows []int
	for i, row := range s.grid[1:] {
		if s.cols.value(row, ColOrderID) == id {
			rows = append(rows, i+2)
		}
	}
	return rows
}

func rowBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func checkOwner(o *Order, username string) error {
	if username == "" {
		return nil // admin path, no ownership constraint
	}
	if NormalizeHandle(o.Username) != NormalizeHandle(username) {
		return ErrNotOwner
	}
	return nil
}

// priceItems fills in derived line totals at the given exchange rate.
func priceItems(items []Item, rate float64) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.LineTotalUSD = round2(it.UnitPriceUSD * float64(it.Qty))
		it.LineTotalPHP = round2(it.LineTotalUSD * rate)
		it.Row = 0
		out[i] = it
	}
	return out
}

// buildOrderRows lays an aggregate out as physical rows: the first row
// carries every order-level field plus the first item, each further row
// carries only the shared id and one item.
func buildOrderRows(cols columns, o *Order) [][]string {
	head := map[string]string{
		ColOrderID:       o.ID,
		ColOrderDate:     o.Date,
		ColFullName:      o.FullName,
		ColTelegram:      o.Username,
		ColExchangeRate:  money(o.ExchangeRate),
		ColAdminFeePHP:   money(o.AdminFeePHP),
		ColGrandTotalPHP: money(o.GrandTotalPHP),
		ColOrderStatus:   string(o.Status),
		ColLocked:        boolCell(o.Locked),
		ColPaymentStatus: string(o.PaymentStatus),
		ColRemarks:       o.Remarks,
		ColPaymentLink:   o.PaymentLink,
		ColPaymentDate:   o.PaymentDate,
		ColShipName:      o.ShipName,
		ColShipPhone:     o.ShipPhone,
		ColShipAddress:   o.ShipAddress,
		ColTracking:      o.Tracking,
	}
	if len(o.Items) > 0 {
		mergeItemFields(head, o.Items[0])
	}
	rows := [][]string{cols.rowForWrite(head)}

	for i, it := range o.Items {
		if i == 0 {
			continue
		}
		fields := map[string]string{ColOrderID: o.ID}
		mergeItemFields(fields, it)
		rows = append(rows, cols.rowForWrite(fields))
	}
	return rows
}

func mergeItemFields(fields map[string]string, it Item) {
	fields[ColSupplier] = it.Supplier
	fields[ColProductCode] = it.ProductCode
	fields[ColProductName] = it.ProductName
	fields[ColOrderType] = it.OrderType
	fields[ColQty] = strconv.Itoa(it.Qty)
	fields[ColUnitPriceUSD] = money(it.UnitPriceUSD)
	fields[ColLineTotalUSD] = money(it.LineTotalUSD)
	fields[ColLineTotalPHP] = money(it.LineTotalPHP)
}

