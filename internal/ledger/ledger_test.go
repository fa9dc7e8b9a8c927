package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pephaul/orderdesk/internal/cache"
	"github.com/pephaul/orderdesk/internal/pricing"
	"github.com/pephaul/orderdesk/internal/sheetdb"
)

var testTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestLedger(t *testing.T, dataRows ...map[string]string) (*Ledger, *sheetdb.MemorySubtable) {
	t.Helper()
	cols := resolveColumns(allColumns)
	grid := [][]string{append([]string(nil), allColumns...)}
	for _, fields := range dataRows {
		grid = append(grid, cols.rowForWrite(fields))
	}
	tab := sheetdb.NewMemory().AddTable("t").AddSubtable("PepHaul Entry", 1, grid)
	l := New(tab, cache.New(), pricing.NewCalculator(300, 50), 59.20)
	l.now = func() time.Time { return testTime }
	return l, tab
}

// seeded two-row group: TR5 kit x1 on the head row, BC5 vials x3 below.
func seedGroup(id string, extra map[string]string) []map[string]string {
	head := map[string]string{
		ColOrderID:       id,
		ColOrderDate:     "2024-12-01 10:00:00",
		ColFullName:      "Alice Cruz",
		ColTelegram:      "@alice",
		ColExchangeRate:  "59.20",
		ColAdminFeePHP:   "300.00",
		ColGrandTotalPHP: "3674.40",
		ColOrderStatus:   "Pending",
		ColLocked:        "No",
		ColPaymentStatus: "Unpaid",
		ColProductCode:   "TR5",
		ColProductName:   "Tirzepatide - 5mg",
		ColOrderType:     "Kit",
		ColSupplier:      "Alpha Labs",
		ColQty:           "1",
		ColUnitPriceUSD:  "45.00",
		ColLineTotalUSD:  "45.00",
		ColLineTotalPHP:  "2664.00",
	}
	for k, v := range extra {
		head[k] = v
	}
	item := map[string]string{
		ColOrderID:      id,
		ColProductCode:  "BC5",
		ColProductName:  "BPC-157 - 5mg",
		ColOrderType:    "Vial",
		ColQty:          "3",
		ColUnitPriceUSD: "4.00",
		ColLineTotalUSD: "12.00",
		ColLineTotalPHP: "710.40",
	}
	return []map[string]string{head, item}
}

func TestSaveOrder(t *testing.T) {
	l, tab := newTestLedger(t)
	ctx := context.Background()

	o, err := l.SaveOrder(ctx, Draft{
		FullName:     "Alice Cruz",
		Username:     "@alice",
		ExchangeRate: 59.20,
		Items: []Item{
			{ProductCode: "TR5", ProductName: "Tirzepatide - 5mg", OrderType: "Kit", Supplier: "Alpha Labs", Qty: 1, UnitPriceUSD: 45, VialsPerKit: 10},
			{ProductCode: "BC5", ProductName: "BPC-157 - 5mg", OrderType: "Vial", Qty: 3, UnitPriceUSD: 4},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-20250102030405", o.ID)
	assert.Equal(t, 57.0, o.SubtotalUSD)
	// 13 vials total: one fee bracket
	assert.Equal(t, 300.0, o.AdminFeePHP)
	assert.InDelta(t, 57*59.20+300, o.GrandTotalPHP, 0.01)

	grid := tab.Grid()
	require.Len(t, grid, 3) // header + 2 rows
	cols := resolveColumns(grid[0])

	// order-level fields live on the first row only
	assert.Equal(t, "Alice Cruz", cols.value(grid[1], ColFullName))
	assert.Equal(t, "TR5", cols.value(grid[1], ColProductCode))
	assert.Equal(t, "", cols.value(grid[2], ColFullName))
	assert.Equal(t, o.ID, cols.value(grid[2], ColOrderID))
	assert.Equal(t, "BC5", cols.value(grid[2], ColProductCode))

	got, err := l.GetOrderFresh(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.GrandTotalPHP, got.GrandTotalPHP)
	assert.Len(t, got.Items, 2)
}

func TestSaveOrder_IDCollisionGetsSuffix(t *testing.T) {
	l, _ := newTestLedger(t, seedGroup("ORD-20250102030405", nil)...)

	o, err := l.SaveOrder(context.Background(), Draft{
		FullName: "Bob",
		Username: "@bob",
		Items:    []Item{{ProductCode: "TR5", OrderType: "Vial", Qty: 1, UnitPriceUSD: 4.5}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "ORD-20250102030405", o.ID)
	assert.Contains(t, o.ID, "ORD-20250102030405-")
}

func TestSaveOrder_NoItems(t *testing.T) {
	l, _ := newTestLedger(t)
	_, err := l.SaveOrder(context.Background(), Draft{FullName: "x"})
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestGetOrder_FirstRowHoldsOrderFields(t *testing.T) {
	l, _ := newTestLedger(t, seedGroup("ORD-1", nil)...)

	o, err := l.GetOrder(context.Background(), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Cruz", o.FullName)
	assert.Equal(t, "@alice", o.Username)
	assert.Equal(t, 2, o.FirstRow)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "TR5", o.Items[0].ProductCode)
	assert.Equal(t, 2, o.Items[0].Row)
	assert.Equal(t, "BC5", o.Items[1].ProductCode)
	assert.Equal(t, 3, o.Items[1].Row)
}

func TestGetOrder_SelfHealsGrandTotal(t *testing.T) {
	l, _ := newTestLedger(t, seedGroup("ORD-1", map[string]string{
		ColGrandTotalPHP: "9999.00",
	})...)

	o, err := l.GetOrder(context.Background(), "ORD-1")
	require.NoError(t, err)
	// 57 USD * 59.20 + 300 fee, ignoring the corrupted stored value
	assert.InDelta(t, 3674.40, o.GrandTotalPHP, 0.01)
}

func TestGetOrder_LegacyPaymentColumn(t *testing.T) {
	headers := make([]string, 0, len(allColumns))
	for _, h := range allColumns {
		if h == ColPaymentStatus {
			h = "Confirmed Paid?"
		}
		headers = append(headers, h)
	}
	cols := resolveColumns(headers)
	grid := [][]string{headers, cols.rowForWrite(map[string]string{
		ColOrderID:       "ORD-1",
		ColFullName:      "Alice Cruz",
		ColProductCode:   "TR5",
		ColOrderType:     "Vial",
		ColQty:           "1",
		ColUnitPriceUSD:  "4.50",
		"Confirmed Paid?": "Yes",
	})}
	tab := sheetdb.NewMemory().AddTable("t").AddSubtable("PepHaul Entry", 1, grid)
	l := New(tab, cache.New(), pricing.NewCalculator(300, 50), 59.20)

	o, err := l.GetOrder(context.Background(), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, o.PaymentStatus)
}

func TestAddItems_ReplacesNotMerges(t *testing.T) {
	l, tab := newTestLedger(t, seedGroup("ORD-1", map[string]string{
		ColAdminFeePHP: "600.00",
	})...)
	ctx := context.Background()

	o, err := l.AddItems(ctx, "ORD-1", "@alice", 60.0, []Item{
		{ProductCode: "TR5", ProductName: "Tirzepatide - 5mg", OrderType: "Kit", Supplier: "Alpha Labs", Qty: 2, UnitPriceUSD: 45, VialsPerKit: 10},
	})
	require.NoError(t, err)

	// the new set replaces the old one outright
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Qty)

	// original rate and admin fee survive the replacement
	assert.Equal(t, 59.20, o.ExchangeRate)
	assert.Equal(t, 600.0, o.AdminFeePHP)
	assert.InDelta(t, 90*59.20+600, o.GrandTotalPHP, 0.01)

	// two physical rows shrank to one
	assert.Len(t, tab.Grid(), 2)

	got, err := l.GetOrderFresh(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Cruz", got.FullName)
	require.Len(t, got.Items, 1)
}

func TestAddItems_PaidOrderSpawnsFollowUp(t *testing.T) {
	l, _ := newTestLedger(t, seedGroup("ORD-1", map[string]string{
		ColPaymentStatus: "Paid",
		ColOrderStatus:   "Locked",
		ColLocked:        "Yes",
	})...)
	ctx := context.Background()

	follow, err := l.AddItems(ctx, "ORD-1", "@alice", 60.0, []Item{
		{ProductCode: "SM5", ProductName: "Semaglutide - 5mg", OrderType: "Vial", Qty: 2, UnitPriceUSD: 4.5},
	})
	require.NoError(t, err)

	assert.NotEqual(t, "ORD-1", follow.ID)
	assert.Equal(t, "Added to ORD-1", follow.Remarks)
	assert.Equal(t, 60.0, follow.ExchangeRate)
	assert.Equal(t, PaymentUnpaid, follow.PaymentStatus)

	// the paid order is untouched
	orig, err := l.GetOrderFresh(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Len(t, orig.Items, 2)
	assert.Equal(t, PaymentPaid, orig.PaymentStatus)
}

func TestAddItems_Guards(t *testing.T) {
	ctx := context.Background()
	item := []Item{{ProductCode: "TR5", OrderType: "Vial", Qty: 1, UnitPriceUSD: 4.5}}

	t.Run("locked", func(t *testing.T) {
		l, _ := newTestLedger(t, seedGroup("ORD-1", map[string]string{ColLocked: "Yes"})...)
		_, err := l.AddItems(ctx, "ORD-1", "@alice", 59.2, item)
		assert.ErrorIs(t, err, ErrOrderLocked)
	})
	t.Run("cancelled", func(t *testing.T) {
		l, _ := newTestLedger(t, seedGroup("ORD-1", map[string]string{ColOrderStatus: "Cancelled"})...)
		_, err := l.AddItems(ctx, "ORD-1", "@alice", 59.2, item)
		assert.ErrorIs(t, err, ErrOrderCancelled)
	})
	t.Run("not owner", func(t *testing.T) {
		l, _ := newTestLedger(t, seedGroup("ORD-1", nil)...)
		_, err := l.AddItems(ctx, "ORD-1", "@bob", 59.2, item)
		assert.ErrorIs(t, err, ErrNotOwner)
	})
	t.Run("unknown order", func(t *testing.T) {
		l, _ := newTestLedger(t)
		_, err := l.AddItems(ctx, "ORD-9", "@alice", 59.2, item)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestUpdateItemQuantity(t *testing.T) {
	l, tab := newTestLedger(t, seedGroup("ORD-1", nil)...)
	ctx := context.Background()

	o, err := l.UpdateItemQuantity(ctx, "ORD-1", "@alice", "BC5", "Vial", "", 5)
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 5, o.Items[1].Qty)
	assert.Equal(t, 20.0, o.Items[1].LineTotalUSD)
	// 45 + 20 USD at 59.20 plus the 300 fee
	assert.InDelta(t, 65*59.20+300, o.GrandTotalPHP, 0.01)

	grid := tab.Grid()
	cols := resolveColumns(grid[0])
	assert.Equal(t, "5", cols.value(grid[2], ColQty))
	assert.Equal(t, money(o.GrandTotalPHP), cols.value(grid[1], ColGrandTotalPHP))
}

func TestUpdateItemQuantity_ZeroDeletesRow(t *testing.T) {
	l, tab := newTestLedger(t, seedGroup("ORD-1", nil)...)

	o, err := l.UpdateItemQuantity(context.Background(), "ORD-1", "@alice", "BC5", "Vial", "", 0)
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "TR5", o.Items[0].ProductCode)
	assert.Len(t, tab.Grid(), 2) // header + head row
}

func TestUpdateItemQuantity_ZeroOnFirstRowBlanksItemCells(t *testing.T) {
	l, tab := newTestLedger(t, seedGroup("ORD-1", nil)...)
	ctx := context.Background()

	o, err := l.UpdateItemQuantity(ctx, "ORD-1", "@alice", "TR5", "Kit", "Alpha Labs", 0)
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "BC5", o.Items[0].ProductCode)

	grid := tab.Grid()
	require.Len(t, grid, 3) // first row survives, item cells blanked
	cols := resolveColumns(grid[0])
	assert.Equal(t, "", cols.value(grid[1], ColProductCode))
	assert.Equal(t, "Alice Cruz", cols.value(grid[1], ColFullName))

	got, err := l.GetOrderFresh(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Cruz", got.FullName)
	require.Len(t, got.Items, 1)
}

func TestUpdateItemQuantity_LastItemCannotBeZeroed(t *testing.T) {
	l, _ := newTestLedger(t, seedGroup("ORD-1", nil)[:1]...)
	_, err := l.UpdateItemQuantity(context.Background(), "ORD-1", "@alice", "TR5", "Kit", "", 0)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestUpdateItemQuantity_UnknownItem(t *testing.T) {
	l, _ := newTestLedger(t, seedGroup("ORD-1", nil)...)
	_, err := l.UpdateItemQuantity(context.Background(), "ORD-1", "@alice", "NOPE", "Vial", "", 2)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateItemQuantity_ExtendsMissingColumns(t *testing.T) {
	// a hand-edited tab missing the Line Total PHP column
	headers := []string{
		ColOrderID, ColFullName, ColTelegram, ColExchangeRate, ColAdminFeePHP,
		ColGrandTotalPHP, ColOrderStatus, ColPaymentStatus, ColProductCode,
		ColOrderType, ColQty, ColUnitPriceUSD, ColLineTotalUSD,
	}
	cols := resolveColumns(headers)
	grid := [][]string{
		append([]string(nil), headers...),
		cols.rowForWrite(map[string]string{
			ColOrderID: "ORD-1", ColFullName: "Alice Cruz", ColTelegram: "@alice",
			ColExchangeRate: "59.20", ColAdminFeePHP: "300.00", ColGrandTotalPHP: "2964.00",
			ColOrderStatus: "Pending", ColPaymentStatus: "Unpaid",
			ColProductCode: "TR5", ColOrderType: "Kit", ColQty: "1", ColUnitPriceUSD: "45.00",
		}),
	}
	tab := sheetdb.NewMemory().AddTable("t").AddSubtable("PepHaul Entry", 1, grid)
	l := New(tab, cache.New(), pricing.NewCalculator(300, 50), 59.20)
	l.now = func() time.Time { return testTime }

	o, err := l.UpdateItemQuantity(context.Background(), "ORD-1", "@alice", "TR5", "Kit", "", 2)
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Qty)

	got := tab.Grid()
	require.Contains(t, got[0], ColLineTotalPHP, "header extended before the write")
	newCols := resolveColumns(got[0])
	assert.Equal(t, "5328.00", newCols.value(got[1], ColLineTotalPHP))
	assert.Equal(t, "2", newCols.value(got[1], ColQty))
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels, rows removed", func(t *testing.T) {
		l, tab := newTestLedger(t, append(seedGroup("ORD-1", nil), seedGroup("ORD-2", map[string]string{ColTelegram: "@bob"})...)...)
		require.NoError(t, l.CancelOrder(ctx, "ORD-1", "alice")) // bare handle matches @alice
		grid := tab.Grid()
		assert.Len(t, grid, 3) // header + ORD-2's two rows
		_, err := l.GetOrderFresh(ctx, "ORD-1")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
	t.Run("stranger cannot cancel", func(t *testing.T) {
		l, _ := newTestLedger(t, seedGroup("ORD-1", nil)...)
		assert.ErrorIs(t, l.CancelOrder(ctx, "ORD-1", "@bob"), ErrNotOwner)
	})
	t.Run("paid order cannot be cancelled", func(t *testing.T) {
		l, _ := newTestLedger(t, seedGroup("ORD-1", map[string]string{ColPaymentStatus: "Paid"})...)
		assert.ErrorIs(t, l.CancelOrder(ctx, "ORD-1", "@alice"), ErrOrderLocked)
	})
}

func TestFindOrdersByUsername(t *testing.T) {
	rows := seedGroup("ORD-1", map[string]string{ColTelegram: "@ana"})
	rows = append(rows, seedGroup("ORD-2", map[string]string{ColTelegram: "@anastasia"})...)
	rows = append(rows, seedGroup("ORD-3", map[string]string{ColTelegram: "@ana"})...)
	l, _ := newTestLedger(t, rows...)
	ctx := context.Background()

	// exact match wins; @anastasia is not swallowed by @ana
	got, err := l.FindOrdersByUsername(ctx, "ANA")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// newest first
	assert.Equal(t, "ORD-3", got[0].ID)
	assert.Equal(t, "ORD-1", got[1].ID)

	// containment only when nothing matches exactly
	got, err = l.FindOrdersByUsername(ctx, "stasia")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-2", got[0].ID)

	got, err = l.FindOrdersByUsername(ctx, "@nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindOrdersByUsername_DriftedTelegramHeader(t *testing.T) {
	headers := make([]string, 0, len(allColumns))
	for _, h := range allColumns {
		if h == ColTelegram {
			h = "TG Username"
		}
		headers = append(headers, h)
	}
	cols := resolveColumns(headers)
	grid := [][]string{headers, cols.rowForWrite(map[string]string{
		ColOrderID:      "ORD-1",
		"TG Username":   "@alice",
		ColProductCode:  "TR5",
		ColOrderType:    "Vial",
		ColQty:          "1",
		ColUnitPriceUSD: "4.50",
	})}
	tab := sheetdb.NewMemory().AddTable("t").AddSubtable("PepHaul Entry", 1, grid)
	l := New(tab, cache.New(), pricing.NewCalculator(300, 50), 59.20)

	got, err := l.FindOrdersByUsername(context.Background(), "@alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-1", got[0].ID)
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm payment locks the order", func(t *testing.T) {
		l, _ := newTestLedger(t, seedGroup("ORD-1", map[string]string{ColPaymentStatus: "Waiting for Confirmation"})...)
		_, err := l.ConfirmPayment(ctx, "ORD-1")
		require.NoError(t, err)

		o, err := l.GetOrderFresh(ctx, "ORD-1")
		require.NoError(t, err)
		assert.Equal(t, PaymentPaid, o.PaymentStatus)
		assert.Equal(t, StatusLocked, o.Status)
		assert.True(t, o.Locked)
		assert.Equal(t, "2025-01-02 03:04:05", o.PaymentDate)
	})

	t.Run("unlock resets payment state", func(t *testing.T) {
		l, _ := newTestLedger(t, seedGroup("ORD-1", map[string]string{
			ColPaymentStatus: "Paid", ColOrderStatus: "Locked", ColLocked: "Yes", ColPaymentDate: "2024-12-25",
		})...)
		require.NoError(t, l.UnlockOrder(ctx, "ORD-1"))

		o, err := l.GetOrderFresh(ctx, "ORD-1")
		require.NoError(t, err)
		assert.Equal(t, PaymentUnpaid, o.PaymentStatus)
		assert.Equal(t, StatusPending, o.Status)
		assert.False(t, o.Locked)
		assert.Empty(t, o.PaymentDate)
	})

	t.Run("payment upload moves to waiting", func(t *testing.T) {
		l, _ := newTestLedger(t, seedGroup("ORD-1", nil)...)
		_, err := l.MarkPaymentUploaded(ctx, "ORD-1", "@alice", "https://img.example/proof.png")
		require.NoError(t, err)

		o, err := l.GetOrderFresh(ctx, "ORD-1")
		require.NoError(t, err)
		assert.Equal(t, PaymentWaiting, o.PaymentStatus)
		assert.Equal(t, "https://img.example/proof.png", o.PaymentLink)
	})

	t.Run("shipping details lock the order", func(t *testing.T) {
		l, _ := newTestLedger(t, seedGroup("ORD-1", nil)...)
		_, err := l.SetShipping(ctx, "ORD-1", "@alice", "Alice Cruz", "+63 900 000 0000", "123 Rizal St, Manila")
		require.NoError(t, err)

		o, err := l.GetOrderFresh(ctx, "ORD-1")
		require.NoError(t, err)
		assert.Equal(t, "123 Rizal St, Manila", o.ShipAddress)
		assert.True(t, o.Locked)
	})

	t.Run("tracking number", func(t *testing.T) {
		l, _ := newTestLedger(t, seedGroup("ORD-1", nil)...)
		_, err := l.SetTracking(ctx, "ORD-1", "PH123456789")
		require.NoError(t, err)

		o, err := l.GetOrderFresh(ctx, "ORD-1")
		require.NoError(t, err)
		assert.Equal(t, "PH123456789", o.Tracking)
	})
}

func TestCleanupZeroQuantityRows(t *testing.T) {
	t.Run("whole table", func(t *testing.T) {
		rows := seedGroup("ORD-1", nil)
		rows = append(rows, map[string]string{ // stale: zero qty on a non-first row
			ColOrderID: "ORD-1", ColProductCode: "SM5", ColOrderType: "Vial", ColQty: "0",
		})
		rows = append(rows, map[string]string{ // stale: blank code
			ColOrderID: "ORD-1", ColQty: "2",
		})
		rows = append(rows, map[string]string{}) // stale: fully blank orphan row
		l, tab := newTestLedger(t, rows...)

		n, err := l.CleanupZeroQuantityRows(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Len(t, tab.Grid(), 3) // header + the two healthy rows

		o, err := l.GetOrderFresh(context.Background(), "ORD-1")
		require.NoError(t, err)
		assert.Len(t, o.Items, 2)
	})

	t.Run("scoped to one order", func(t *testing.T) {
		rows := seedGroup("ORD-1", nil)
		rows = append(rows, map[string]string{
			ColOrderID: "ORD-1", ColProductCode: "SM5", ColOrderType: "Vial", ColQty: "0",
		})
		rows = append(rows, seedGroup("ORD-2", nil)...)
		rows = append(rows, map[string]string{
			ColOrderID: "ORD-2", ColProductCode: "SM5", ColOrderType: "Vial", ColQty: "0",
		})
		l, tab := newTestLedger(t, rows...)

		n, err := l.CleanupZeroQuantityRows(context.Background(), "ORD-1")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Len(t, tab.Grid(), 6) // ORD-2's stale row survives the scoped sweep

		// the zero-qty row is still physically present but never parses
		o, err := l.GetOrderFresh(context.Background(), "ORD-2")
		require.NoError(t, err)
		assert.Len(t, o.Items, 2)
	})
}

func TestOrders_CachedSnapshotServesRepeatReads(t *testing.T) {
	l, tab := newTestLedger(t, seedGroup("ORD-1", nil)...)
	ctx := context.Background()

	first, err := l.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// direct grid mutation is invisible until the cache is dropped
	require.NoError(t, tab.WriteCell(ctx, 2, 3, "Renamed"))
	cached, err := l.Orders(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice Cruz", cached[0].FullName)

	l.invalidate()
	fresh, err := l.Orders(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fresh[0].FullName)
}
