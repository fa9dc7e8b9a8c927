package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/pephaul/orderdesk/internal/normalize"
	"github.com/pephaul/orderdesk/internal/sheetdb"
)

// Canonical header names of the order tab. Operators add and reorder
// columns in the live sheet, so positions are always resolved from the
// actual header row, never assumed.
const (
	ColOrderID       = normalize.OrderIDHeader
	ColOrderDate     = "Order Date"
	ColFullName      = "Full Name"
	ColTelegram      = "Telegram Username"
	ColSupplier      = "Supplier"
	ColProductCode   = "Product Code"
	ColProductName   = "Product Name"
	ColOrderType     = "Order Type"
	ColQty           = "QTY"
	ColUnitPriceUSD  = "Unit Price USD"
	ColLineTotalUSD  = "Line Total USD"
	ColExchangeRate  = "Exchange Rate"
	ColLineTotalPHP  = "Line Total PHP"
	ColAdminFeePHP   = "Admin Fee PHP"
	ColGrandTotalPHP = "Grand Total PHP"
	ColOrderStatus   = "Order Status"
	ColLocked        = "Locked"
	ColPaymentStatus = "Payment Status"
	ColRemarks       = "Remarks"
	ColPaymentLink   = "Payment Screenshot"
	ColPaymentDate   = "Payment Date"
	ColShipName      = "Shipping Name"
	ColShipPhone     = "Shipping Phone"
	ColShipAddress   = "Shipping Address"
	ColTracking      = "Tracking Number"
)

// legacyPaymentStatus is the pre-rename payment column still present in
// older copies of the sheet. Reads fall back to it when the canonical
// column is absent.
const legacyPaymentStatus = "Confirmed Paid?"

// allColumns is the full set a freshly provisioned tab carries, in the
// order new columns get appended when missing.
var allColumns = []string{
	ColOrderID, ColOrderDate, ColFullName, ColTelegram, ColSupplier,
	ColProductCode, ColProductName, ColOrderType, ColQty,
	ColUnitPriceUSD, ColLineTotalUSD, ColExchangeRate, ColLineTotalPHP,
	ColAdminFeePHP, ColGrandTotalPHP, ColOrderStatus, ColLocked,
	ColPaymentStatus, ColRemarks, ColPaymentLink, ColPaymentDate,
	ColShipName, ColShipPhone, ColShipAddress, ColTracking,
}

// telegramHeaderVariants covers the spellings the handle column has had
// over the sheet's lifetime.
var telegramHeaderVariants = []string{
	ColTelegram, "Telegram", "Telegram Handle", "Telegram @", "TG Username", "Username",
}

// columns maps canonical header name to 0-based column index for one
// snapshot of the header row.
type columns struct {
	idx     map[string]int
	headers []string
}

func resolveColumns(headerRow []string) columns {
	headers := normalize.Headers(headerRow)
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	return columns{idx: idx, headers: headers}
}

// col returns the 0-based index of a canonical header, with the payment
// status column falling back to its legacy name.
func (c columns) col(name string) (int, bool) {
	if i, ok := c.idx[name]; ok {
		return i, true
	}
	if name == ColPaymentStatus {
		if i, ok := c.idx[legacyPaymentStatus]; ok {
			return i, true
		}
	}
	return 0, false
}

// telegramCol locates the handle column: exact variant match first, then
// any header containing "telegram".
func (c columns) telegramCol() (int, bool) {
	for _, v := range telegramHeaderVariants {
		if i, ok := c.idx[v]; ok {
			return i, true
		}
	}
	for i, h := range c.headers {
		if strings.Contains(strings.ToLower(h), "telegram") {
			return i, true
		}
	}
	return 0, false
}

// value reads the named column out of a data row, empty when the column
// or cell is missing.
func (c columns) value(row []string, name string) string {
	i, ok := c.col(name)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ensureColumns appends any missing canonical headers to the live header
// row so subsequent writes have a cell to land in. Returns the refreshed
// column map.
func ensureColumns(ctx context.Context, tab sheetdb.Subtable, headerRow []string) (columns, error) {
	cols := resolveColumns(headerRow)
	var missing []string
	for _, name := range allColumns {
		if _, ok := cols.col(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return cols, nil
	}

	start := len(headerRow) + 1
	ref := sheetdb.A1Range(1, start, 1, start+len(missing)-1)
	if err := tab.WriteRange(ctx, ref, [][]string{missing}); err != nil {
		return columns{}, fmt.Errorf("extend header row: %w", err)
	}
	extended := append(append([]string{}, headerRow...), missing...)
	return resolveColumns(extended), nil
}

// rowForWrite builds a full-width physical row from a field map keyed by
// canonical header name. Unknown columns are silently dropped; the sheet
// keeps whatever extra columns operators added.
func (c columns) rowForWrite(fields map[string]string) []string {
	row := make([]string, len(c.headers))
	for name, val := range fields {
		if i, ok := c.col(name); ok && i < len(row) {
			row[i] = val
		}
	}
	return row
}
