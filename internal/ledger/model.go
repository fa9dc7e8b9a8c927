// Package ledger treats the remote order table as a transactional order
// store. One logical order is a row-group: N physical rows sharing an
// Order ID, with order-level fields held only by the group's first row.
// Every read reconstructs the aggregate from the rows, every write goes
// through aggregate-level operations so the "which row holds what"
// convention lives here and nowhere else.
package ledger

import (
	"errors"
	"strings"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrItemNotFound   = errors.New("order item not found")
	ErrOrderLocked    = errors.New("order is locked")
	ErrOrderCancelled = errors.New("order is cancelled")
	ErrNotOwner       = errors.New("username does not match order owner")
	ErrNoItems        = errors.New("order must contain at least one item")
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusLocked    Status = "Locked"
	StatusCancelled Status = "Cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentWaiting PaymentStatus = "Waiting for Confirmation"
	PaymentPaid    PaymentStatus = "Paid"
)

const (
	TypeKit  = "Kit"
	TypeVial = "Vial"
)

// Item is one line of an order: a distinct (product code, order type,
// supplier) tuple with a positive quantity.
type Item struct {
	ProductCode  string  `json:"product_code"`
	ProductName  string  `json:"product_name"`
	OrderType    string  `json:"order_type"`
	Supplier     string  `json:"supplier,omitempty"`
	Qty          int     `json:"qty"`
	UnitPriceUSD float64 `json:"unit_price_usd"`
	LineTotalUSD float64 `json:"line_total_usd"`
	LineTotalPHP float64 `json:"line_total_php"`
	// VialsPerKit rides along from the catalog at pricing time so the
	// fee calculator can expand kits without a second lookup.
	VialsPerKit int `json:"-"`
	// Row is the 1-based sheet row the item was read from; zero for items
	// that have not been persisted yet.
	Row int `json:"-"`
}

// Vials is the item's inventory weight: kits expand to vials.
func (it Item) Vials() int {
	if strings.EqualFold(it.OrderType, TypeKit) {
		vpk := it.VialsPerKit
		if vpk <= 0 {
			vpk = 10
		}
		return it.Qty * vpk
	}
	return it.Qty
}

// Order is the reconstructed aggregate. FirstRow is the 1-based sheet row
// holding the order-level fields; zero when the order was built from
// records without row tracking.
type Order struct {
	FirstRow      int           `json:"-"`
	ID            string        `json:"order_id"`
	Date          string        `json:"order_date"`
	FullName      string        `json:"full_name"`
	Username      string        `json:"telegram"`
	ExchangeRate  float64       `json:"exchange_rate"`
	AdminFeePHP   float64       `json:"admin_fee_php"`
	SubtotalUSD   float64       `json:"subtotal_usd"`
	SubtotalPHP   float64       `json:"subtotal_php"`
	GrandTotalPHP float64       `json:"grand_total_php"`
	Status        Status        `json:"status"`
	Locked        bool          `json:"locked"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentLink   string        `json:"payment_link,omitempty"`
	PaymentDate   string        `json:"payment_date,omitempty"`
	ShipName      string        `json:"ship_name,omitempty"`
	ShipPhone     string        `json:"ship_phone,omitempty"`
	ShipAddress   string        `json:"ship_address,omitempty"`
	Tracking      string        `json:"tracking,omitempty"`
	Remarks       string        `json:"remarks,omitempty"`
	Items         []Item        `json:"items"`
}

// TotalVials sums the inventory weight of all items.
func (o *Order) TotalVials() int {
	total := 0
	for _, it := range o.Items {
		total += it.Vials()
	}
	return total
}

// Draft is the input for creating an order.
type Draft struct {
	FullName     string
	Username     string
	ExchangeRate float64
	Items        []Item
	Remarks      string
}

// NormalizeHandle prepares a messaging handle for comparison: trimmed,
// lowered, optional leading sigil stripped.
func NormalizeHandle(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "@")
	return strings.ToLower(h)
}
