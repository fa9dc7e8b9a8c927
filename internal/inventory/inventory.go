// Package inventory rolls order lines up into per-product vial counts.
// The group buy fills kits vial by vial; the rollup tells customers how
// many slots remain before the next kit closes.
package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/pephaul/orderdesk/internal/cache"
	"github.com/pephaul/orderdesk/internal/catalog"
	"github.com/pephaul/orderdesk/internal/ledger"
)

// DefaultMaxKits caps how many kits of one product a buy round accepts
// when the product's lock row sets no ceiling of its own.
const DefaultMaxKits = 100

// OrderSource yields the current order aggregates. Satisfied by
// *ledger.Ledger.
type OrderSource interface {
	Orders(ctx context.Context) ([]*ledger.Order, error)
}

// ProductCount is the rollup for one (product, supplier) pair.
type ProductCount struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Supplier       string `json:"supplier"`
	VialsPerKit    int    `json:"vials_per_kit"`
	TotalVials     int    `json:"total_vials"`
	KitsFilled     int    `json:"kits_filled"`
	RemainingVials int    `json:"remaining_vials"`
	SlotsToNextKit int    `json:"slots_to_next_kit"`
	Locked         bool   `json:"locked"`
}

// Aggregator computes inventory snapshots from live orders.
type Aggregator struct {
	src     OrderSource
	cat     *catalog.Resolver
	locks   *LockStore
	store   *cache.Store
	maxKits int
}

func NewAggregator(src OrderSource, cat *catalog.Resolver, locks *LockStore, store *cache.Store, maxKits int) *Aggregator {
	if maxKits <= 0 {
		maxKits = DefaultMaxKits
	}
	return &Aggregator{src: src, cat: cat, locks: locks, store: store, maxKits: maxKits}
}

// Snapshot returns the per-product rollup, cached. Cancelled orders are
// excluded: the cancel flag lives on the group's first row and voids the
// whole group, including item rows that carry no status of their own.
func (a *Aggregator) Snapshot(ctx context.Context) ([]ProductCount, error) {
	return cache.Typed(a.store, cache.KeyInventory, cache.TTLInventory, func() ([]ProductCount, error) {
		return a.build(ctx)
	})
}

func (a *Aggregator) build(ctx context.Context) ([]ProductCount, error) {
	orders, err := a.src.Orders(ctx)
	if err != nil {
		return nil, err
	}

	type key struct{ code, supplier string }
	counts := make(map[key]*ProductCount)

	for _, o := range orders {
		if o.Status == ledger.StatusCancelled {
			continue
		}
		for _, it := range o.Items {
			supplier := strings.TrimSpace(it.Supplier)
			vpk := it.VialsPerKit
			name := it.ProductName

			// blank supplier on old rows: infer from the catalog
			if p, ok := a.cat.Find(ctx, it.ProductCode, supplier); ok {
				if supplier == "" {
					supplier = p.Supplier
				}
				if vpk <= 0 {
					vpk = p.VialsPerKit
				}
				if name == "" {
					name = p.Name
				}
			}
			if vpk <= 0 {
				vpk = catalog.DefaultVialsPerKit
			}

			k := key{code: it.ProductCode, supplier: supplier}
			pc, ok := counts[k]
			if !ok {
				pc = &ProductCount{Code: it.ProductCode, Name: name, Supplier: supplier, VialsPerKit: vpk}
				counts[k] = pc
			}
			if strings.EqualFold(it.OrderType, ledger.TypeKit) {
				pc.TotalVials += it.Qty * vpk
			} else {
				pc.TotalVials += it.Qty
			}
		}
	}

	manual := map[string]Lock{}
	if a.locks != nil {
		if m, err := a.locks.Locked(ctx); err == nil {
			manual = m
		}
	}

	out := make([]ProductCount, 0, len(counts))
	for _, pc := range counts {
		pc.KitsFilled = pc.TotalVials / pc.VialsPerKit
		pc.RemainingVials = pc.TotalVials % pc.VialsPerKit
		if pc.RemainingVials > 0 {
			pc.SlotsToNextKit = pc.VialsPerKit - pc.RemainingVials
		}
		lock := manual[pc.Code]
		limit := lock.MaxKits
		if limit <= 0 {
			limit = a.maxKits
		}
		pc.Locked = lock.Locked || pc.KitsFilled >= limit
		out = append(out, *pc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].Supplier < out[j].Supplier
	})
	return out, nil
}

// Stats is the order-book summary shown on the admin dashboard.
type Stats struct {
	TotalOrders   int     `json:"total_orders"`
	PaidOrders    int     `json:"paid_orders"`
	WaitingOrders int     `json:"waiting_orders"`
	UnpaidOrders  int     `json:"unpaid_orders"`
	TotalVials    int     `json:"total_vials"`
	TotalPHP      float64 `json:"total_php"`
	PaidPHP       float64 `json:"paid_php"`
}

// Stats summarizes the active order book, cached separately from the
// rollup because the dashboard polls it on a different cadence.
func (a *Aggregator) Stats(ctx context.Context) (Stats, error) {
	return cache.Typed(a.store, cache.KeyStats, cache.TTLStats, func() (Stats, error) {
		orders, err := a.src.Orders(ctx)
		if err != nil {
			return Stats{}, err
		}
		var st Stats
		for _, o := range orders {
			if o.Status == ledger.StatusCancelled {
				continue
			}
			st.TotalOrders++
			st.TotalVials += o.TotalVials()
			st.TotalPHP += o.GrandTotalPHP
			switch o.PaymentStatus {
			case ledger.PaymentPaid:
				st.PaidOrders++
				st.PaidPHP += o.GrandTotalPHP
			case ledger.PaymentWaiting:
				st.WaitingOrders++
			default:
				st.UnpaidOrders++
			}
		}
		return st, nil
	})
}
