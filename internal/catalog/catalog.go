// Package catalog resolves product definitions from a remote table, with
// a fallback chain guaranteeing a caller always gets some catalog back.
package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pephaul/orderdesk/internal/cache"
	"github.com/pephaul/orderdesk/internal/normalize"
	"github.com/pephaul/orderdesk/internal/sheetdb"
)

// DefaultSupplier labels products whose supplier cell is blank.
const DefaultSupplier = "Default"

// DefaultVialsPerKit is the conventional kit size.
const DefaultVialsPerKit = 10

// Prices edit frequently and must take effect at order time, so the
// catalog TTL is much shorter than the other cached reads.
const catalogTTL = cache.TTLProducts

type Product struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	KitPriceUSD  float64 `json:"kit_price"`
	VialPriceUSD float64 `json:"vial_price"`
	VialsPerKit  int     `json:"vials_per_kit"`
	Supplier     string  `json:"supplier"`
}

// UnitPrice returns the product's price for one unit of the given order
// type ("Kit" or anything else, treated as Vial).
func (p Product) UnitPrice(orderType string) float64 {
	if strings.EqualFold(orderType, "Kit") {
		return p.KitPriceUSD
	}
	return p.VialPriceUSD
}

// Resolver loads products from the primary tab, falling back to a
// secondary tab located by stable gid, then to the embedded static
// catalog. Products never errors to the caller.
type Resolver struct {
	table       sheetdb.Table
	store       *cache.Store
	primaryTab  string
	fallbackGID int64
}

func NewResolver(table sheetdb.Table, store *cache.Store, primaryTab string, fallbackGID int64) *Resolver {
	return &Resolver{
		table:       table,
		store:       store,
		primaryTab:  primaryTab,
		fallbackGID: fallbackGID,
	}
}

// Products returns the current catalog: remote, fallback-tab, or static.
func (r *Resolver) Products(ctx context.Context) []Product {
	if r.table == nil {
		return StaticCatalog()
	}
	products, err := cache.Typed(r.store, cache.KeyProducts, catalogTTL, func() ([]Product, error) {
		return r.fetch(ctx)
	})
	if err != nil || len(products) == 0 {
		log.Warn().Err(err).Msg("catalog: remote fetch failed, serving static catalog")
		return StaticCatalog()
	}
	return products
}

func (r *Resolver) fetch(ctx context.Context) ([]Product, error) {
	products, err := r.parseTab(ctx, r.table.Subtable(r.primaryTab))
	if err == nil && len(products) > 0 {
		return products, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("tab", r.primaryTab).Msg("catalog: primary tab unreadable, trying fallback gid")
	}

	// Fallback tab located by gid: the name may have been renamed by an
	// operator, the numeric id survives renames.
	fallback, gidErr := r.table.SubtableByID(ctx, r.fallbackGID)
	if gidErr != nil {
		if err != nil {
			return nil, err
		}
		return nil, gidErr
	}
	return r.parseTab(ctx, fallback)
}

func (r *Resolver) parseTab(ctx context.Context, tab sheetdb.Subtable) ([]Product, error) {
	records, err := tab.Records(ctx)
	if err != nil {
		return nil, err
	}

	var products []Product
	for _, raw := range records {
		rec := normalize.Record(raw)
		p := Product{
			Code:         strings.TrimSpace(rec["Product Code"]),
			Name:         strings.TrimSpace(rec["Product Name"]),
			KitPriceUSD:  ParsePrice(rec["Kit Price USD"]),
			VialPriceUSD: ParsePrice(rec["Vial Price USD"]),
			VialsPerKit:  parseVials(rec["Vials Per Kit"]),
			Supplier:     strings.TrimSpace(rec["Supplier"]),
		}
		if p.Code == "" || p.Name == "" {
			continue
		}
		// Both prices zero means a separator or heading row, not a product.
		if p.KitPriceUSD == 0 && p.VialPriceUSD == 0 {
			continue
		}
		if p.Supplier == "" {
			p.Supplier = DefaultSupplier
		}
		products = append(products, p)
	}
	return products, nil
}

// ByCode returns every product carrying the given code, one per supplier.
func (r *Resolver) ByCode(ctx context.Context, code string) []Product {
	var out []Product
	for _, p := range r.Products(ctx) {
		if p.Code == code {
			out = append(out, p)
		}
	}
	return out
}

// Find locates a product by its true key (code, supplier). An empty
// supplier matches the sole holder of the code when unique, otherwise the
// alphabetically-first supplier. That heuristic is a known mis-attribution
// source kept for compatibility.
func (r *Resolver) Find(ctx context.Context, code, supplier string) (Product, bool) {
	matches := r.ByCode(ctx, code)
	if len(matches) == 0 {
		return Product{}, false
	}
	if supplier != "" {
		for _, p := range matches {
			if strings.EqualFold(p.Supplier, supplier) {
				return p, true
			}
		}
		return Product{}, false
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Supplier < matches[j].Supplier })
	return matches[0], true
}

// Invalidate drops the cached catalog; called after admin product edits.
func (r *Resolver) Invalidate() {
	r.store.Invalidate(cache.KeyProducts)
}

// ParsePrice parses a price cell, tolerating currency symbols and
// thousands separators ("$1,234.50", "₱300").
func ParsePrice(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseVials(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return DefaultVialsPerKit
	}
	return n
}
