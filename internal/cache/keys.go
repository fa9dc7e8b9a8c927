package cache

import "time"

// Cache keys and TTLs shared across packages. TTLs are tuned per data
// volatility: product prices must propagate fast, settings barely change.
const (
	KeyOrders       = "orders"
	KeyOrdersFast   = "orders_fast"
	KeyProducts     = "products"
	KeyInventory    = "inventory"
	KeyStats        = "order_stats"
	KeySettings     = "settings"
	KeyProductLocks = "product_locks"
	KeyDirectory    = "telegram_directory"
)

const (
	TTLOrders     = 180 * time.Second
	TTLOrdersFast = 30 * time.Second
	TTLProducts   = 60 * time.Second
	TTLInventory  = 180 * time.Second
	TTLStats      = 300 * time.Second
	TTLSettings   = 600 * time.Second
)
