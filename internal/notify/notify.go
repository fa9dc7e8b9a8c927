package notify

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pephaul/orderdesk/internal/cache"
	"github.com/pephaul/orderdesk/internal/ledger"
	"github.com/pephaul/orderdesk/internal/sheetdb"
)

// DirectoryResolver maps messaging handles to chat ids using an opt-in
// directory subtable maintained by the bot. Customers who never messaged
// the bot are simply unreachable.
type DirectoryResolver struct {
	tab   sheetdb.Subtable
	store *cache.Store
}

func NewDirectoryResolver(tab sheetdb.Subtable, store *cache.Store) *DirectoryResolver {
	return &DirectoryResolver{tab: tab, store: store}
}

// ChatID resolves a handle to a chat id; false when the customer has not
// registered with the bot.
func (d *DirectoryResolver) ChatID(ctx context.Context, handle string) (int64, bool) {
	if d == nil || d.tab == nil {
		return 0, false
	}
	dir, err := cache.Typed(d.store, cache.KeyDirectory, cache.TTLSettings, func() (map[string]int64, error) {
		return d.fetch(ctx)
	})
	if err != nil {
		log.Warn().Err(err).Msg("notify: directory read failed")
		return 0, false
	}
	id, ok := dir[ledger.NormalizeHandle(handle)]
	return id, ok
}

func (d *DirectoryResolver) fetch(ctx context.Context) (map[string]int64, error) {
	grid, err := d.tab.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	dir := make(map[string]int64)
	for i, row := range grid {
		if i == 0 || len(row) < 2 {
			continue
		}
		handle := ledger.NormalizeHandle(row[0])
		id, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
		if handle == "" || err != nil {
			continue
		}
		dir[handle] = id
	}
	return dir, nil
}

// Dispatcher fans order events out to the admin chat and, when the
// handle is registered, to the customer.
type Dispatcher struct {
	sender      Sender
	dir         *DirectoryResolver
	adminChatID int64
}

func NewDispatcher(sender Sender, dir *DirectoryResolver, adminChatID int64) *Dispatcher {
	return &Dispatcher{sender: sender, dir: dir, adminChatID: adminChatID}
}

// NotifyAdmin sends to the admin chat, logging failures.
func (n *Dispatcher) NotifyAdmin(ctx context.Context, text string) {
	if n == nil || n.sender == nil || n.adminChatID == 0 {
		return
	}
	if err := n.sender.Send(ctx, n.adminChatID, text); err != nil {
		log.Warn().Err(err).Msg("notify: admin message failed")
	}
}

// NotifyCustomer sends to the handle's chat when the directory knows it.
func (n *Dispatcher) NotifyCustomer(ctx context.Context, handle, text string) {
	if n == nil || n.sender == nil {
		return
	}
	chatID, ok := n.dir.ChatID(ctx, handle)
	if !ok {
		log.Debug().Str("handle", handle).Msg("notify: handle not in directory, skipping")
		return
	}
	if err := n.sender.Send(ctx, chatID, text); err != nil {
		log.Warn().Err(err).Str("handle", handle).Msg("notify: customer message failed")
	}
}

// NewOrderMessage announces a fresh order to the admin chat.
func NewOrderMessage(o *ledger.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 <b>New order %s</b>\n", html.EscapeString(o.ID))
	fmt.Fprintf(&b, "%s (%s)\n", html.EscapeString(o.FullName), html.EscapeString(o.Username))
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %s ×%d %s\n", html.EscapeString(it.ProductCode), it.Qty, html.EscapeString(it.OrderType))
	}
	fmt.Fprintf(&b, "Total: ₱%.2f", o.GrandTotalPHP)
	return b.String()
}

// PaymentUploadedMessage tells the admin a proof of payment came in.
func PaymentUploadedMessage(o *ledger.Order) string {
	return fmt.Sprintf("💸 <b>Payment proof uploaded</b>\n%s — %s\n₱%.2f\n%s",
		html.EscapeString(o.ID), html.EscapeString(o.Username), o.GrandTotalPHP, html.EscapeString(o.PaymentLink))
}

// PaymentConfirmedMessage tells the customer their payment cleared.
func PaymentConfirmedMessage(o *ledger.Order) string {
	return fmt.Sprintf("✅ Payment confirmed for <b>%s</b>.\nTotal ₱%.2f. Thank you!",
		html.EscapeString(o.ID), o.GrandTotalPHP)
}

// ShippedMessage tells the customer their parcel is on the way.
func ShippedMessage(o *ledger.Order) string {
	return fmt.Sprintf("📦 Order <b>%s</b> shipped!\nTracking: <code>%s</code>",
		html.EscapeString(o.ID), html.EscapeString(o.Tracking))
}
