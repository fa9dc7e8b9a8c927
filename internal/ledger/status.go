package ledger

import (
	"context"

	"github.com/rs/zerolog/log"
)

// writeHead writes order-level cells on the group's first row and drops
// the caches.
func (l *Ledger) writeHead(ctx context.Context, id string, fields map[string]string) (*Order, error) {
	s, err := l.fetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	o := l.findInSnapshot(s, id)
	if o == nil {
		return nil, ErrOrderNotFound
	}
	cols, err := ensureColumns(ctx, l.tab, s.grid[0])
	if err != nil {
		return nil, err
	}
	for name, val := range fields {
		if err := l.writeCellByName(ctx, cols, o.FirstRow, name, val); err != nil {
			return nil, err
		}
	}
	l.invalidate()
	return o, nil
}

// LockOrder freezes an order against customer edits.
func (l *Ledger) LockOrder(ctx context.Context, id string) error {
	_, err := l.writeHead(ctx, id, map[string]string{
		ColOrderStatus: string(StatusLocked),
		ColLocked:      boolCell(true),
	})
	if err == nil {
		log.Info().Str("order_id", id).Msg("ledger: order locked")
	}
	return err
}

// UnlockOrder reopens an order for edits and resets its payment state.
// Marking a paid order unpaid goes through here: the admin reverses a
// mistaken confirmation and the order returns to the editable pool.
func (l *Ledger) UnlockOrder(ctx context.Context, id string) error {
	_, err := l.writeHead(ctx, id, map[string]string{
		ColOrderStatus:   string(StatusPending),
		ColLocked:        boolCell(false),
		ColPaymentStatus: string(PaymentUnpaid),
		ColPaymentDate:   "",
	})
	if err == nil {
		log.Info().Str("order_id", id).Msg("ledger: order unlocked, payment reset")
	}
	return err
}

// MarkPaymentUploaded records the customer's proof-of-payment link and
// moves the order to waiting-for-confirmation.
func (l *Ledger) MarkPaymentUploaded(ctx context.Context, id, username, link string) (*Order, error) {
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
		return nil, ErrOrderLocked
	}
	return l.writeHead(ctx, id, map[string]string{
		ColPaymentLink:   link,
		ColPaymentStatus: string(PaymentWaiting),
	})
}

// ConfirmPayment marks an order paid and locks it; a settled total must
// not drift afterwards.
func (l *Ledger) ConfirmPayment(ctx context.Context, id string) (*Order, error) {
	o, err := l.writeHead(ctx, id, map[string]string{
		ColPaymentStatus: string(PaymentPaid),
		ColPaymentDate:   l.now().Format("2006-01-02 15:04:05"),
		ColOrderStatus:   string(StatusLocked),
		ColLocked:        boolCell(true),
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("order_id", id).Float64("grand_total_php", o.GrandTotalPHP).Msg("ledger: payment confirmed")
	return o, nil
}

// SetShipping stores the delivery details and locks the order: once a
// parcel is being prepared the item set is final.
func (l *Ledger) SetShipping(ctx context.Context, id, username, name, phone, address string) (*Order, error) {
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
	return l.writeHead(ctx, id, map[string]string{
		ColShipName:    name,
		ColShipPhone:   phone,
		ColShipAddress: address,
		ColOrderStatus: string(StatusLocked),
		ColLocked:      boolCell(true),
	})
}

// SetTracking records the courier tracking number.
func (l *Ledger) SetTracking(ctx context.Context, id, tracking string) (*Order, error) {
	return l.writeHead(ctx, id, map[string]string{
		ColTracking: tracking,
	})
}
