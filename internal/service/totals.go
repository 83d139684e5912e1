package service

import (
	"github.com/shopspring/decimal"

	"order-dashboard/internal/entity"
)

// OrderTotals is the derived financial state of an order. These fields
// are never trusted from the caller; they are recomputed on every
// mutation that touches items, delivery charge or advance.
type OrderTotals struct {
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
	Due        decimal.Decimal
	TotalItems int
}

// CalculateTotals derives subtotal, total and due from the item
// snapshots. Due goes negative when the advance exceeds the total; that
// is an overpayment, not an error, and is not clamped.
func CalculateTotals(items []entity.OrderItem, deliveryCharge, advance decimal.Decimal) OrderTotals {
	subtotal := decimal.Zero
	totalItems := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		totalItems += item.Qty
	}

	total := subtotal.Add(deliveryCharge)

	return OrderTotals{
		Subtotal:   subtotal,
		Total:      total,
		Due:        total.Sub(advance),
		TotalItems: totalItems,
	}
}
