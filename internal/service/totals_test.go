package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"order-dashboard/internal/entity"
)

func item(price string, qty int) entity.OrderItem {
	return entity.OrderItem{
		Qty:                  qty,
		SellPriceBDTSnapshot: decimal.RequireFromString(price),
	}
}

func TestCalculateTotals(t *testing.T) {
	items := []entity.OrderItem{
		item("450", 2),
	}

	totals := CalculateTotals(items, decimal.RequireFromString("60"), decimal.RequireFromString("500"))

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("900")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("960")), "total = %s", totals.Total)
	assert.True(t, totals.Due.Equal(decimal.RequireFromString("460")), "due = %s", totals.Due)
	assert.Equal(t, 2, totals.TotalItems)
}

func TestCalculateTotalsMultipleItems(t *testing.T) {
	items := []entity.OrderItem{
		item("450", 2),
		item("1250.50", 1),
		item("99.99", 3),
	}

	totals := CalculateTotals(items, decimal.RequireFromString("120"), decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("2450.47")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("2570.47")), "total = %s", totals.Total)
	assert.True(t, totals.Due.Equal(decimal.RequireFromString("2570.47")), "due = %s", totals.Due)
	assert.Equal(t, 6, totals.TotalItems)
}

func TestCalculateTotalsOverpaymentGoesNegative(t *testing.T) {
	items := []entity.OrderItem{item("100", 1)}

	totals := CalculateTotals(items, decimal.Zero, decimal.RequireFromString("150"))

	assert.True(t, totals.Due.Equal(decimal.RequireFromString("-50")), "due = %s", totals.Due)
}

func TestCalculateTotalsEmptyItems(t *testing.T) {
	totals := CalculateTotals(nil, decimal.RequireFromString("60"), decimal.Zero)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("60")))
	assert.Equal(t, 0, totals.TotalItems)
}

func TestCalculateTotalsDeterministic(t *testing.T) {
	items := []entity.OrderItem{
		item("333.33", 3),
		item("0.01", 7),
	}

	first := CalculateTotals(items, decimal.RequireFromString("80"), decimal.RequireFromString("200"))
	second := CalculateTotals(items, decimal.RequireFromString("80"), decimal.RequireFromString("200"))

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Due.Equal(second.Due))
	assert.Equal(t, first.TotalItems, second.TotalItems)
}
