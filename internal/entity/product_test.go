package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSellPriceUsesOverride(t *testing.T) {
	override := decimal.RequireFromString("520")
	p := &Product{
		SellPriceBDT: decimal.RequireFromString("450"),
		VariantGroups: []VariantGroup{
			{Color: "Black"},
			{Color: "Navy", SellPriceOverride: &override},
		},
	}

	assert.True(t, p.SellPrice("navy").Equal(override))
	assert.True(t, p.SellPrice("Black").Equal(decimal.RequireFromString("450")))
	assert.True(t, p.SellPrice("Red").Equal(decimal.RequireFromString("450")))
}

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{Qty: 3, SellPriceBDTSnapshot: decimal.RequireFromString("450.50")}

	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("1351.50")))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(OrderStatusPending))
	assert.True(t, ValidStatus(OrderStatusDelivered))
	assert.False(t, ValidStatus("teleported"))
	assert.False(t, ValidStatus(""))
}
