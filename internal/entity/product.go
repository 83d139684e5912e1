package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	BasePriceBDT  decimal.Decimal `json:"base_price_bdt"`
	SellPriceBDT  decimal.Decimal `json:"sell_price_bdt"`
	ImageURL      string          `json:"image_url"`
	SourceLink    string          `json:"source_link"`
	IsActive      bool            `json:"is_active"`
	VariantGroups []VariantGroup  `json:"variant_groups"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// VariantGroup is a product's color-specific bundle of sizes, an optional
// price override and per-size stock counts. Quantities keys are size labels;
// a size missing from Quantities counts as zero stock.
type VariantGroup struct {
	ID                int              `json:"id"`
	ProductID         int              `json:"product_id"`
	Color             string           `json:"color"`
	Sizes             []string         `json:"sizes"`
	Quantities        map[string]int   `json:"quantities"`
	SellPriceOverride *decimal.Decimal `json:"sell_price_override"`
	ImageURL          string           `json:"image_url"`
}

// SellPrice resolves the effective sell price for this group, falling back
// to the product price when no override is set.
func (p *Product) SellPrice(color string) decimal.Decimal {
	for _, vg := range p.VariantGroups {
		if strings.EqualFold(vg.Color, color) && vg.SellPriceOverride != nil {
			return *vg.SellPriceOverride
		}
	}
	return p.SellPriceBDT
}
