package service

import (
	"fmt"
	"strings"

	"order-dashboard/internal/entity"
)

// StockCheck is the result of checking a requested quantity against a
// product's per-variant stock. The check is advisory at read time (stock
// is not reserved) but the order coordinator treats a failed check as a
// hard gate: the whole mutation aborts before any write.
type StockCheck struct {
	Available    bool
	AvailableQty int
	Reason       string
}

// StockCheckError carries enough detail for the caller to surface an
// actionable message: which product, what was available.
type StockCheckError struct {
	ProductID    int
	AvailableQty int
	Reason       string
}

func (e *StockCheckError) Error() string { return e.Reason }

// CheckAvailability decides whether requestedQty of (color, size) can be
// fulfilled from the product's variant stock.
//
// Products without variant groups, or items that carry no color/size
// snapshot, predate per-variant stock tracking and always pass.
func CheckAvailability(product *entity.Product, color, size string, requestedQty int) StockCheck {
	if len(product.VariantGroups) == 0 || color == "" || size == "" {
		return StockCheck{Available: true, AvailableQty: legacyQty}
	}

	var group *entity.VariantGroup
	for i := range product.VariantGroups {
		if strings.EqualFold(product.VariantGroups[i].Color, color) {
			group = &product.VariantGroups[i]
			break
		}
	}
	if group == nil {
		return StockCheck{
			AvailableQty: 0,
			Reason:       fmt.Sprintf("Color '%s' not found for product", color),
		}
	}

	sizeListed := false
	for _, s := range group.Sizes {
		if s == size {
			sizeListed = true
			break
		}
	}
	if !sizeListed {
		return StockCheck{
			AvailableQty: 0,
			Reason:       fmt.Sprintf("Size '%s' not available for color '%s'", size, color),
		}
	}

	// a size listed without a quantities entry counts as zero stock
	availableQty := group.Quantities[size]

	if requestedQty > availableQty {
		return StockCheck{
			AvailableQty: availableQty,
			Reason:       fmt.Sprintf("Only %d items available for %s (%s, %s)", availableQty, product.Name, color, size),
		}
	}

	return StockCheck{Available: true, AvailableQty: availableQty}
}

// legacyQty is the reported availability for unvaried legacy items, which
// have no stock ceiling.
const legacyQty = 9999
