package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known order statuses. No
// transition graph is enforced; status is a flat label set by the caller.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID         int         `json:"id"`
	CustomerID int         `json:"customer_id"`
	Customer   *Customer   `json:"customer,omitempty"`
	Items      []OrderItem `json:"items"`
	Status     OrderStatus `json:"status"`
	Address    string      `json:"address"`

	DeliveryChargeBDT decimal.Decimal `json:"delivery_charge_bdt"`
	AdvanceBDT        decimal.Decimal `json:"advance_bdt"`
	DueBDT            decimal.Decimal `json:"due_bdt"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	TotalItems        int             `json:"total_items"`

	// Courier fields are opaque pass-through data from the shipping
	// integration; stored but never interpreted.
	PathaoCityName     string     `json:"pathao_city_name"`
	PathaoZoneName     string     `json:"pathao_zone_name"`
	PathaoAreaName     string     `json:"pathao_area_name"`
	PathaoTrackingCode string     `json:"pathao_tracking_code"`
	PathaoStatus       string     `json:"pathao_status"`
	LastSyncedAt       *time.Time `json:"last_synced_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a snapshot frozen at order time. Catalog edits after the
// order is placed never change what the order displays.
type OrderItem struct {
	ID                   int             `json:"id"`
	OrderID              int             `json:"order_id"`
	ProductID            int             `json:"product_id"`
	ProductNameSnapshot  string          `json:"product_name_snapshot"`
	ImageURLSnapshot     string          `json:"image_url_snapshot"`
	ColorSnapshot        string          `json:"color_snapshot"`
	SizeSnapshot         string          `json:"size_snapshot"`
	Qty                  int             `json:"qty"`
	SellPriceBDTSnapshot decimal.Decimal `json:"sell_price_bdt_snapshot"`
}

// LineTotal is the snapshot price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.SellPriceBDTSnapshot.Mul(decimal.NewFromInt(int64(i.Qty)))
}
