package entity

import "time"

// Batch is a named grouping of order ids for fulfillment or export.
type Batch struct {
	ID        int       `json:"id"`
	Note      string    `json:"note"`
	CreatedBy string    `json:"created_by"`
	OrderIDs  []int     `json:"order_ids"`
	CreatedAt time.Time `json:"created_at"`
}
