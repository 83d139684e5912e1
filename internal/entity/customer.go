package entity

import "time"

type Customer struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Zone        string    `json:"zone"`
	Area        string    `json:"area"`
	PostalCode  string    `json:"postal_code"`
	Country     string    `json:"country"`
	Website     string    `json:"website"`
	TotalOrders int       `json:"total_orders"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
