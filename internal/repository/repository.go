package repository

import (
	"context"
	"errors"
	"time"

	"order-dashboard/internal/entity"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateCode = errors.New("code already exists")
	ErrBadReference  = errors.New("invalid reference")
)

type ProductRepository interface {
	GetProducts(ctx context.Context) ([]entity.Product, error)
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

type CustomerRepository interface {
	GetCustomers(ctx context.Context) ([]entity.Customer, error)
	GetCustomerByID(ctx context.Context, id int) (*entity.Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	CreateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
	UpdateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
	DeleteCustomer(ctx context.Context, id int) error
}

// OrderRepository persists orders together with their snapshot items.
// CreateOrder and UpdateOrder are atomic units: the order row, the full
// item set and (on create) the customer order counter land together or
// not at all.
type OrderRepository interface {
	GetOrders(ctx context.Context) ([]entity.Order, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
	CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	// UpdateOrder rewrites the order's scalar fields and replaces the
	// stored item set with order.Items. Items are never patched in place.
	UpdateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	// UpdateOrderTracking stamps courier fields only, leaving items and
	// money untouched. Used by the Pathao sync path.
	UpdateOrderTracking(ctx context.Context, id int, trackingCode, status string, syncedAt time.Time) error
	DeleteOrder(ctx context.Context, id int) error
}

type BatchRepository interface {
	GetBatches(ctx context.Context) ([]entity.Batch, error)
	GetBatchByID(ctx context.Context, id int) (*entity.Batch, error)
	CreateBatch(ctx context.Context, batch *entity.Batch) (*entity.Batch, error)
	UpdateBatch(ctx context.Context, batch *entity.Batch) (*entity.Batch, error)
	DeleteBatch(ctx context.Context, id int) error
}

type UserRepository interface {
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUserByEmailAndPassword(ctx context.Context, email, password string) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
}
