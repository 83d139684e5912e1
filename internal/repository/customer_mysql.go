package repository

import (
	"context"
	"database/sql"

	"order-dashboard/internal/entity"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a CustomerRepository backed by MySQL.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, phone, email, address, city, zone, area, postal_code, country, website, total_orders, created_at, updated_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (*entity.Customer, error) {
	c := &entity.Customer{}
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.City, &c.Zone, &c.Area, &c.PostalCode, &c.Country, &c.Website, &c.TotalOrders, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return c, nil
}

func (r *customerRepository) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}

	return customers, rows.Err()
}

func (r *customerRepository) GetCustomerByID(ctx context.Context, id int) (*entity.Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
}

func (r *customerRepository) GetCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = ?`, phone))
}

func (r *customerRepository) CreateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	query := `INSERT INTO customers (name, phone, email, address, city, zone, area, postal_code, country, website, total_orders)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`

	res, err := r.db.ExecContext(ctx, query, customer.Name, customer.Phone, customer.Email, customer.Address, customer.City, customer.Zone, customer.Area, customer.PostalCode, customer.Country, customer.Website)
	if err != nil {
		return nil, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetCustomerByID(ctx, int(id))
}

func (r *customerRepository) UpdateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	query := `UPDATE customers SET name = ?, phone = ?, email = ?, address = ?, city = ?, zone = ?, area = ?, postal_code = ?, country = ?, website = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, customer.Name, customer.Phone, customer.Email, customer.Address, customer.City, customer.Zone, customer.Area, customer.PostalCode, customer.Country, customer.Website, customer.ID)
	if err != nil {
		return nil, translateErr(err)
	}

	return r.GetCustomerByID(ctx, customer.ID)
}

func (r *customerRepository) DeleteCustomer(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
