package repository

import (
	"context"
	"database/sql"
	"time"

	"order-dashboard/internal/entity"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates an OrderRepository backed by MySQL.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `o.id, o.customer_id, o.status, o.address,
	o.delivery_charge_bdt, o.advance_bdt, o.due_bdt, o.total_amount, o.total_items,
	o.pathao_city_name, o.pathao_zone_name, o.pathao_area_name, o.pathao_tracking_code, o.pathao_status, o.last_synced_at,
	o.created_at, o.updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*entity.Order, error) {
	o := &entity.Order{}
	var lastSynced sql.NullTime
	err := row.Scan(&o.ID, &o.CustomerID, &o.Status, &o.Address,
		&o.DeliveryChargeBDT, &o.AdvanceBDT, &o.DueBDT, &o.TotalAmount, &o.TotalItems,
		&o.PathaoCityName, &o.PathaoZoneName, &o.PathaoAreaName, &o.PathaoTrackingCode, &o.PathaoStatus, &lastSynced,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	if lastSynced.Valid {
		t := lastSynced.Time
		o.LastSyncedAt = &t
	}
	return o, nil
}

func (r *orderRepository) GetOrders(ctx context.Context) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders o ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadRelations(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = ?`, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadRelations(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

// CreateOrder writes the order row, its snapshot items and the customer
// order counter as a single transaction. A failure anywhere rolls back
// everything.
func (r *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	orderQuery := `INSERT INTO orders (customer_id, status, address, delivery_charge_bdt, advance_bdt, due_bdt, total_amount, total_items,
		pathao_city_name, pathao_zone_name, pathao_area_name, pathao_tracking_code, pathao_status, last_synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, order.CustomerID, order.Status, order.Address,
		order.DeliveryChargeBDT, order.AdvanceBDT, order.DueBDT, order.TotalAmount, order.TotalItems,
		order.PathaoCityName, order.PathaoZoneName, order.PathaoAreaName, order.PathaoTrackingCode, order.PathaoStatus, order.LastSyncedAt)
	if err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := insertOrderItems(ctx, tx, int(orderID), order.Items); err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}

	// The counter increment belongs to the same atomic unit as the order.
	counterQuery := `UPDATE customers SET total_orders = total_orders + 1 WHERE id = ?`
	counterRes, err := tx.ExecContext(ctx, counterQuery, order.CustomerID)
	if err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}
	if n, _ := counterRes.RowsAffected(); n == 0 {
		tx.Rollback()
		return nil, ErrBadReference
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetOrderByID(ctx, int(orderID))
}

// UpdateOrder rewrites the order's scalar fields and fully replaces its
// items: delete then reinsert, so the stored set always mirrors the last
// submitted list.
func (r *orderRepository) UpdateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	orderQuery := `UPDATE orders SET status = ?, address = ?, delivery_charge_bdt = ?, advance_bdt = ?, due_bdt = ?, total_amount = ?, total_items = ?,
		pathao_city_name = ?, pathao_zone_name = ?, pathao_area_name = ?, pathao_tracking_code = ?, pathao_status = ?, last_synced_at = ?
		WHERE id = ?`
	_, err = tx.ExecContext(ctx, orderQuery, order.Status, order.Address,
		order.DeliveryChargeBDT, order.AdvanceBDT, order.DueBDT, order.TotalAmount, order.TotalItems,
		order.PathaoCityName, order.PathaoZoneName, order.PathaoAreaName, order.PathaoTrackingCode, order.PathaoStatus, order.LastSyncedAt,
		order.ID)
	if err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, order.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := insertOrderItems(ctx, tx, order.ID, order.Items); err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetOrderByID(ctx, order.ID)
}

func (r *orderRepository) UpdateOrderTracking(ctx context.Context, id int, trackingCode, status string, syncedAt time.Time) error {
	query := `UPDATE orders SET pathao_tracking_code = ?, pathao_status = ?, last_synced_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, trackingCode, status, syncedAt, id)
	if err != nil {
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	return tx.Commit()
}

func (r *orderRepository) loadRelations(ctx context.Context, order *entity.Order) error {
	customer, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, order.CustomerID))
	if err != nil {
		return err
	}
	order.Customer = customer

	itemQuery := `SELECT id, order_id, product_id, product_name_snapshot, image_url_snapshot, color_snapshot, size_snapshot, qty, sell_price_bdt_snapshot
		FROM order_items WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, itemQuery, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = nil
	for rows.Next() {
		item := entity.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductNameSnapshot, &item.ImageURLSnapshot, &item.ColorSnapshot, &item.SizeSnapshot, &item.Qty, &item.SellPriceBDTSnapshot)
		if err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}

	return rows.Err()
}

func insertOrderItems(ctx context.Context, tx *sql.Tx, orderID int, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `INSERT INTO order_items (order_id, product_id, product_name_snapshot, image_url_snapshot, color_snapshot, size_snapshot, qty, sell_price_bdt_snapshot)
		VALUES `

	var values []interface{}
	for _, item := range items {
		query += "(?, ?, ?, ?, ?, ?, ?, ?),"
		values = append(values, orderID, item.ProductID, item.ProductNameSnapshot, item.ImageURLSnapshot, item.ColorSnapshot, item.SizeSnapshot, item.Qty, item.SellPriceBDTSnapshot)
	}

	query = query[:len(query)-1]

	_, err := tx.ExecContext(ctx, query, values...)
	return err
}
