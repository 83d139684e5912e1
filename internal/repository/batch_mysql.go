package repository

import (
	"context"
	"database/sql"

	"order-dashboard/internal/entity"
)

type batchRepository struct {
	db *sql.DB
}

// NewBatchRepository creates a BatchRepository backed by MySQL.
func NewBatchRepository(db *sql.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) GetBatches(ctx context.Context) ([]entity.Batch, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, note, created_by, created_at FROM batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []entity.Batch
	for rows.Next() {
		b := entity.Batch{}
		if err := rows.Scan(&b.ID, &b.Note, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range batches {
		ids, err := r.orderIDs(ctx, batches[i].ID)
		if err != nil {
			return nil, err
		}
		batches[i].OrderIDs = ids
	}

	return batches, nil
}

func (r *batchRepository) GetBatchByID(ctx context.Context, id int) (*entity.Batch, error) {
	b := &entity.Batch{}
	err := r.db.QueryRowContext(ctx, `SELECT id, note, created_by, created_at FROM batches WHERE id = ?`, id).
		Scan(&b.ID, &b.Note, &b.CreatedBy, &b.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}

	b.OrderIDs, err = r.orderIDs(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (r *batchRepository) CreateBatch(ctx context.Context, batch *entity.Batch) (*entity.Batch, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO batches (note, created_by) VALUES (?, ?)`, batch.Note, batch.CreatedBy)
	if err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}

	batchID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := insertBatchOrders(ctx, tx, int(batchID), batch.OrderIDs); err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetBatchByID(ctx, int(batchID))
}

// UpdateBatch replaces the batch's order-id set wholesale, like order
// items: delete then reinsert.
func (r *batchRepository) UpdateBatch(ctx context.Context, batch *entity.Batch) (*entity.Batch, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE batches SET note = ? WHERE id = ?`, batch.Note, batch.ID); err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM batch_orders WHERE batch_id = ?`, batch.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := insertBatchOrders(ctx, tx, batch.ID, batch.OrderIDs); err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetBatchByID(ctx, batch.ID)
}

func (r *batchRepository) DeleteBatch(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM batch_orders WHERE batch_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, id)
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

func (r *batchRepository) orderIDs(ctx context.Context, batchID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT order_id FROM batch_orders WHERE batch_id = ? ORDER BY order_id`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func insertBatchOrders(ctx context.Context, tx *sql.Tx, batchID int, orderIDs []int) error {
	if len(orderIDs) == 0 {
		return nil
	}

	query := `INSERT INTO batch_orders (batch_id, order_id) VALUES `

	var values []interface{}
	for _, orderID := range orderIDs {
		query += "(?, ?),"
		values = append(values, batchID, orderID)
	}

	query = query[:len(query)-1]

	_, err := tx.ExecContext(ctx, query, values...)
	return err
}
