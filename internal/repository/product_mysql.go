package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/shopspring/decimal"

	"order-dashboard/internal/entity"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a ProductRepository backed by MySQL.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetProducts(ctx context.Context) ([]entity.Product, error) {
	query := `SELECT id, name, code, description, base_price_bdt, sell_price_bdt, image_url, source_link, is_active, created_at, updated_at
		FROM products ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		p := entity.Product{}
		err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Description, &p.BasePriceBDT, &p.SellPriceBDT, &p.ImageURL, &p.SourceLink, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		groups, err := r.variantGroups(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].VariantGroups = groups
	}

	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT id, name, code, description, base_price_bdt, sell_price_bdt, image_url, source_link, is_active, created_at, updated_at
		FROM products WHERE id = ?`

	p := &entity.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Code, &p.Description, &p.BasePriceBDT, &p.SellPriceBDT, &p.ImageURL, &p.SourceLink, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}

	p.VariantGroups, err = r.variantGroups(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO products (name, code, description, base_price_bdt, sell_price_bdt, image_url, source_link, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, query, product.Name, product.Code, product.Description, product.BasePriceBDT, product.SellPriceBDT, product.ImageURL, product.SourceLink, product.IsActive)
	if err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}

	productID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := insertVariantGroups(ctx, tx, int(productID), product.VariantGroups); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetProductByID(ctx, int(productID))
}

// UpdateProduct rewrites the product row and replaces its variant groups
// wholesale, mirroring how items are replaced on orders.
func (r *productRepository) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	query := `UPDATE products SET name = ?, code = ?, description = ?, base_price_bdt = ?, sell_price_bdt = ?, image_url = ?, source_link = ?, is_active = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, query, product.Name, product.Code, product.Description, product.BasePriceBDT, product.SellPriceBDT, product.ImageURL, product.SourceLink, product.IsActive, product.ID)
	if err != nil {
		tx.Rollback()
		return nil, translateErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is 0 both for a missing row and a no-op update;
		// confirm existence before reporting not found.
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ?`, product.ID).Scan(&exists); err != nil {
			tx.Rollback()
			return nil, translateErr(err)
		}
	}

	deleteQuery := `DELETE FROM variant_groups WHERE product_id = ?`
	if _, err := tx.ExecContext(ctx, deleteQuery, product.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := insertVariantGroups(ctx, tx, product.ID, product.VariantGroups); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetProductByID(ctx, product.ID)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM variant_groups WHERE product_id = ?`, id); err != nil {
		tx.Rollback()
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		tx.Rollback()
		return translateErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	return tx.Commit()
}

func (r *productRepository) variantGroups(ctx context.Context, productID int) ([]entity.VariantGroup, error) {
	query := `SELECT id, product_id, color, sizes, quantities, sell_price_override, image_url FROM variant_groups WHERE product_id = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []entity.VariantGroup
	for rows.Next() {
		vg := entity.VariantGroup{}
		var sizesJSON, quantitiesJSON []byte
		var override sql.NullString
		err := rows.Scan(&vg.ID, &vg.ProductID, &vg.Color, &sizesJSON, &quantitiesJSON, &override, &vg.ImageURL)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(sizesJSON, &vg.Sizes); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(quantitiesJSON, &vg.Quantities); err != nil {
			return nil, err
		}
		if override.Valid {
			d, err := decimal.NewFromString(override.String)
			if err != nil {
				return nil, err
			}
			vg.SellPriceOverride = &d
		}
		groups = append(groups, vg)
	}

	return groups, rows.Err()
}

func insertVariantGroups(ctx context.Context, tx *sql.Tx, productID int, groups []entity.VariantGroup) error {
	if len(groups) == 0 {
		return nil
	}

	query := `INSERT INTO variant_groups (product_id, color, sizes, quantities, sell_price_override, image_url) VALUES `

	var values []interface{}
	for _, vg := range groups {
		sizes := vg.Sizes
		if sizes == nil {
			sizes = []string{}
		}
		quantities := vg.Quantities
		if quantities == nil {
			quantities = map[string]int{}
		}
		sizesJSON, err := json.Marshal(sizes)
		if err != nil {
			return err
		}
		quantitiesJSON, err := json.Marshal(quantities)
		if err != nil {
			return err
		}
		var override interface{}
		if vg.SellPriceOverride != nil {
			override = vg.SellPriceOverride.String()
		}
		query += "(?, ?, ?, ?, ?, ?),"
		values = append(values, productID, vg.Color, sizesJSON, quantitiesJSON, override, vg.ImageURL)
	}

	query = query[:len(query)-1]

	_, err := tx.ExecContext(ctx, query, values...)
	return err
}
