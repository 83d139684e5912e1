package migrations

import (
	"database/sql"
	"time"
)

// AutoMigrate creates every table the dashboard needs if it does not
// exist. Statements are retried because the database container may still
// be settling when the service starts.
func AutoMigrate(retries int, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			code VARCHAR(100) NOT NULL UNIQUE,
			description TEXT NOT NULL,
			base_price_bdt DECIMAL(12,2) NOT NULL,
			sell_price_bdt DECIMAL(12,2) NOT NULL,
			image_url VARCHAR(500) NOT NULL DEFAULT '',
			source_link VARCHAR(500) NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS variant_groups (
			id INT AUTO_INCREMENT PRIMARY KEY,
			product_id INT NOT NULL,
			color VARCHAR(100) NOT NULL,
			sizes JSON NOT NULL,
			quantities JSON NOT NULL,
			sell_price_override DECIMAL(12,2) NULL,
			image_url VARCHAR(500) NOT NULL DEFAULT '',
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS customers (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL DEFAULT '',
			address VARCHAR(500) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			zone VARCHAR(100) NOT NULL DEFAULT '',
			area VARCHAR(100) NOT NULL DEFAULT '',
			postal_code VARCHAR(20) NOT NULL DEFAULT '',
			country VARCHAR(100) NOT NULL DEFAULT '',
			website VARCHAR(255) NOT NULL DEFAULT '',
			total_orders INT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			customer_id INT NOT NULL,
			status VARCHAR(20) NOT NULL,
			address VARCHAR(500) NOT NULL,
			delivery_charge_bdt DECIMAL(12,2) NOT NULL DEFAULT 0,
			advance_bdt DECIMAL(12,2) NOT NULL DEFAULT 0,
			due_bdt DECIMAL(12,2) NOT NULL DEFAULT 0,
			total_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
			total_items INT NOT NULL DEFAULT 0,
			pathao_city_name VARCHAR(100) NOT NULL DEFAULT '',
			pathao_zone_name VARCHAR(100) NOT NULL DEFAULT '',
			pathao_area_name VARCHAR(100) NOT NULL DEFAULT '',
			pathao_tracking_code VARCHAR(100) NOT NULL DEFAULT '',
			pathao_status VARCHAR(100) NOT NULL DEFAULT '',
			last_synced_at TIMESTAMP NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			FOREIGN KEY (customer_id) REFERENCES customers(id)
		);`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			product_name_snapshot VARCHAR(255) NOT NULL,
			image_url_snapshot VARCHAR(500) NOT NULL DEFAULT '',
			color_snapshot VARCHAR(100) NOT NULL DEFAULT '',
			size_snapshot VARCHAR(100) NOT NULL DEFAULT '',
			qty INT NOT NULL,
			sell_price_bdt_snapshot DECIMAL(12,2) NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			FOREIGN KEY (product_id) REFERENCES products(id)
		);`,
		`CREATE TABLE IF NOT EXISTS batches (
			id INT AUTO_INCREMENT PRIMARY KEY,
			note TEXT NOT NULL,
			created_by VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS batch_orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			batch_id INT NOT NULL,
			order_id INT NOT NULL,
			UNIQUE KEY batch_order (batch_id, order_id),
			FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL
		);`,
	}

	for _, query := range queries {
		_, err := db.Exec(query)
		if err != nil {
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}

	return nil
}
