package database

import "database/sql"

// schemaStatements contains the DDL to set up the database schema.  The
// statements run on startup so a fresh database is usable without a separate
// migration step.  Ordering matters: referenced tables must be created before
// the tables that declare foreign keys against them.  Every statement is
// idempotent, so running the migration against an existing schema is a no-op.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		role          VARCHAR(16)     NOT NULL DEFAULT 'STAFF',
		is_active     TINYINT(1)      NOT NULL DEFAULT 1,
		created_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS customers (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		full_name  VARCHAR(255)    NOT NULL,
		email      VARCHAR(255)    NOT NULL,
		phone      VARCHAR(32)     NOT NULL DEFAULT '',
		created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_customers_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS rooms (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		room_number VARCHAR(16)     NOT NULL,
		room_type   VARCHAR(64)     NOT NULL,
		rate_cents  BIGINT          NOT NULL,
		status      VARCHAR(16)     NOT NULL DEFAULT 'AVAILABLE',
		created_at  TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_rooms_number (room_number),
		KEY idx_rooms_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		customer_id BIGINT UNSIGNED NOT NULL,
		room_id     BIGINT UNSIGNED NOT NULL,
		check_in    DATETIME        NOT NULL,
		check_out   DATETIME        NOT NULL,
		status      VARCHAR(16)     NOT NULL DEFAULT 'BOOKED',
		created_at  TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_reservations_room_window (room_id, check_in, check_out),
		KEY idx_reservations_customer (customer_id),
		KEY idx_reservations_status (status),
		CONSTRAINT fk_reservations_customer FOREIGN KEY (customer_id) REFERENCES customers (id),
		CONSTRAINT fk_reservations_room FOREIGN KEY (room_id) REFERENCES rooms (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		reservation_id BIGINT UNSIGNED NOT NULL,
		amount_cents   BIGINT          NOT NULL,
		kind           VARCHAR(16)     NOT NULL,
		reference      VARCHAR(64)     NOT NULL DEFAULT '',
		created_at     TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_transactions_reservation (reservation_id),
		CONSTRAINT fk_transactions_reservation FOREIGN KEY (reservation_id) REFERENCES reservations (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS room_service_items (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name        VARCHAR(128)    NOT NULL,
		description VARCHAR(512)    NOT NULL DEFAULT '',
		price_cents BIGINT          NOT NULL,
		created_at  TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_room_service_items_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS room_service_orders (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		reservation_id BIGINT UNSIGNED NOT NULL,
		status         VARCHAR(16)     NOT NULL DEFAULT 'PENDING',
		reference      VARCHAR(64)     NOT NULL DEFAULT '',
		created_at     TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_room_service_orders_reservation (reservation_id),
		CONSTRAINT fk_room_service_orders_reservation FOREIGN KEY (reservation_id) REFERENCES reservations (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// unit_price_cents is copied from the catalog at order time so later menu
	// price changes never alter a bill that was already incurred.
	`CREATE TABLE IF NOT EXISTS room_service_order_lines (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		order_id         BIGINT UNSIGNED NOT NULL,
		item_id          BIGINT UNSIGNED NOT NULL,
		quantity         INT             NOT NULL,
		unit_price_cents BIGINT          NOT NULL,
		PRIMARY KEY (id),
		KEY idx_order_lines_order (order_id),
		KEY idx_order_lines_item (item_id),
		CONSTRAINT fk_order_lines_order FOREIGN KEY (order_id) REFERENCES room_service_orders (id) ON DELETE CASCADE,
		CONSTRAINT fk_order_lines_item FOREIGN KEY (item_id) REFERENCES room_service_items (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate executes the schema setup.  MySQL does not allow multiple
// statements per Exec on a default connection, so each table is created with
// its own call.
func Migrate(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
