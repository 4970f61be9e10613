package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is the global database connection
var DB *sql.DB

// Config holds database configuration
type Config struct {
	Path string
}

// Open initializes the database connection and runs migrations
func Open(cfg Config) error {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	var err error
	DB, err = sql.Open("sqlite", cfg.Path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// migrate runs all database migrations
func migrate() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if err := runMigration(m); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}

	return nil
}

type migration struct {
	name string
	up   string
}

func runMigration(m migration) error {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", m.name).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Already applied
	}

	if _, err := DB.Exec(m.up); err != nil {
		return err
	}

	_, err = DB.Exec("INSERT INTO migrations (name) VALUES (?)", m.name)
	return err
}

var migrations = []migration{
	{
		name: "001_create_roles_permissions",
		up: `
			CREATE TABLE permissions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				code TEXT NOT NULL UNIQUE,
				description TEXT NOT NULL DEFAULT ''
			);
			CREATE INDEX idx_permissions_code ON permissions(code);

			CREATE TABLE roles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE
			);

			CREATE TABLE role_permissions (
				role_id INTEGER NOT NULL,
				permission_id INTEGER NOT NULL,
				PRIMARY KEY (role_id, permission_id),
				FOREIGN KEY (role_id) REFERENCES roles(id) ON DELETE CASCADE,
				FOREIGN KEY (permission_id) REFERENCES permissions(id) ON DELETE CASCADE
			);

			-- Provisioned permission vocabulary
			INSERT INTO permissions (code, description) VALUES
				('view_dashboard', 'Access the dashboard'),
				('view_records', 'View record listings'),
				('add_record', 'Create records'),
				('edit_record', 'Modify records'),
				('delete_record', 'Remove records'),
				('manage_users', 'Manage user accounts'),
				('manage_dashboard', 'Manage dashboard content and audit trail');

			-- Provisioned roles
			INSERT INTO roles (name) VALUES ('Administrator'), ('Staff'), ('Viewer');

			INSERT INTO role_permissions (role_id, permission_id)
				SELECT r.id, p.id FROM roles r, permissions p WHERE r.name = 'Administrator';
			INSERT INTO role_permissions (role_id, permission_id)
				SELECT r.id, p.id FROM roles r, permissions p
				WHERE r.name = 'Staff' AND p.code IN ('view_dashboard', 'view_records', 'add_record', 'edit_record');
			INSERT INTO role_permissions (role_id, permission_id)
				SELECT r.id, p.id FROM roles r, permissions p
				WHERE r.name = 'Viewer' AND p.code IN ('view_dashboard', 'view_records');
		`,
	},
	{
		name: "002_create_users",
		up: `
			CREATE TABLE users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL UNIQUE,
				display_name TEXT NOT NULL DEFAULT '',
				password_hash TEXT NOT NULL,
				role_id INTEGER,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				last_login DATETIME,
				FOREIGN KEY (role_id) REFERENCES roles(id) ON DELETE SET NULL
			);
			CREATE INDEX idx_users_username ON users(username);
		`,
	},
	{
		name: "003_create_sessions",
		up: `
			CREATE TABLE sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL UNIQUE,
				token TEXT NOT NULL UNIQUE,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				expires_at DATETIME NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_sessions_token ON sessions(token);
		`,
	},
	{
		name: "004_create_audit_logs",
		up: `
			CREATE TABLE audit_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER,
				username TEXT,
				app TEXT NOT NULL,
				action TEXT NOT NULL,
				method TEXT NOT NULL,
				path TEXT NOT NULL,
				request_data TEXT,
				response_data TEXT,
				status_code INTEGER NOT NULL,
				ip_address TEXT,
				timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
			);
			CREATE INDEX idx_audit_logs_timestamp ON audit_logs(timestamp);
			CREATE INDEX idx_audit_logs_user_id ON audit_logs(user_id);
		`,
	},
	{
		name: "005_create_settings",
		up: `
			CREATE TABLE settings (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			INSERT INTO settings (key, value) VALUES
				('session.ttl_hours', '12'),
				('login.max_attempts', '5');
		`,
	},
	{
		name: "006_create_holders",
		up: `
			CREATE TABLE holders (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				contact_number TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL DEFAULT '',
				address TEXT NOT NULL DEFAULT '',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_holders_name ON holders(name);
		`,
	},
	{
		name: "007_create_niches",
		up: `
			CREATE TABLE niches (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				holder_id INTEGER NOT NULL,
				location TEXT NOT NULL,
				max_deceased INTEGER NOT NULL DEFAULT 4,
				status TEXT NOT NULL DEFAULT 'Available',
				date_of_availment DATE NOT NULL,
				date_of_expiry DATE NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (holder_id) REFERENCES holders(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_niches_holder_id ON niches(holder_id);
			CREATE INDEX idx_niches_status ON niches(status);
			CREATE INDEX idx_niches_date_of_expiry ON niches(date_of_expiry);
		`,
	},
	{
		name: "008_create_deceased",
		up: `
			CREATE TABLE deceased (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				niche_id INTEGER NOT NULL,
				name TEXT NOT NULL,
				slot TEXT NOT NULL,
				date_of_death DATE,
				interment_date DATE,
				relationship_to_holder TEXT NOT NULL DEFAULT '',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (niche_id) REFERENCES niches(id) ON DELETE CASCADE
			);
			CREATE UNIQUE INDEX idx_deceased_niche_slot ON deceased(niche_id, slot);
			CREATE INDEX idx_deceased_name ON deceased(name);
		`,
	},
	{
		name: "009_create_payments",
		up: `
			CREATE TABLE payments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				payer TEXT NOT NULL,
				amount_due TEXT NOT NULL,
				maintenance_fee TEXT NOT NULL DEFAULT '0',
				amount_paid TEXT NOT NULL DEFAULT '0',
				remaining_balance TEXT NOT NULL DEFAULT '0',
				status TEXT NOT NULL DEFAULT 'Inactive',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_payments_payer ON payments(payer);
			CREATE INDEX idx_payments_status ON payments(status);

			CREATE TABLE payment_details (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				payment_id INTEGER NOT NULL,
				receipt_no TEXT NOT NULL UNIQUE,
				amount TEXT NOT NULL,
				payment_date DATE NOT NULL,
				note TEXT NOT NULL DEFAULT '',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (payment_id) REFERENCES payments(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_payment_details_payment_id ON payment_details(payment_id);
		`,
	},
}
