package repos

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	// Seed catalog if DB is empty and make sure the admin account exists
	// (both idempotent; safe to run every start).
	if err := seedSweetsIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedAdmin(db); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates all tables. Exported for test fixtures.
func EnsureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));

-- Sweets (catalog)
CREATE TABLE IF NOT EXISTS sweets(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  description TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_sweets_name     ON sweets(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_sweets_category ON sweets(LOWER(category));

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','confirmed','shipped','delivered','cancelled')),
  delivery_address TEXT NOT NULL DEFAULT '',
  phone_number TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  customer_name TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Order line items. sweet_id is intentionally not a foreign key: items keep a
-- snapshot of the sweet and must outlive catalog deletions.
CREATE TABLE IF NOT EXISTS order_items(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  sweet_id TEXT NOT NULL,
  sweet_name TEXT NOT NULL,
  unit_label TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price NUMERIC NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedSweetsIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM sweets`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting starter catalog")

	type s struct {
		Name, Category, Desc, Image string
		Price                       float64
		Qty                         int
	}
	sweets := []s{
		{"Gulab Jamun", "Mithai", "Soft round dumplings soaked in rose-flavored sugar syrup", "/images/gulab-jamun.webp", 120, 25},
		{"Jalebi", "Mithai", "Crispy spiral-shaped sweet soaked in sugar syrup", "/images/jalebi.jpeg", 80, 50},
		{"Rasgulla", "Bengali Sweet", "Spongy white balls made from chhana in sugar syrup", "/images/rasgulla.jpg", 100, 30},
		{"Kaju Katli", "Dry Fruit Sweet", "Diamond-shaped cashew fudge with silver leaf", "/images/kaju-katli.jpg", 450, 15},
		{"Laddu", "Traditional", "Round sweet balls made from gram flour and ghee", "/images/laddu.jpeg", 60, 40},
		{"Barfi", "Milk Sweet", "Rich milk-based sweet in various flavors", "/images/barfi.jpg", 200, 0},
		{"Sandesh", "Bengali Sweet", "Delicate sweet made from fresh paneer", "/images/sandesh.avif", 150, 20},
		{"Rasmalai", "Premium", "Creamy cottage cheese patties in cardamom milk", "/images/rasmalai.jpg", 180, 35},
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()
	for _, x := range sweets {
		if _, err := tx.Exec(`
			INSERT INTO sweets(id, name, category, price, quantity, description, image)
			VALUES(?, ?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), x.Name, x.Category, x.Price, x.Qty, x.Desc, x.Image); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedAdmin ensures one ADMIN account exists (idempotent).
func seedAdmin(db *sqlx.DB) error {
	pass := "admin123"
	h, err := bcrypt.GenerateFromPassword([]byte(pass), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id, email, username, password_hash, is_admin)
		VALUES(?, 'admin@sweetshop.com', 'admin', ?, 1)
		ON CONFLICT(email) DO NOTHING
	`, uuid.NewString(), string(h))
	return err
}
