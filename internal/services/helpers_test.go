package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"sweetshop/internal/domain"
	"sweetshop/internal/notify"
	"sweetshop/internal/repos"
	"sweetshop/internal/services"
)

// memdb opens an in-memory database with the real schema. A single pooled
// connection keeps every query on the same :memory: instance.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *sqlx.DB, id, email, username string, admin bool) *domain.User {
	t.Helper()
	if _, err := db.Exec(`
		INSERT INTO users(id, email, username, password_hash, is_admin)
		VALUES(?, ?, ?, 'x', ?)
	`, id, email, username, admin); err != nil {
		t.Fatal(err)
	}
	return &domain.User{ID: id, Email: email, Username: username, IsAdmin: admin}
}

func seedSweet(t *testing.T, db *sqlx.DB, id, name string, price float64, qty int) {
	t.Helper()
	if _, err := db.Exec(`
		INSERT INTO sweets(id, name, category, price, quantity)
		VALUES(?, ?, 'Mithai', ?, ?)
	`, id, name, price, qty); err != nil {
		t.Fatal(err)
	}
}

func sweetQty(t *testing.T, db *sqlx.DB, id string) int {
	t.Helper()
	var q int
	if err := db.Get(&q, `SELECT quantity FROM sweets WHERE id = ?`, id); err != nil {
		t.Fatal(err)
	}
	return q
}

func count(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
		t.Fatal(err)
	}
	return n
}

// fakeNotifier records events and can be forced to fail.
type fakeNotifier struct {
	events []notify.Event
	err    error
}

func (f *fakeNotifier) Send(_ context.Context, ev notify.Event) (notify.Outcome, error) {
	f.events = append(f.events, ev)
	if f.err != nil {
		return notify.Failed, f.err
	}
	return notify.Delivered, nil
}

func newOrderService(db *sqlx.DB, n notify.Notifier) *services.OrderService {
	return services.NewOrderService(repos.NewOrderRepo(db), n)
}
