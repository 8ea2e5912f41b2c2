package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sweetshop/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, user_id, total_amount, status, delivery_address, phone_number,
  email, customer_name, notes, created_at, COALESCE(updated_at,'') AS updated_at`

// OrderItemRequest is one requested line item at order creation time.
type OrderItemRequest struct {
	SweetID   string  `json:"sweet_id"`
	SweetName string  `json:"sweet_name"`
	UnitLabel string  `json:"unit_label"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateWithItems persists the order, its line items and the stock
// decrements in one transaction. Line items are processed in submission
// order; a missing sweet or insufficient stock aborts the whole transaction,
// so no order, item or quantity change survives a failed request.
func (r *OrderRepo) CreateWithItems(o *domain.Order, items []OrderItemRequest) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.Status = domain.StatusPending

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, user_id, total_amount, status, delivery_address, phone_number, email, customer_name, notes)
	  VALUES
	    (?,  ?,       ?,            ?,      ?,                ?,            ?,     ?,             ?)
	`, o.ID, o.UserID, o.TotalAmount, o.Status, o.DeliveryAddress, o.PhoneNumber, o.Email, o.CustomerName, o.Notes); err != nil {
		return err
	}

	for _, it := range items {
		var s struct {
			Name     string `db:"name"`
			Quantity int    `db:"quantity"`
		}
		if err := tx.Get(&s, `SELECT name, quantity FROM sweets WHERE id = ?`, it.SweetID); err != nil {
			if err == sql.ErrNoRows {
				return &domain.NotFoundError{Kind: "sweet", ID: it.SweetID}
			}
			return err
		}
		if d := domain.CheckStock(s.Quantity, it.Quantity); !d.Allowed {
			return &domain.InsufficientStockError{SweetName: s.Name, Available: d.Available, Requested: d.Requested}
		}

		if _, err := tx.Exec(`
		  INSERT INTO order_items(id, order_id, sweet_id, sweet_name, unit_label, quantity, price)
		  VALUES(?, ?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), o.ID, it.SweetID, it.SweetName, it.UnitLabel, it.Quantity, it.Price); err != nil {
			return err
		}

		// Guarded decrement; with the check above this can only miss if a
		// concurrent writer drained stock between statements.
		res, err := tx.Exec(`
		  UPDATE sweets SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ? AND quantity >= ?
		`, it.Quantity, it.SweetID, it.Quantity)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &domain.InsufficientStockError{SweetName: s.Name, Available: s.Quantity, Requested: it.Quantity}
		}
	}

	return tx.Commit()
}

// Cancel flips a pending/confirmed order to cancelled and restores every
// line item's quantity, atomically. Sweets deleted since the order was
// placed are skipped. The status guard sits in the UPDATE itself so a
// concurrent cancel or status change cannot double-restock.
func (r *OrderRepo) Cancel(orderID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status IN (?, ?)
	`, domain.StatusCancelled, orderID, domain.StatusPending, domain.StatusConfirmed)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status string
		if err := tx.Get(&status, `SELECT status FROM orders WHERE id = ?`, orderID); err != nil {
			if err == sql.ErrNoRows {
				return &domain.NotFoundError{Kind: "order", ID: orderID}
			}
			return err
		}
		return &domain.InvalidStateError{Status: status}
	}

	var items []struct {
		SweetID  string `db:"sweet_id"`
		Quantity int    `db:"quantity"`
	}
	if err := tx.Select(&items, `SELECT sweet_id, quantity FROM order_items WHERE order_id = ?`, orderID); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.Exec(`
		  UPDATE sweets SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ?
		`, it.Quantity, it.SweetID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Get returns one order with its line items in submission order.
func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, err
	}
	if err := r.db.Select(&o.Items, `
		SELECT id, order_id, sweet_id, sweet_name, unit_label, quantity, price, created_at
		FROM order_items
		WHERE order_id = ?
		ORDER BY rowid
	`, orderID); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return r.attachItems(out)
}

// ListAll returns every order, newest first (admin views).
func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT `+orderCols+`
		FROM orders
		ORDER BY datetime(created_at) DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	return r.attachItems(out)
}

func (r *OrderRepo) attachItems(orders []domain.Order) ([]domain.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	query, args, err := sqlx.In(`
		SELECT id, order_id, sweet_id, sweet_name, unit_label, quantity, price, created_at
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY rowid
	`, ids)
	if err != nil {
		return nil, err
	}
	var items []domain.OrderItem
	if err := r.db.Select(&items, query, args...); err != nil {
		return nil, err
	}
	byOrder := make(map[string][]domain.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}

// OrderPatch carries the admin-updatable fields; nil means "leave unchanged".
type OrderPatch struct {
	Status          *string `json:"status"`
	DeliveryAddress *string `json:"delivery_address"`
	PhoneNumber     *string `json:"phone_number"`
	Notes           *string `json:"notes"`
}

// UpdatePatch applies the non-nil fields of patch. Returns false when the
// order does not exist. A status write is guarded on fromStatus, the status
// the caller observed, so a concurrent transition (a cancel in particular)
// cannot be overwritten: the write misses and the current status comes back
// as an InvalidTransitionError.
func (r *OrderRepo) UpdatePatch(orderID string, patch OrderPatch, fromStatus string) (bool, error) {
	set := ``
	args := []any{}
	add := func(col string, v any) {
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, v)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.DeliveryAddress != nil {
		add("delivery_address", *patch.DeliveryAddress)
	}
	if patch.PhoneNumber != nil {
		add("phone_number", *patch.PhoneNumber)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if set == "" {
		var n int
		if err := r.db.Get(&n, `SELECT COUNT(*) FROM orders WHERE id = ?`, orderID); err != nil {
			return false, err
		}
		return n > 0, nil
	}
	where := `id = ?`
	args = append(args, orderID)
	if patch.Status != nil {
		where += ` AND status = ?`
		args = append(args, fromStatus)
	}
	res, err := r.db.Exec(`UPDATE orders SET `+set+`, updated_at = CURRENT_TIMESTAMP WHERE `+where, args...)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return true, nil
	}
	if patch.Status != nil {
		var status string
		err := r.db.Get(&status, `SELECT status FROM orders WHERE id = ?`, orderID)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if status != fromStatus {
			return false, &domain.InvalidTransitionError{From: status, To: *patch.Status}
		}
	}
	return false, nil
}
