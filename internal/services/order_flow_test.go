package services_test

import (
	"errors"
	"testing"

	"sweetshop/internal/domain"
	"sweetshop/internal/notify"
	"sweetshop/internal/repos"
	"sweetshop/internal/services"
)

func TestCreateOrder_DecrementsStock(t *testing.T) {
	db := memdb(t)
	u := seedUser(t, db, "u-alice", "alice@test.com", "alice", false)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)

	svc := newOrderService(db, notify.Nop{})
	o, err := svc.Create(u, services.CreateOrderRequest{
		TotalAmount: 600,
		Items: []repos.OrderItemRequest{
			{SweetID: "s-gulab", SweetName: "Gulab Jamun", UnitLabel: "500g", Quantity: 5, Price: 600},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.StatusPending {
		t.Fatalf("want status pending, got %s", o.Status)
	}
	if len(o.Items) != 1 || o.Items[0].SweetName != "Gulab Jamun" {
		t.Fatalf("bad items: %+v", o.Items)
	}
	if got := sweetQty(t, db, "s-gulab"); got != 20 {
		t.Fatalf("want qty=20, got %d", got)
	}
	// customer name defaults to the acting user
	if o.CustomerName != "alice" {
		t.Fatalf("want customer name alice, got %q", o.CustomerName)
	}
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	db := memdb(t)
	u := seedUser(t, db, "u-alice", "alice@test.com", "alice", false)
	seedSweet(t, db, "s-barfi", "Barfi", 200, 2)

	svc := newOrderService(db, notify.Nop{})
	_, err := svc.Create(u, services.CreateOrderRequest{
		TotalAmount: 1000,
		Items: []repos.OrderItemRequest{
			{SweetID: "s-barfi", SweetName: "Barfi", UnitLabel: "1kg", Quantity: 5, Price: 1000},
		},
	})
	var stock *domain.InsufficientStockError
	if !errors.As(err, &stock) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if stock.SweetName != "Barfi" || stock.Available != 2 || stock.Requested != 5 {
		t.Fatalf("bad error detail: %+v", stock)
	}
	if got := sweetQty(t, db, "s-barfi"); got != 2 {
		t.Fatalf("quantity changed on failed order: %d", got)
	}
	if n := count(t, db, "orders"); n != 0 {
		t.Fatalf("order persisted on failure: %d", n)
	}
}

// A failing line item aborts the whole order: earlier items must leave no
// trace either.
func TestCreateOrder_AtomicAcrossItems(t *testing.T) {
	db := memdb(t)
	u := seedUser(t, db, "u-alice", "alice@test.com", "alice", false)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)
	seedSweet(t, db, "s-barfi", "Barfi", 200, 2)

	svc := newOrderService(db, notify.Nop{})
	_, err := svc.Create(u, services.CreateOrderRequest{
		TotalAmount: 1600,
		Items: []repos.OrderItemRequest{
			{SweetID: "s-gulab", SweetName: "Gulab Jamun", UnitLabel: "500g", Quantity: 5, Price: 600},
			{SweetID: "s-barfi", SweetName: "Barfi", UnitLabel: "1kg", Quantity: 5, Price: 1000},
		},
	})
	var stock *domain.InsufficientStockError
	if !errors.As(err, &stock) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if got := sweetQty(t, db, "s-gulab"); got != 25 {
		t.Fatalf("first item's decrement leaked: qty=%d", got)
	}
	if got := sweetQty(t, db, "s-barfi"); got != 2 {
		t.Fatalf("second item's quantity changed: qty=%d", got)
	}
	if n := count(t, db, "orders"); n != 0 {
		t.Fatalf("order persisted: %d", n)
	}
	if n := count(t, db, "order_items"); n != 0 {
		t.Fatalf("order items persisted: %d", n)
	}
}

func TestCreateOrder_UnknownSweet(t *testing.T) {
	db := memdb(t)
	u := seedUser(t, db, "u-alice", "alice@test.com", "alice", false)

	svc := newOrderService(db, notify.Nop{})
	_, err := svc.Create(u, services.CreateOrderRequest{
		Items: []repos.OrderItemRequest{
			{SweetID: "nope", SweetName: "Ghost", Quantity: 1, Price: 10},
		},
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestCreateOrder_RejectsEmptyAndNonPositive(t *testing.T) {
	db := memdb(t)
	u := seedUser(t, db, "u-alice", "alice@test.com", "alice", false)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)

	svc := newOrderService(db, notify.Nop{})
	if _, err := svc.Create(u, services.CreateOrderRequest{}); !errors.Is(err, services.ErrNoItems) {
		t.Fatalf("want ErrNoItems, got %v", err)
	}
	_, err := svc.Create(u, services.CreateOrderRequest{
		Items: []repos.OrderItemRequest{{SweetID: "s-gulab", Quantity: 0, Price: 0}},
	})
	if !errors.Is(err, services.ErrBadQuantity) {
		t.Fatalf("want ErrBadQuantity, got %v", err)
	}
}
