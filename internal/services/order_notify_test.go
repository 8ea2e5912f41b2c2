package services_test

import (
	"errors"
	"testing"

	"sweetshop/internal/domain"
	"sweetshop/internal/notify"
	"sweetshop/internal/repos"
	"sweetshop/internal/services"
)

func TestCreateOrder_DispatchesConfirmation(t *testing.T) {
	db := memdb(t)
	u := seedUser(t, db, "u-alice", "alice@test.com", "alice", false)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)

	fn := &fakeNotifier{}
	svc := newOrderService(db, fn)
	o, err := svc.Create(u, services.CreateOrderRequest{
		TotalAmount: 600,
		Items: []repos.OrderItemRequest{
			{SweetID: "s-gulab", SweetName: "Gulab Jamun", UnitLabel: "500g", Quantity: 5, Price: 600},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(fn.events) != 1 {
		t.Fatalf("want 1 event, got %d", len(fn.events))
	}
	ev := fn.events[0]
	if ev.Kind != notify.KindOrderCreated {
		t.Fatalf("want order_created, got %s", ev.Kind)
	}
	if ev.Order.ID != o.ID || len(ev.Order.Items) != 1 {
		t.Fatalf("bad snapshot: %+v", ev.Order)
	}
	// recipient falls back to the account email
	if ev.RecipientEmail != "alice@test.com" || ev.RecipientName != "alice" {
		t.Fatalf("bad recipient: %s / %s", ev.RecipientEmail, ev.RecipientName)
	}
}

// Notifier failure is swallowed: the order still commits and the caller
// sees success.
func TestCreateOrder_NotifierFailureSwallowed(t *testing.T) {
	db := memdb(t)
	u := seedUser(t, db, "u-alice", "alice@test.com", "alice", false)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)

	fn := &fakeNotifier{err: errors.New("smtp down")}
	svc := newOrderService(db, fn)
	o, err := svc.Create(u, services.CreateOrderRequest{
		TotalAmount: 600,
		Items: []repos.OrderItemRequest{
			{SweetID: "s-gulab", SweetName: "Gulab Jamun", UnitLabel: "500g", Quantity: 5, Price: 600},
		},
	})
	if err != nil {
		t.Fatalf("notifier failure leaked: %v", err)
	}
	if o.Status != domain.StatusPending {
		t.Fatalf("want pending, got %s", o.Status)
	}
	if got := sweetQty(t, db, "s-gulab"); got != 20 {
		t.Fatalf("commit undone by notifier failure: qty=%d", got)
	}
}

func TestUpdateOrder_DispatchesStatusChange(t *testing.T) {
	db := memdb(t)
	alice := seedUser(t, db, "u-alice", "alice@test.com", "alice", false)
	admin := seedUser(t, db, "u-admin", "admin@test.com", "admin", true)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)

	fn := &fakeNotifier{}
	svc := newOrderService(db, fn)
	o := placeOrder(t, db, svc, alice, "s-gulab", 2)
	fn.events = nil // drop the confirmation event

	// Non-status patch: no notification.
	notes := "gift wrap"
	if _, err := svc.Update(admin, o.ID, repos.OrderPatch{Notes: &notes}); err != nil {
		t.Fatal(err)
	}
	if len(fn.events) != 0 {
		t.Fatalf("unexpected event for non-status patch: %+v", fn.events)
	}

	status := domain.StatusShipped
	if _, err := svc.Update(admin, o.ID, repos.OrderPatch{Status: &status}); err != nil {
		t.Fatal(err)
	}
	if len(fn.events) != 1 {
		t.Fatalf("want 1 event, got %d", len(fn.events))
	}
	ev := fn.events[0]
	if ev.Kind != notify.KindOrderStatusChanged || ev.NewStatus != domain.StatusShipped {
		t.Fatalf("bad event: %+v", ev)
	}
}

// Update dispatches even when the notifier fails, without surfacing it.
func TestUpdateOrder_NotifierFailureSwallowed(t *testing.T) {
	db := memdb(t)
	alice := seedUser(t, db, "u-alice", "alice@test.com", "alice", false)
	admin := seedUser(t, db, "u-admin", "admin@test.com", "admin", true)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)

	fn := &fakeNotifier{err: errors.New("smtp down")}
	svc := newOrderService(db, fn)
	o := placeOrder(t, db, svc, alice, "s-gulab", 2)

	status := domain.StatusConfirmed
	got, err := svc.Update(admin, o.ID, repos.OrderPatch{Status: &status})
	if err != nil {
		t.Fatalf("notifier failure leaked: %v", err)
	}
	if got.Status != domain.StatusConfirmed {
		t.Fatalf("update rolled back: %s", got.Status)
	}
}
