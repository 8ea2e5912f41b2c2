package services_test

import (
	"errors"
	"testing"

	"sweetshop/internal/domain"
	"sweetshop/internal/repos"
	"sweetshop/internal/services"
)

func TestCatalogPurchase(t *testing.T) {
	db := memdb(t)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)
	svc := services.NewCatalogService(repos.NewSweetRepo(db))

	sw, err := svc.Purchase("s-gulab", 5)
	if err != nil {
		t.Fatal(err)
	}
	if sw.Quantity != 20 {
		t.Fatalf("want qty=20, got %d", sw.Quantity)
	}

	_, err = svc.Purchase("s-gulab", 21)
	var stock *domain.InsufficientStockError
	if !errors.As(err, &stock) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if stock.Available != 20 || stock.Requested != 21 {
		t.Fatalf("bad detail: %+v", stock)
	}
	if got := sweetQty(t, db, "s-gulab"); got != 20 {
		t.Fatalf("quantity changed on denied purchase: %d", got)
	}

	if _, err := svc.Purchase("missing", 1); !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if _, err := svc.Purchase("s-gulab", 0); !errors.Is(err, services.ErrBadQuantity) {
		t.Fatalf("want ErrBadQuantity, got %v", err)
	}
}

func TestCatalogRestock(t *testing.T) {
	db := memdb(t)
	seedSweet(t, db, "s-barfi", "Barfi", 200, 0)
	svc := services.NewCatalogService(repos.NewSweetRepo(db))

	sw, err := svc.Restock("s-barfi", 30)
	if err != nil {
		t.Fatal(err)
	}
	if sw.Quantity != 30 {
		t.Fatalf("want qty=30, got %d", sw.Quantity)
	}
	if _, err := svc.Restock("missing", 1); !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestCatalogSearch(t *testing.T) {
	db := memdb(t)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)
	seedSweet(t, db, "s-kaju", "Kaju Katli", 450, 15)
	seedSweet(t, db, "s-laddu", "Laddu", 60, 40)
	svc := services.NewCatalogService(repos.NewSweetRepo(db))

	byName, err := svc.Search("kaju", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(byName) != 1 || byName[0].Name != "Kaju Katli" {
		t.Fatalf("bad name search: %+v", byName)
	}

	min, max := 100.0, 500.0
	byPrice, err := svc.Search("", "", &min, &max)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPrice) != 2 {
		t.Fatalf("want 2 in price window, got %d", len(byPrice))
	}
}

func TestCatalogUpdatePartial(t *testing.T) {
	db := memdb(t)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)
	svc := services.NewCatalogService(repos.NewSweetRepo(db))

	price := 140.0
	sw, err := svc.Update("s-gulab", repos.SweetPatch{Price: &price})
	if err != nil {
		t.Fatal(err)
	}
	if sw.Price != 140 {
		t.Fatalf("price not updated: %v", sw.Price)
	}
	if sw.Name != "Gulab Jamun" || sw.Quantity != 25 {
		t.Fatalf("unset fields changed: %+v", sw)
	}

	if _, err := svc.Update("missing", repos.SweetPatch{Price: &price}); !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestCatalogDelete(t *testing.T) {
	db := memdb(t)
	seedSweet(t, db, "s-gulab", "Gulab Jamun", 120, 25)
	svc := services.NewCatalogService(repos.NewSweetRepo(db))

	if err := svc.Delete("s-gulab"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete("s-gulab"); !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError on second delete, got %v", err)
	}
}
