package services

import (
	"database/sql"
	"errors"

	"sweetshop/internal/domain"
	"sweetshop/internal/repos"
)

var ErrBadQuantity = errors.New("quantity must be a positive integer")

type CatalogService struct {
	Sweets *repos.SweetRepo
}

func NewCatalogService(sweets *repos.SweetRepo) *CatalogService {
	return &CatalogService{Sweets: sweets}
}

func (s *CatalogService) List(limit, offset int) ([]domain.Sweet, error) {
	return s.Sweets.List(limit, offset)
}

func (s *CatalogService) Search(name, category string, minPrice, maxPrice *float64) ([]domain.Sweet, error) {
	return s.Sweets.Search(name, category, minPrice, maxPrice)
}

func (s *CatalogService) Get(id string) (domain.Sweet, error) {
	sw, err := s.Sweets.Get(id)
	if err == sql.ErrNoRows {
		return domain.Sweet{}, &domain.NotFoundError{Kind: "sweet", ID: id}
	}
	return sw, err
}

func (s *CatalogService) Create(sw *domain.Sweet) error {
	return s.Sweets.Create(sw)
}

func (s *CatalogService) Update(id string, patch repos.SweetPatch) (domain.Sweet, error) {
	ok, err := s.Sweets.Update(id, patch)
	if err != nil {
		return domain.Sweet{}, err
	}
	if !ok {
		return domain.Sweet{}, &domain.NotFoundError{Kind: "sweet", ID: id}
	}
	return s.Get(id)
}

func (s *CatalogService) Delete(id string) error {
	ok, err := s.Sweets.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.NotFoundError{Kind: "sweet", ID: id}
	}
	return nil
}

// Purchase decrements stock outside the order flow, with the same deny
// semantics as order creation.
func (s *CatalogService) Purchase(id string, qty int) (domain.Sweet, error) {
	if qty < 1 {
		return domain.Sweet{}, ErrBadQuantity
	}
	sw, err := s.Get(id)
	if err != nil {
		return domain.Sweet{}, err
	}
	ok, err := s.Sweets.DecrementQty(id, qty)
	if err != nil {
		return domain.Sweet{}, err
	}
	if !ok {
		// Either stock is short or a concurrent purchase beat us to it;
		// re-read for an accurate count in the error.
		if cur, rerr := s.Get(id); rerr == nil {
			sw = cur
		}
		d := domain.CheckStock(sw.Quantity, qty)
		return domain.Sweet{}, &domain.InsufficientStockError{SweetName: sw.Name, Available: d.Available, Requested: d.Requested}
	}
	return s.Get(id)
}

// Restock adds stock unconditionally; there is no upper bound.
func (s *CatalogService) Restock(id string, qty int) (domain.Sweet, error) {
	if qty < 1 {
		return domain.Sweet{}, ErrBadQuantity
	}
	ok, err := s.Sweets.IncrementQty(id, qty)
	if err != nil {
		return domain.Sweet{}, err
	}
	if !ok {
		return domain.Sweet{}, &domain.NotFoundError{Kind: "sweet", ID: id}
	}
	return s.Get(id)
}
