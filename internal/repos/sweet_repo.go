package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sweetshop/internal/domain"
)

type SweetRepo struct{ db *sqlx.DB }

func NewSweetRepo(db *sqlx.DB) *SweetRepo { return &SweetRepo{db: db} }

const sweetCols = `
  id, name, category, price, quantity, description, image,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *SweetRepo) List(limit, offset int) ([]domain.Sweet, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var out []domain.Sweet
	err := r.db.Select(&out, `
	  SELECT `+sweetCols+`
	  FROM sweets
	  ORDER BY name
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *SweetRepo) Get(id string) (domain.Sweet, error) {
	var s domain.Sweet
	err := r.db.Get(&s, `SELECT `+sweetCols+` FROM sweets WHERE id = ?`, id)
	return s, err
}

// Search filters by name/category substring and an optional price window.
func (r *SweetRepo) Search(name, category string, minPrice, maxPrice *float64) ([]domain.Sweet, error) {
	where := `1=1`
	args := []any{}
	if name != "" {
		where += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+name+"%")
	}
	if category != "" {
		where += ` AND LOWER(category) LIKE ?`
		args = append(args, "%"+category+"%")
	}
	if minPrice != nil {
		where += ` AND price >= ?`
		args = append(args, *minPrice)
	}
	if maxPrice != nil {
		where += ` AND price <= ?`
		args = append(args, *maxPrice)
	}

	var out []domain.Sweet
	err := r.db.Select(&out, `
	  SELECT `+sweetCols+`
	  FROM sweets
	  WHERE `+where+`
	  ORDER BY name`, args...)
	return out, err
}

func (r *SweetRepo) Create(s *domain.Sweet) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`
	  INSERT INTO sweets(id, name, category, price, quantity, description, image)
	  VALUES(?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Name, s.Category, s.Price, s.Quantity, s.Description, s.Image)
	return err
}

// SweetPatch carries partial updates; nil means "leave unchanged".
type SweetPatch struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

func (p SweetPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil &&
		p.Quantity == nil && p.Description == nil && p.Image == nil
}

// Update applies the non-nil fields of patch. Returns false when no sweet
// with that id exists.
func (r *SweetRepo) Update(id string, patch SweetPatch) (bool, error) {
	set := ``
	args := []any{}
	add := func(col string, v any) {
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, v)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}
	if set == "" {
		// Nothing to change; report existence only.
		var n int
		if err := r.db.Get(&n, `SELECT COUNT(*) FROM sweets WHERE id = ?`, id); err != nil {
			return false, err
		}
		return n > 0, nil
	}
	args = append(args, id)
	res, err := r.db.Exec(`UPDATE sweets SET `+set+`, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, args...)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Delete removes a sweet. Returns false when it did not exist.
func (r *SweetRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM sweets WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DecrementQty atomically subtracts "by" units if enough stock exists.
// Returns false when stock was insufficient (or the sweet is gone); the
// guard in the WHERE clause is what keeps quantity from ever going negative
// under concurrent purchases.
func (r *SweetRepo) DecrementQty(id string, by int) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE sweets
	  SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND quantity >= ?
	`, by, id, by)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// IncrementQty adds stock unconditionally (restock has no upper bound).
// Returns false when no sweet with that id exists.
func (r *SweetRepo) IncrementQty(id string, by int) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE sweets
	  SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, by, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
