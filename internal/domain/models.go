package domain

type Sweet struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Category    string  `db:"category" json:"category"`
	Price       float64 `db:"price" json:"price"`
	Quantity    int     `db:"quantity" json:"quantity"`
	Description string  `db:"description" json:"description,omitempty"`
	Image       string  `db:"image" json:"image,omitempty"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at,omitempty"`
}

// Order lifecycle statuses. Orders always start as pending and move forward
// through the list; cancellation is only reachable from pending or confirmed.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanCancel reports whether an order in status s may still be cancelled.
func CanCancel(s string) bool {
	return s == StatusPending || s == StatusConfirmed
}

var statusRank = map[string]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusShipped:   2,
	StatusDelivered: 3,
}

// CanTransition reports whether an order may move from one status to
// another through an update. Moves are strictly forward; delivered and
// cancelled are terminal. Cancelled is never a transition target here:
// cancellation restocks, so it has its own operation.
func CanTransition(from, to string) bool {
	f, ok := statusRank[from]
	if !ok {
		return false
	}
	t, ok := statusRank[to]
	if !ok {
		return false
	}
	return t > f
}

type Order struct {
	ID              string  `db:"id" json:"id"`
	UserID          string  `db:"user_id" json:"user_id"`
	TotalAmount     float64 `db:"total_amount" json:"total_amount"`
	Status          string  `db:"status" json:"status"`
	DeliveryAddress string  `db:"delivery_address" json:"delivery_address,omitempty"`
	PhoneNumber     string  `db:"phone_number" json:"phone_number,omitempty"`
	Email           string  `db:"email" json:"email,omitempty"`
	CustomerName    string  `db:"customer_name" json:"customer_name,omitempty"`
	Notes           string  `db:"notes" json:"notes,omitempty"`
	CreatedAt       string  `db:"created_at" json:"created_at"`
	UpdatedAt       string  `db:"updated_at" json:"updated_at,omitempty"`

	Items []OrderItem `json:"order_items"`
}

// OrderItem is a line item snapshot taken at order time. SweetName, UnitLabel
// and Price are denormalized so the receipt survives later catalog edits.
// Items are immutable once created and live and die with their parent order.
type OrderItem struct {
	ID        string  `db:"id" json:"id"`
	OrderID   string  `db:"order_id" json:"order_id"`
	SweetID   string  `db:"sweet_id" json:"sweet_id"`
	SweetName string  `db:"sweet_name" json:"sweet_name"`
	UnitLabel string  `db:"unit_label" json:"unit_label"` // 250g, 500g, 1kg
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
	CreatedAt string  `db:"created_at" json:"created_at"`
}
