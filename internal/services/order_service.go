package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sweetshop/internal/domain"
	applog "sweetshop/internal/log"
	"sweetshop/internal/notify"
	"sweetshop/internal/repos"
)

var (
	ErrNoItems         = errors.New("order must contain at least one item")
	ErrBadStatus       = errors.New("unknown order status")
	ErrCancelViaUpdate = errors.New("status cannot be set to cancelled directly; cancel the order instead")
)

// notifyTimeout bounds a single notification attempt. Overrun counts as a
// swallowed failure, never as a failed lifecycle operation.
const notifyTimeout = 10 * time.Second

// OrderService orchestrates the order lifecycle: creation with stock
// decrement, owner/admin reads, admin patches, and cancellation with
// restock. All stock mutations happen inside OrderRepo transactions.
type OrderService struct {
	Orders   *repos.OrderRepo
	Notifier notify.Notifier
}

func NewOrderService(orders *repos.OrderRepo, n notify.Notifier) *OrderService {
	if n == nil {
		n = notify.Nop{}
	}
	return &OrderService{Orders: orders, Notifier: n}
}

type CreateOrderRequest struct {
	TotalAmount     float64                  `json:"total_amount"`
	DeliveryAddress string                   `json:"delivery_address"`
	PhoneNumber     string                   `json:"phone_number"`
	Email           string                   `json:"email"`
	CustomerName    string                   `json:"customer_name"`
	Notes           string                   `json:"notes"`
	Items           []repos.OrderItemRequest `json:"order_items"`
}

// Create places an order for user. The order, its line items and every
// stock decrement commit together or not at all. On success a confirmation
// email is attempted; its outcome is logged and discarded.
func (s *OrderService) Create(user *domain.User, req CreateOrderRequest) (domain.Order, error) {
	if len(req.Items) == 0 {
		return domain.Order{}, ErrNoItems
	}
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return domain.Order{}, ErrBadQuantity
		}
	}

	o := &domain.Order{
		UserID:          user.ID,
		TotalAmount:     req.TotalAmount,
		DeliveryAddress: req.DeliveryAddress,
		PhoneNumber:     req.PhoneNumber,
		Email:           req.Email,
		CustomerName:    req.CustomerName,
		Notes:           req.Notes,
	}
	if o.CustomerName == "" {
		o.CustomerName = user.Username
	}
	if o.Email == "" {
		o.Email = user.Email
	}

	if err := s.Orders.CreateWithItems(o, req.Items); err != nil {
		return domain.Order{}, err
	}

	full, err := s.Orders.Get(o.ID)
	if err != nil {
		return domain.Order{}, err
	}

	s.dispatch(notify.Event{
		Kind:           notify.KindOrderCreated,
		Order:          full,
		RecipientEmail: full.Email,
		RecipientName:  full.CustomerName,
	})
	return full, nil
}

// Get returns an order with items; only the owner or an admin may see it.
func (s *OrderService) Get(user *domain.User, orderID string) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Order{}, &domain.NotFoundError{Kind: "order", ID: orderID}
		}
		return domain.Order{}, err
	}
	if o.UserID != user.ID && !user.IsAdmin {
		return domain.Order{}, domain.ErrForbidden
	}
	return o, nil
}

// List returns orders newest-first. scope "all" is admin-only; anything
// else means the caller's own orders.
func (s *OrderService) List(user *domain.User, scope string) ([]domain.Order, error) {
	if scope == "all" {
		if !user.IsAdmin {
			return nil, domain.ErrForbidden
		}
		return s.Orders.ListAll()
	}
	return s.Orders.ListByUser(user.ID)
}

// Update applies an admin patch. Absent fields stay unchanged. Status moves
// strictly forward: a cancelled or delivered order stays put, and setting
// status to cancelled is rejected outright since only Cancel restores stock.
func (s *OrderService) Update(user *domain.User, orderID string, patch repos.OrderPatch) (domain.Order, error) {
	if !user.IsAdmin {
		return domain.Order{}, domain.ErrForbidden
	}
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			return domain.Order{}, ErrBadStatus
		}
		if *patch.Status == domain.StatusCancelled {
			return domain.Order{}, ErrCancelViaUpdate
		}
	}

	prev, err := s.Orders.Get(orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Order{}, &domain.NotFoundError{Kind: "order", ID: orderID}
		}
		return domain.Order{}, err
	}
	if patch.Status != nil && !domain.CanTransition(prev.Status, *patch.Status) {
		return domain.Order{}, &domain.InvalidTransitionError{From: prev.Status, To: *patch.Status}
	}

	if ok, err := s.Orders.UpdatePatch(orderID, patch, prev.Status); err != nil {
		return domain.Order{}, err
	} else if !ok {
		return domain.Order{}, &domain.NotFoundError{Kind: "order", ID: orderID}
	}

	full, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if patch.Status != nil && *patch.Status != prev.Status {
		s.dispatch(notify.Event{
			Kind:           notify.KindOrderStatusChanged,
			Order:          full,
			RecipientEmail: full.Email,
			RecipientName:  full.CustomerName,
			NewStatus:      full.Status,
		})
	}
	return full, nil
}

// Cancel moves a pending/confirmed order to cancelled and restores stock.
// Owner or admin only.
func (s *OrderService) Cancel(user *domain.User, orderID string) error {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return &domain.NotFoundError{Kind: "order", ID: orderID}
		}
		return err
	}
	if o.UserID != user.ID && !user.IsAdmin {
		return domain.ErrForbidden
	}
	if !domain.CanCancel(o.Status) {
		return &domain.InvalidStateError{Status: o.Status}
	}
	// The repo re-checks the status inside the transaction, so a concurrent
	// transition between the read above and the commit still loses cleanly.
	return s.Orders.Cancel(orderID)
}

// dispatch sends a notification and swallows the result. Runs after the
// controlling transaction committed; no error path leads back to the caller.
func (s *OrderService) dispatch(ev notify.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	out, err := s.Notifier.Send(ctx, ev)
	if err != nil {
		applog.Error(nil, "notify.send.fail", err, map[string]any{
			"kind": string(ev.Kind), "order_id": ev.Order.ID,
		})
		return
	}
	applog.Info(nil, "notify.send", map[string]any{
		"kind": string(ev.Kind), "order_id": ev.Order.ID, "outcome": out.String(),
	})
}
