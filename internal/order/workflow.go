// Package order validates carts, persists orders and hands them to the
// factory. The local order is committed before the factory is called and is
// never rolled back when fulfillment fails.
package order

import (
	"context" // Request-scoped calls
	"errors"  // Factory error matching
	"fmt"     // Error wrapping
	"time"    // Order timestamps

	"jwt_pizza_service/internal/domain"  // Domain models
	"jwt_pizza_service/internal/factory" // Factory client
	"jwt_pizza_service/internal/metrics" // Order counters
	"jwt_pizza_service/internal/utils"   // Pagination

	"github.com/sirupsen/logrus" // Logging library
)

// MenuStore reads the current menu
type MenuStore interface {
	GetMenu(ctx context.Context) ([]domain.MenuItem, error)
}

// OrderStore persists and lists orders
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	ListOrders(ctx context.Context, dinerID uint, page utils.Page) ([]domain.Order, bool, error)
}

// Fulfiller is the factory capability; tests substitute a fake
type Fulfiller interface {
	Fulfill(ctx context.Context, req factory.Request) (*factory.Receipt, error)
}

// Workflow runs order submission and listing
type Workflow struct {
	menu    MenuStore
	orders  OrderStore
	factory Fulfiller
	now     func() time.Time
}

// NewWorkflow wires the stores and the factory
func NewWorkflow(menu MenuStore, orders OrderStore, f Fulfiller) *Workflow {
	return &Workflow{menu: menu, orders: orders, factory: f, now: time.Now}
}

// Item is one submitted cart line
type Item struct {
	MenuID      uint
	Description string
	Price       float64
}

// SubmitInput is a cart for one store
type SubmitInput struct {
	FranchiseID uint
	StoreID     uint
	Items       []Item
}

// Result is the outcome of a submission. Order is always persisted; Receipt
// is set only when Fulfilled.
type Result struct {
	Order     domain.Order
	Receipt   *factory.Receipt
	Fulfilled bool
	ReportURL string
	Message   string
}

// Submit validates the cart, persists the order, then calls the factory once.
// Factory failure is reported in the Result, not as an error.
func (w *Workflow) Submit(ctx context.Context, diner *domain.User, in SubmitInput) (*Result, error) {
	if diner == nil {
		return nil, domain.ErrUnauthorized
	}
	if in.FranchiseID == 0 || in.StoreID == 0 || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: franchiseId, storeId, and items are required", domain.ErrInvalidInput)
	}
	if err := w.validateItems(ctx, in.Items); err != nil {
		return nil, err
	}

	order := domain.Order{
		DinerID:     diner.ID,
		FranchiseID: in.FranchiseID,
		StoreID:     in.StoreID,
		Date:        w.now().UTC(),
		Items:       make([]domain.OrderItem, len(in.Items)),
	}
	for i, it := range in.Items {
		order.Items[i] = domain.OrderItem{MenuID: it.MenuID, Description: it.Description, Price: it.Price}
	}
	if err := w.orders.CreateOrder(ctx, &order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"diner_id": diner.ID,
		"items":    len(order.Items),
	}).Info("Order persisted")

	result := &Result{Order: order}
	receipt, err := w.factory.Fulfill(ctx, factory.Request{
		Diner: factory.Diner{ID: diner.ID, Name: diner.Name, Email: diner.Email},
		Order: order,
	})
	if err != nil {
		result.Message = "Failed to fulfill order at factory"
		var ferr *factory.Error
		if errors.As(err, &ferr) {
			result.ReportURL = ferr.ReportURL
		}
		metrics.OrdersSubmitted.WithLabelValues(metrics.OutcomeFailure).Inc()
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		}).Warn("Factory fulfillment failed")
		return result, nil
	}

	result.Fulfilled = true
	result.Receipt = receipt
	result.ReportURL = receipt.ReportURL
	metrics.OrdersSubmitted.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logrus.WithField("order_id", order.ID).Info("Order fulfilled")
	return result, nil
}

// validateItems checks every menu id against the current menu and names all
// unknown ids at once
func (w *Workflow) validateItems(ctx context.Context, items []Item) error {
	menu, err := w.menu.GetMenu(ctx)
	if err != nil {
		return fmt.Errorf("load menu: %w", err)
	}
	known := make(map[uint]struct{}, len(menu))
	for _, m := range menu {
		known[m.ID] = struct{}{}
	}
	var unknown []uint
	for _, it := range items {
		if _, ok := known[it.MenuID]; !ok {
			unknown = append(unknown, it.MenuID)
		}
	}
	if len(unknown) > 0 {
		return &domain.UnknownMenuItemError{IDs: unknown}
	}
	return nil
}

// List returns the diner's own orders, newest first
func (w *Workflow) List(ctx context.Context, diner *domain.User, page utils.Page) ([]domain.Order, bool, error) {
	if diner == nil {
		return nil, false, domain.ErrUnauthorized
	}
	orders, more, err := w.orders.ListOrders(ctx, diner.ID, page)
	if err != nil {
		return nil, false, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, more, nil
}
