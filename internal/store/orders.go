package store

import (
	"context" // Request-scoped queries
	"fmt"     // Error wrapping

	"jwt_pizza_service/internal/domain" // Domain models
	"jwt_pizza_service/internal/utils"  // Pagination
)

// GetMenu returns every menu item
func (s *SQLStore) GetMenu(ctx context.Context) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	return items, nil
}

// AddMenuItem inserts a menu item
func (s *SQLStore) AddMenuItem(ctx context.Context, item *domain.MenuItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("add menu item: %w", err)
	}
	return nil
}

// CreateOrder inserts an order and its items in one statement batch
func (s *SQLStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// ListOrders pages through a diner's orders, newest first
func (s *SQLStore) ListOrders(ctx context.Context, dinerID uint, page utils.Page) ([]domain.Order, bool, error) {
	var orders []domain.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("diner_id = ?", dinerID).
		Order("date desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit + 1).
		Find(&orders).Error
	if err != nil {
		return nil, false, fmt.Errorf("list orders: %w", err)
	}
	orders, more := utils.Trim(orders, page.Limit)
	return orders, more, nil
}
