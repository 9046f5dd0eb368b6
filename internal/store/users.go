package store

import (
	"context" // Request-scoped queries
	"errors"  // gorm error matching
	"fmt"     // Error wrapping

	"jwt_pizza_service/internal/domain" // Domain models
	"jwt_pizza_service/internal/utils"  // Pagination

	"gorm.io/gorm" // GORM ORM library
)

// CreateUser inserts a user together with its roles
func (s *SQLStore) CreateUser(ctx context.Context, user *domain.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.User{}).Where("email = ?", user.Email).Count(&n).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if n > 0 {
			return domain.ErrDuplicateEmail
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateEmail
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

// GetUserByID loads a user with roles
func (s *SQLStore) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Preload("Roles").First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// GetUserByEmail loads a user with roles by exact email
func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// FindUsersByName returns every user with exactly this name
func (s *SQLStore) FindUsersByName(ctx context.Context, name string) ([]domain.User, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Preload("Roles").Where("name = ?", name).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

// UpdateUser writes name, email and password hash; roles are untouched
func (s *SQLStore) UpdateUser(ctx context.Context, user *domain.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&n).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if n > 0 {
			return domain.ErrDuplicateEmail
		}
		res := tx.Model(&domain.User{}).Where("id = ?", user.ID).Updates(map[string]any{
			"name":     user.Name,
			"email":    user.Email,
			"password": user.Password,
		})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateEmail
			}
			return fmt.Errorf("update user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&domain.User{}).Where("id = ?", user.ID).Count(&exists).Error; err != nil {
				return fmt.Errorf("check user: %w", err)
			}
			if exists == 0 {
				return fmt.Errorf("%w: user", domain.ErrNotFound)
			}
		}
		return nil
	})
}

// DeleteUser removes a user and its role assignments
func (s *SQLStore) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.RoleAssignment{}).Error; err != nil {
			return fmt.Errorf("delete roles: %w", err)
		}
		res := tx.Delete(&domain.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: user", domain.ErrNotFound)
		}
		return nil
	})
}

// ListUsers pages through users whose name matches a `*` wildcard filter
func (s *SQLStore) ListUsers(ctx context.Context, filter string, page utils.Page) ([]domain.User, bool, error) {
	var users []domain.User
	err := s.db.WithContext(ctx).
		Preload("Roles").
		Where("name LIKE ?", likePattern(filter)).
		Order("id").
		Offset(page.Offset()).
		Limit(page.Limit + 1).
		Find(&users).Error
	if err != nil {
		return nil, false, fmt.Errorf("list users: %w", err)
	}
	users, more := utils.Trim(users, page.Limit)
	return users, more, nil
}
