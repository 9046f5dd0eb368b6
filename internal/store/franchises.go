package store

import (
	"context" // Request-scoped queries
	"errors"  // gorm error matching
	"fmt"     // Error wrapping

	"jwt_pizza_service/internal/domain" // Domain models
	"jwt_pizza_service/internal/utils"  // Pagination

	"gorm.io/gorm" // GORM ORM library
)

// adminRow is one franchisee joined with its user record
type adminRow struct {
	FranchiseID uint
	ID          uint
	Name        string
	Email       string
}

// loadAdmins fills Admins on each franchise from franchisee role rows
func loadAdmins(tx *gorm.DB, franchises []domain.Franchise) error {
	if len(franchises) == 0 {
		return nil
	}
	ids := make([]uint, len(franchises))
	for i, f := range franchises {
		ids[i] = f.ID
	}
	var rows []adminRow
	err := tx.Table("user_roles").
		Select("user_roles.object_id AS franchise_id, users.id AS id, users.name AS name, users.email AS email").
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("user_roles.role = ? AND user_roles.object_id IN ?", domain.RoleFranchisee, ids).
		Order("users.id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("load franchise admins: %w", err)
	}
	byFranchise := make(map[uint][]domain.FranchiseAdmin, len(franchises))
	for _, r := range rows {
		byFranchise[r.FranchiseID] = append(byFranchise[r.FranchiseID], domain.FranchiseAdmin{ID: r.ID, Name: r.Name, Email: r.Email})
	}
	for i := range franchises {
		franchises[i].Admins = byFranchise[franchises[i].ID]
	}
	return nil
}

// ListFranchises pages through franchises matching a `*` name filter. Admins
// are not loaded.
func (s *SQLStore) ListFranchises(ctx context.Context, filter string, page utils.Page) ([]domain.Franchise, bool, error) {
	var franchises []domain.Franchise
	err := s.db.WithContext(ctx).
		Preload("Stores").
		Where("name LIKE ?", likePattern(filter)).
		Order("id").
		Offset(page.Offset()).
		Limit(page.Limit + 1).
		Find(&franchises).Error
	if err != nil {
		return nil, false, fmt.Errorf("list franchises: %w", err)
	}
	franchises, more := utils.Trim(franchises, page.Limit)
	return franchises, more, nil
}

// ListUserFranchises returns the franchises a user administers
func (s *SQLStore) ListUserFranchises(ctx context.Context, userID uint) ([]domain.Franchise, error) {
	db := s.db.WithContext(ctx)
	owned := db.Model(&domain.RoleAssignment{}).Select("object_id").Where("user_id = ? AND role = ?", userID, domain.RoleFranchisee)
	var franchises []domain.Franchise
	if err := db.Preload("Stores").Where("id IN (?)", owned).Order("id").Find(&franchises).Error; err != nil {
		return nil, fmt.Errorf("list user franchises: %w", err)
	}
	if err := loadAdmins(db, franchises); err != nil {
		return nil, err
	}
	return franchises, nil
}

// GetFranchise loads one franchise with stores and admins
func (s *SQLStore) GetFranchise(ctx context.Context, id uint) (*domain.Franchise, error) {
	db := s.db.WithContext(ctx)
	var f domain.Franchise
	if err := db.Preload("Stores").First(&f, id).Error; err != nil {
		return nil, notFound(err, "franchise")
	}
	list := []domain.Franchise{f}
	if err := loadAdmins(db, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// CreateFranchise inserts a franchise and grants a franchisee role to each
// admin email; an unknown email aborts the whole creation
func (s *SQLStore) CreateFranchise(ctx context.Context, f *domain.Franchise, adminEmails []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins := make([]domain.FranchiseAdmin, 0, len(adminEmails))
		for _, email := range adminEmails {
			var u domain.User
			if err := tx.Where("email = ?", email).First(&u).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: unknown user for franchise admin %s", domain.ErrNotFound, email)
				}
				return fmt.Errorf("load franchise admin: %w", err)
			}
			admins = append(admins, domain.FranchiseAdmin{ID: u.ID, Name: u.Name, Email: u.Email})
		}
		var n int64
		if err := tx.Model(&domain.Franchise{}).Where("name = ?", f.Name).Count(&n).Error; err != nil {
			return fmt.Errorf("check franchise name: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: franchise %s already exists", domain.ErrInvalidInput, f.Name)
		}
		if err := tx.Create(f).Error; err != nil {
			return fmt.Errorf("create franchise: %w", err)
		}
		for _, a := range admins {
			role := domain.FranchiseeOf(f.ID)
			role.UserID = a.ID
			if err := tx.Create(&role).Error; err != nil {
				return fmt.Errorf("grant franchisee role: %w", err)
			}
		}
		f.Admins = admins
		if f.Stores == nil {
			f.Stores = []domain.Store{}
		}
		return nil
	})
}

// DeleteFranchise removes a franchise, its stores and the franchisee roles
// scoped to it
func (s *SQLStore) DeleteFranchise(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role = ? AND object_id = ?", domain.RoleFranchisee, id).Delete(&domain.RoleAssignment{}).Error; err != nil {
			return fmt.Errorf("delete franchisee roles: %w", err)
		}
		if err := tx.Where("franchise_id = ?", id).Delete(&domain.Store{}).Error; err != nil {
			return fmt.Errorf("delete stores: %w", err)
		}
		res := tx.Delete(&domain.Franchise{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete franchise: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: franchise", domain.ErrNotFound)
		}
		return nil
	})
}

// CreateStore adds a store to an existing franchise
func (s *SQLStore) CreateStore(ctx context.Context, st *domain.Store) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Franchise{}).Where("id = ?", st.FranchiseID).Count(&n).Error; err != nil {
			return fmt.Errorf("check franchise: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: franchise", domain.ErrNotFound)
		}
		if err := tx.Create(st).Error; err != nil {
			return fmt.Errorf("create store: %w", err)
		}
		return nil
	})
}

// DeleteStore removes a store that belongs to the given franchise
func (s *SQLStore) DeleteStore(ctx context.Context, franchiseID, storeID uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND franchise_id = ?", storeID, franchiseID).Delete(&domain.Store{})
	if res.Error != nil {
		return fmt.Errorf("delete store: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: store", domain.ErrNotFound)
	}
	return nil
}
