package store

import (
	"context" // Store interface signatures
	"fmt"     // Error wrapping
	"sort"    // Stable id ordering
	"sync"    // Store lock

	"jwt_pizza_service/internal/domain" // Domain models
	"jwt_pizza_service/internal/utils"  // Pagination
)

// Memory is an in-process store. Every method takes the lock for its whole
// body, so each record write is atomic.
type Memory struct {
	mu         sync.RWMutex
	users      map[uint]domain.User
	menu       []domain.MenuItem
	orders     []domain.Order
	franchises map[uint]domain.Franchise
	nextID     map[string]uint
}

// NewMemory returns an empty store
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[uint]domain.User),
		franchises: make(map[uint]domain.Franchise),
		nextID:     make(map[string]uint),
	}
}

func (m *Memory) id(table string) uint {
	m.nextID[table]++
	return m.nextID[table]
}

func (m *Memory) emailTaken(email string, except uint) bool {
	for _, u := range m.users {
		if u.Email == email && u.ID != except {
			return true
		}
	}
	return false
}

// CreateUser inserts a user together with its roles
func (m *Memory) CreateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(user.Email, 0) {
		return domain.ErrDuplicateEmail
	}
	user.ID = m.id("users")
	for i := range user.Roles {
		user.Roles[i].ID = m.id("user_roles")
		user.Roles[i].UserID = user.ID
	}
	m.users[user.ID] = user.Clone()
	return nil
}

// GetUserByID loads a user with roles
func (m *Memory) GetUserByID(_ context.Context, id uint) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	u = u.Clone()
	return &u, nil
}

// GetUserByEmail loads a user with roles by exact email
func (m *Memory) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			u = u.Clone()
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
}

// FindUsersByName returns every user with exactly this name
func (m *Memory) FindUsersByName(_ context.Context, name string) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.User
	for _, u := range m.sortedUsers() {
		if u.Name == name {
			out = append(out, u.Clone())
		}
	}
	return out, nil
}

// UpdateUser writes name, email and password hash; roles are untouched
func (m *Memory) UpdateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.users[user.ID]
	if !ok {
		return fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	if m.emailTaken(user.Email, user.ID) {
		return domain.ErrDuplicateEmail
	}
	current.Name = user.Name
	current.Email = user.Email
	current.Password = user.Password
	m.users[user.ID] = current
	return nil
}

// DeleteUser removes a user and its role assignments
func (m *Memory) DeleteUser(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	delete(m.users, id)
	return nil
}

// ListUsers pages through users whose name matches a `*` wildcard filter
func (m *Memory) ListUsers(_ context.Context, filter string, page utils.Page) ([]domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []domain.User
	for _, u := range m.sortedUsers() {
		if wildcardMatch(filter, u.Name) {
			matched = append(matched, u.Clone())
		}
	}
	rows, more := utils.Trim(window(matched, page), page.Limit)
	return rows, more, nil
}

func (m *Memory) sortedUsers() []domain.User {
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// window returns up to limit+1 rows starting at the page offset
func window[T any](rows []T, page utils.Page) []T {
	start := page.Offset()
	if start >= len(rows) {
		return []T{}
	}
	end := start + page.Limit + 1
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// GetMenu returns every menu item
func (m *Memory) GetMenu(_ context.Context) ([]domain.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.MenuItem{}, m.menu...), nil
}

// AddMenuItem inserts a menu item
func (m *Memory) AddMenuItem(_ context.Context, item *domain.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = m.id("menu")
	m.menu = append(m.menu, *item)
	return nil
}

// CreateOrder inserts an order and its items
func (m *Memory) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = m.id("orders")
	for i := range order.Items {
		order.Items[i].ID = m.id("order_items")
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]domain.OrderItem(nil), order.Items...)
	m.orders = append(m.orders, stored)
	return nil
}

// ListOrders pages through a diner's orders, newest first
func (m *Memory) ListOrders(_ context.Context, dinerID uint, page utils.Page) ([]domain.Order, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var mine []domain.Order
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		if o.DinerID == dinerID {
			o.Items = append([]domain.OrderItem(nil), o.Items...)
			mine = append(mine, o)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].Date.After(mine[j].Date) })
	rows, more := utils.Trim(window(mine, page), page.Limit)
	return rows, more, nil
}

func cloneFranchise(f domain.Franchise) domain.Franchise {
	f.Stores = append([]domain.Store{}, f.Stores...)
	f.Admins = nil
	return f
}

// admins derives franchise admins from franchisee role assignments
func (m *Memory) admins(franchiseID uint) []domain.FranchiseAdmin {
	var out []domain.FranchiseAdmin
	for _, u := range m.sortedUsers() {
		if u.IsFranchiseeOf(franchiseID) {
			out = append(out, domain.FranchiseAdmin{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	return out
}

func (m *Memory) sortedFranchises() []domain.Franchise {
	out := make([]domain.Franchise, 0, len(m.franchises))
	for _, f := range m.franchises {
		out = append(out, cloneFranchise(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListFranchises pages through franchises matching a `*` name filter
func (m *Memory) ListFranchises(_ context.Context, filter string, page utils.Page) ([]domain.Franchise, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []domain.Franchise
	for _, f := range m.sortedFranchises() {
		if wildcardMatch(filter, f.Name) {
			matched = append(matched, f)
		}
	}
	rows, more := utils.Trim(window(matched, page), page.Limit)
	return rows, more, nil
}

// ListUserFranchises returns the franchises a user administers
func (m *Memory) ListUserFranchises(_ context.Context, userID uint) ([]domain.Franchise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return []domain.Franchise{}, nil
	}
	out := []domain.Franchise{}
	for _, f := range m.sortedFranchises() {
		if u.IsFranchiseeOf(f.ID) {
			f.Admins = m.admins(f.ID)
			out = append(out, f)
		}
	}
	return out, nil
}

// GetFranchise loads one franchise with stores and admins
func (m *Memory) GetFranchise(_ context.Context, id uint) (*domain.Franchise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.franchises[id]
	if !ok {
		return nil, fmt.Errorf("%w: franchise", domain.ErrNotFound)
	}
	f = cloneFranchise(f)
	f.Admins = m.admins(id)
	return &f, nil
}

// CreateFranchise inserts a franchise and grants a franchisee role to each
// admin email; an unknown email aborts the whole creation
func (m *Memory) CreateFranchise(_ context.Context, f *domain.Franchise, adminEmails []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	adminIDs := make([]uint, 0, len(adminEmails))
	for _, email := range adminEmails {
		var found *domain.User
		for _, u := range m.users {
			if u.Email == email {
				u := u
				found = &u
				break
			}
		}
		if found == nil {
			return fmt.Errorf("%w: unknown user for franchise admin %s", domain.ErrNotFound, email)
		}
		adminIDs = append(adminIDs, found.ID)
	}
	for _, existing := range m.franchises {
		if existing.Name == f.Name {
			return fmt.Errorf("%w: franchise %s already exists", domain.ErrInvalidInput, f.Name)
		}
	}
	f.ID = m.id("franchises")
	if f.Stores == nil {
		f.Stores = []domain.Store{}
	}
	m.franchises[f.ID] = cloneFranchise(*f)
	for _, uid := range adminIDs {
		u := m.users[uid]
		role := domain.FranchiseeOf(f.ID)
		role.ID = m.id("user_roles")
		role.UserID = uid
		u.Roles = append(append([]domain.RoleAssignment(nil), u.Roles...), role)
		m.users[uid] = u
	}
	f.Admins = m.admins(f.ID)
	return nil
}

// DeleteFranchise removes a franchise, its stores and the franchisee roles
// scoped to it
func (m *Memory) DeleteFranchise(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.franchises[id]; !ok {
		return fmt.Errorf("%w: franchise", domain.ErrNotFound)
	}
	delete(m.franchises, id)
	for uid, u := range m.users {
		kept := make([]domain.RoleAssignment, 0, len(u.Roles))
		for _, r := range u.Roles {
			if r.Role == domain.RoleFranchisee && r.ObjectID == id {
				continue
			}
			kept = append(kept, r)
		}
		u.Roles = kept
		m.users[uid] = u
	}
	return nil
}

// CreateStore adds a store to an existing franchise
func (m *Memory) CreateStore(_ context.Context, st *domain.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.franchises[st.FranchiseID]
	if !ok {
		return fmt.Errorf("%w: franchise", domain.ErrNotFound)
	}
	st.ID = m.id("stores")
	f.Stores = append(append([]domain.Store{}, f.Stores...), *st)
	m.franchises[f.ID] = f
	return nil
}

// DeleteStore removes a store that belongs to the given franchise
func (m *Memory) DeleteStore(_ context.Context, franchiseID, storeID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.franchises[franchiseID]
	if !ok {
		return fmt.Errorf("%w: store", domain.ErrNotFound)
	}
	kept := make([]domain.Store, 0, len(f.Stores))
	for _, s := range f.Stores {
		if s.ID != storeID {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(f.Stores) {
		return fmt.Errorf("%w: store", domain.ErrNotFound)
	}
	f.Stores = kept
	m.franchises[franchiseID] = f
	return nil
}
