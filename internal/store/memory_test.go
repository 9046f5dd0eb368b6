package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"jwt_pizza_service/internal/domain"
	"jwt_pizza_service/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(name string) *domain.User {
	return &domain.User{Name: name, Email: name + "@test.com", Password: "hash", Roles: []domain.RoleAssignment{domain.Diner()}}
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u := newUser("pizza diner")
	require.NoError(t, m.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, u.ID, u.Roles[0].UserID)

	assert.ErrorIs(t, m.CreateUser(ctx, newUser("pizza diner")), domain.ErrDuplicateEmail)

	got, err := m.GetUserByEmail(ctx, "pizza diner@test.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = m.GetUserByEmail(ctx, "PIZZA DINER@test.com")
	assert.ErrorIs(t, err, domain.ErrNotFound, "emails are case-sensitive")

	got.Roles = append(got.Roles, domain.Admin())
	again, err := m.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, again.Roles, 1, "returned users must not alias stored roles")

	other := newUser("other")
	require.NoError(t, m.CreateUser(ctx, other))
	other.Email = u.Email
	assert.ErrorIs(t, m.UpdateUser(ctx, other), domain.ErrDuplicateEmail)

	other.Email = "fresh@test.com"
	other.Name = "renamed"
	require.NoError(t, m.UpdateUser(ctx, other))
	byName, err := m.FindUsersByName(ctx, "renamed")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "fresh@test.com", byName[0].Email)

	require.NoError(t, m.DeleteUser(ctx, other.ID))
	assert.ErrorIs(t, m.DeleteUser(ctx, other.ID), domain.ErrNotFound)
	_, err = m.GetUserByID(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryListUsersPagination(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for i := 0; i < 10; i++ {
		require.NoError(t, m.CreateUser(ctx, newUser(fmt.Sprintf("user%d", i))))
	}

	first, more, err := m.ListUsers(ctx, "*", utils.Page{Page: 1, Limit: 4})
	require.NoError(t, err)
	assert.Len(t, first, 4)
	assert.True(t, more)

	second, more, err := m.ListUsers(ctx, "*", utils.Page{Page: 2, Limit: 4})
	require.NoError(t, err)
	assert.Len(t, second, 4)
	assert.True(t, more)

	seen := map[uint]bool{}
	for _, u := range first {
		seen[u.ID] = true
	}
	for _, u := range second {
		assert.False(t, seen[u.ID], "page ids must be disjoint")
	}

	third, more, err := m.ListUsers(ctx, "*", utils.Page{Page: 3, Limit: 4})
	require.NoError(t, err)
	assert.Len(t, third, 2)
	assert.False(t, more)

	beyond, more, err := m.ListUsers(ctx, "", utils.Page{Page: 9, Limit: 4})
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.False(t, more)

	filtered, _, err := m.ListUsers(ctx, "user1*", utils.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "user1", filtered[0].Name)
}

func TestMemoryOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		o := &domain.Order{DinerID: 1, FranchiseID: 1, StoreID: 1, Date: base.Add(time.Duration(i) * time.Minute),
			Items: []domain.OrderItem{{MenuID: 1, Description: "Veggie", Price: 0.05}}}
		require.NoError(t, m.CreateOrder(ctx, o))
		assert.Equal(t, o.ID, o.Items[0].OrderID)
	}
	require.NoError(t, m.CreateOrder(ctx, &domain.Order{DinerID: 2, Date: base}))

	orders, more, err := m.ListOrders(ctx, 1, utils.Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.True(t, more)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].Date.After(orders[1].Date))
	assert.Equal(t, "Veggie", orders[0].Items[0].Description)
}

func TestMemoryMenu(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.AddMenuItem(ctx, &domain.MenuItem{Title: "Veggie", Price: 0.0038}))
	require.NoError(t, m.AddMenuItem(ctx, &domain.MenuItem{Title: "Pepperoni", Price: 0.0042}))

	menu, err := m.GetMenu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, uint(1), menu[0].ID)
	assert.Equal(t, "Pepperoni", menu[1].Title)
}

func TestMemoryFranchiseLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := newUser("owner")
	require.NoError(t, m.CreateUser(ctx, owner))

	err := m.CreateFranchise(ctx, &domain.Franchise{Name: "nope"}, []string{"ghost@test.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f := &domain.Franchise{Name: "pizzaPocket"}
	require.NoError(t, m.CreateFranchise(ctx, f, []string{owner.Email}))
	require.Len(t, f.Admins, 1)
	assert.Equal(t, owner.ID, f.Admins[0].ID)

	assert.ErrorIs(t, m.CreateFranchise(ctx, &domain.Franchise{Name: "pizzaPocket"}, nil), domain.ErrInvalidInput)

	reloaded, err := m.GetUserByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsFranchiseeOf(f.ID))

	st := &domain.Store{FranchiseID: f.ID, Name: "SLC"}
	require.NoError(t, m.CreateStore(ctx, st))
	assert.ErrorIs(t, m.CreateStore(ctx, &domain.Store{FranchiseID: 99, Name: "x"}), domain.ErrNotFound)

	mine, err := m.ListUserFranchises(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "SLC", mine[0].Stores[0].Name)

	list, more, err := m.ListFranchises(ctx, "pizza*", utils.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.False(t, more)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Admins)

	got, err := m.GetFranchise(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "pizzaPocket", got.Name)
	assert.Len(t, got.Stores, 1)
	require.Len(t, got.Admins, 1)
	assert.Equal(t, owner.Email, got.Admins[0].Email)

	assert.ErrorIs(t, m.DeleteStore(ctx, f.ID, 999), domain.ErrNotFound)
	require.NoError(t, m.DeleteStore(ctx, f.ID, st.ID))

	require.NoError(t, m.DeleteFranchise(ctx, f.ID))
	_, err = m.GetFranchise(ctx, f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, m.DeleteFranchise(ctx, f.ID), domain.ErrNotFound)
	reloaded, err = m.GetUserByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsFranchiseeOf(f.ID))
	assert.Len(t, reloaded.Roles, 1)
}

func TestMemoryConcurrentRegistrationKeepsEmailsUnique(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.CreateUser(ctx, newUser("same"))
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
		}
	}
	assert.Equal(t, 1, created)
}

func TestWildcardMatch(t *testing.T) {
	tests := []struct {
		filter, name string
		want         bool
	}{
		{"", "anything", true},
		{"*", "anything", true},
		{"pizza", "pizza", true},
		{"pizza", "pizzas", false},
		{"pizza*", "pizzaPocket", true},
		{"*Pocket", "pizzaPocket", true},
		{"*za*ck*", "pizzaPocket", true},
		{"*za*zz*", "pizzaPocket", false},
		{"a*b", "ab", true},
		{"a*b", "acb", true},
		{"a*b", "acbc", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wildcardMatch(tt.filter, tt.name), "%q vs %q", tt.filter, tt.name)
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%", likePattern(""))
	assert.Equal(t, "%", likePattern("*"))
	assert.Equal(t, "pizza%", likePattern("pizza*"))
}
