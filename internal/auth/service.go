// Package auth issues, verifies and revokes pizza tokens. Authenticate is the
// single choke point every protected endpoint goes through.
package auth

import (
	"context" // Request-scoped store and ledger calls
	"errors"  // Sentinel matching
	"fmt"     // Error wrapping
	"strings" // Input trimming

	"jwt_pizza_service/internal/domain" // Domain models and errors
	"jwt_pizza_service/internal/ledger" // Active token ledger
	"jwt_pizza_service/internal/utils"  // Token codec

	"github.com/google/uuid"     // Per-user token nonce
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// UserStore is the credential store the service reads and writes
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id uint) error
}

// Service orchestrates register, login, logout and authenticate
type Service struct {
	users  UserStore
	codec  *utils.TokenCodec
	ledger ledger.Ledger
	cost   int
}

// NewService wires the credential store, codec and ledger together
func NewService(users UserStore, codec *utils.TokenCodec, l ledger.Ledger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{users: users, codec: codec, ledger: l, cost: bcryptCost}
}

// RegisterInput carries a new user. Roles is honoured only for trusted
// internal callers; HTTP registration always leaves it empty.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Roles    []domain.RoleAssignment
}

// Register creates a user and returns it with a fresh active token
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, "", fmt.Errorf("%w: name, email, and password are required", domain.ErrInvalidInput)
	}
	roles := in.Roles
	if len(roles) == 0 {
		roles = []domain.RoleAssignment{domain.Diner()}
	}
	for _, r := range roles {
		if err := r.Validate(); err != nil {
			return nil, "", err
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Nonce:    uuid.NewString(),
		Roles:    append([]domain.RoleAssignment(nil), roles...),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"roles":   len(user.Roles),
	}).Info("User registered")
	return user, token, nil
}

// Login checks credentials and activates a new token. Other active tokens of
// the same user stay valid.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	logrus.WithField("user_id", user.ID).Info("User logged in")
	return user, token, nil
}

// Logout deactivates the token. A token that is not active, including one
// already logged out, yields domain.ErrUnauthorized.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return domain.ErrUnauthorized
	}
	if err := s.ledger.Deactivate(ctx, token); err != nil {
		if errors.Is(err, domain.ErrNotActive) {
			return domain.ErrUnauthorized
		}
		return err
	}
	logrus.WithField("user_id", claims.UserID).Info("User logged out")
	return nil
}

// Authenticate resolves a bearer token to the current user record. The
// signature check and the ledger check are both required, and the token must
// name the record it was issued for: an id reused by a later user, such as
// after an in-memory store restarts, does not carry the old token over.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	active, err := s.ledger.IsActive(ctx, token)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if claims.Nonce != user.Nonce {
		logrus.WithField("user_id", user.ID).Warn("Token issued for a previous holder of this user id")
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// UpdateInput holds optional profile changes
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateUser applies profile changes and issues a fresh token carrying the
// new claims. Authorization is the caller's job.
func (s *Service) UpdateUser(ctx context.Context, userID uint, in UpdateInput) (*domain.User, string, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, "", fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		user.Name = *in.Name
	}
	if in.Email != nil {
		if strings.TrimSpace(*in.Email) == "" {
			return nil, "", fmt.Errorf("%w: email cannot be empty", domain.ErrInvalidInput)
		}
		user.Email = *in.Email
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, "", fmt.Errorf("%w: password cannot be empty", domain.ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.cost)
		if err != nil {
			return nil, "", fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hash)
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	logrus.WithField("user_id", user.ID).Info("User updated")
	return user, token, nil
}

// DeleteUser removes the user and revokes all of its active tokens
func (s *Service) DeleteUser(ctx context.Context, userID uint) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return err
	}
	revoked, err := s.ledger.DeactivateUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("revoke tokens of deleted user: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"tokens_revoked": revoked,
	}).Info("User deleted")
	return nil
}

// issue signs a token for the user and activates it in the ledger
func (s *Service) issue(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.codec.Issue(*user)
	if err != nil {
		return "", err
	}
	if err := s.ledger.Activate(ctx, token, user.ID); err != nil {
		return "", err
	}
	return token, nil
}
