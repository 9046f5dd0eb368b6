package ledger

import (
	"context" // Request-scoped calls
	"fmt"     // Error wrapping
	"time"    // Activation timestamps

	"jwt_pizza_service/internal/domain" // Domain errors

	"gorm.io/gorm" // GORM ORM library
)

// AuthToken Model. One row per active token.
type AuthToken struct {
	TokenKey  string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName keeps ledger rows in auth_tokens
func (AuthToken) TableName() string { return "auth_tokens" }

// SQLLedger stores the active set in the relational database
type SQLLedger struct {
	db *gorm.DB
}

var _ Ledger = (*SQLLedger)(nil)

// NewSQLLedger builds a ledger on an open gorm connection
func NewSQLLedger(db *gorm.DB) *SQLLedger {
	return &SQLLedger{db: db}
}

// Activate records a token as usable
func (l *SQLLedger) Activate(ctx context.Context, token string, userID uint) error {
	row := AuthToken{TokenKey: Key(token), UserID: userID}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("activate token: %w", err)
	}
	return nil
}

// Deactivate removes a token; the affected-row count decides whether it was
// active, so the delete is the only statement involved
func (l *SQLLedger) Deactivate(ctx context.Context, token string) error {
	res := l.db.WithContext(ctx).Where("token_key = ?", Key(token)).Delete(&AuthToken{})
	if res.Error != nil {
		return fmt.Errorf("deactivate token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotActive
	}
	return nil
}

// IsActive reports ledger membership
func (l *SQLLedger) IsActive(ctx context.Context, token string) (bool, error) {
	var n int64
	if err := l.db.WithContext(ctx).Model(&AuthToken{}).Where("token_key = ?", Key(token)).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check token: %w", err)
	}
	return n > 0, nil
}

// DeactivateUser revokes every active token of a user
func (l *SQLLedger) DeactivateUser(ctx context.Context, userID uint) (int, error) {
	res := l.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&AuthToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("revoke user tokens: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}
