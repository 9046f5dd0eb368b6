package ledger

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"jwt_pizza_service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestSQLLedgerActivate(t *testing.T) {
	db, mock := setupMockDB(t)
	l := NewSQLLedger(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `auth_tokens`")).
		WithArgs(Key("a.b.c"), 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, l.Activate(context.Background(), "a.b.c", 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLedgerDeactivateTwice(t *testing.T) {
	db, mock := setupMockDB(t)
	l := NewSQLLedger(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `auth_tokens` WHERE token_key = ?")).
		WithArgs(Key("a.b.c")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `auth_tokens` WHERE token_key = ?")).
		WithArgs(Key("a.b.c")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, l.Deactivate(context.Background(), "a.b.c"))
	assert.ErrorIs(t, l.Deactivate(context.Background(), "a.b.c"), domain.ErrNotActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLedgerIsActive(t *testing.T) {
	db, mock := setupMockDB(t)
	l := NewSQLLedger(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `auth_tokens` WHERE token_key = ?")).
		WithArgs(Key("a.b.c")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `auth_tokens` WHERE token_key = ?")).
		WithArgs(Key("x.y.z")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	active, err := l.IsActive(context.Background(), "a.b.c")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = l.IsActive(context.Background(), "x.y.z")
	require.NoError(t, err)
	assert.False(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLedgerDeactivateUser(t *testing.T) {
	db, mock := setupMockDB(t)
	l := NewSQLLedger(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `auth_tokens` WHERE user_id = ?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := l.DeactivateUser(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLedgerSurfacesDatabaseErrors(t *testing.T) {
	db, mock := setupMockDB(t)
	l := NewSQLLedger(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `auth_tokens`")).WillReturnError(boom)

	_, err := l.IsActive(context.Background(), "a.b.c")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotActive)
}
