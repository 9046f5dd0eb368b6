package db

import (
	"errors"
	"regexp"
	"testing"

	"jwt_pizza_service/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverMySQL, DBUser: "root", DBPassword: "pw", DBHost: "db", DBName: "pizza"}
	assert.Equal(t, "root:pw@tcp(db:3306)/pizza?parseTime=true", DSN(cfg))

	cfg.DBPort = "3307"
	assert.Equal(t, "root:pw@tcp(db:3307)/pizza?parseTime=true", DSN(cfg))

	cfg.DBDriver = config.DriverPostgres
	assert.Equal(t, "host=db port=3307 user=root password=pw dbname=pizza sslmode=disable", DSN(cfg))

	cfg.DBPort = ""
	assert.Contains(t, DSN(cfg), "port=5432")
}

func TestDialector(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverPostgres, DBHost: "db"}
	assert.Equal(t, "postgres", Dialector(cfg).Name())

	cfg.DBDriver = config.DriverMySQL
	assert.Equal(t, "mysql", Dialector(cfg).Name())
}

func TestModelsCoverEveryTable(t *testing.T) {
	assert.Len(t, Models(), 8)
}

func TestCaseSensitiveEmailsOnMySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	conn, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	alter := regexp.QuoteMeta("ALTER TABLE `users` MODIFY `email` VARCHAR(191) NOT NULL COLLATE utf8mb4_bin")
	mock.ExpectExec(alter).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, caseSensitiveEmails(conn))

	mock.ExpectExec(alter).WillReturnError(errors.New("denied"))
	assert.ErrorContains(t, caseSensitiveEmails(conn), "email collation")
	assert.NoError(t, mock.ExpectationsWereMet())
}
