package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"backoffice/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, mock
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true},
		{"pg fk", &pgconn.PgError{Code: "23503"}, false},
		{"wrapped pg unique", fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"}), true},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"sqlite", errors.New("UNIQUE constraint failed: accounts.email"), true},
		{"other", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestUniqueViolationOn_Postgres(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "idx_employees_reference"}
	assert.True(t, UniqueViolationOn(err, "employees", "reference"))
	assert.False(t, UniqueViolationOn(err, "accounts", "email"))
}

func TestAccountRepository_CreateSurfacesPostgresUniqueViolation(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "accounts"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_accounts_email"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Account{Email: "ana@example.com", Password: "x"})

	require.Error(t, err)
	assert.True(t, UniqueViolationOn(err, "accounts", "email"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_DeleteSurfacesPostgresForeignKeyViolation(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "employees"`)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "fk_enrollments_registered_by"})
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
