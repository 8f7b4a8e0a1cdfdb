package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMemberRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO members`).
			WithArgs("Alice", "alice@example.com", "bcrypt-hash").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

		member, err := repo.Create("Alice", "alice@example.com", "bcrypt-hash")
		require.NoError(t, err)
		assert.Equal(t, int64(1), member.ID)
		assert.Equal(t, "alice@example.com", member.Email)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO members`).
			WithArgs("Alice", "alice@example.com", "bcrypt-hash").
			WillReturnError(&pq.Error{Code: "23505"})

		member, err := repo.Create("Alice", "alice@example.com", "bcrypt-hash")
		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.Nil(t, member)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO members`).
			WillReturnError(fmt.Errorf("database error"))

		member, err := repo.Create("Alice", "alice@example.com", "bcrypt-hash")
		assert.Error(t, err)
		assert.Nil(t, member)
		assert.Contains(t, err.Error(), "failed to create member")
	})
}

func TestGetMemberByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMemberRepository(db)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at`).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
				AddRow(int64(1), "Alice", "alice@example.com", "bcrypt-hash", time.Now()))

		member, err := repo.GetByEmail("alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, member)
		assert.Equal(t, "Alice", member.Name)
		assert.Equal(t, "bcrypt-hash", member.PasswordHash)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at`).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}))

		member, err := repo.GetByEmail("nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, member)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
