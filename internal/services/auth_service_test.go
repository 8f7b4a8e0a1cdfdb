package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taipeitrip/booking-backend/internal/database"
	"github.com/taipeitrip/booking-backend/pkg/jwt"
)

var memberColumns = []string{"id", "name", "email", "password_hash", "created_at"}

func newMockDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock, *jwt.Service) {
	db, mock := newMockDB(t)
	jwtService := jwt.NewService("test-secret", time.Hour)
	return NewAuthService(database.NewMemberRepository(db), jwtService), mock, jwtService
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		service, mock, _ := newAuthService(t)

		mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at`).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(memberColumns))
		mock.ExpectQuery(`INSERT INTO members`).
			WithArgs("Alice", "alice@example.com", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

		member, err := service.Register("Alice", "alice@example.com", "secretpw")
		require.NoError(t, err)
		assert.Equal(t, int64(1), member.ID)
		assert.Equal(t, "alice@example.com", member.Email)
		// The stored hash must verify against the original password and
		// must never be the plaintext itself.
		assert.NotEqual(t, "secretpw", member.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte("secretpw")))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		service, mock, _ := newAuthService(t)

		mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at`).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(memberColumns).
				AddRow(int64(1), "Alice", "alice@example.com", "hash", time.Now()))

		member, err := service.Register("Alice Again", "alice@example.com", "otherpw")
		assert.ErrorIs(t, err, database.ErrDuplicateEmail)
		assert.Nil(t, member)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSignIn(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secretpw"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		service, mock, jwtService := newAuthService(t)

		mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at`).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(memberColumns).
				AddRow(int64(1), "Alice", "alice@example.com", string(hash), time.Now()))

		token, err := service.SignIn("alice@example.com", "secretpw")
		require.NoError(t, err)

		claims, err := jwtService.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.MemberID)
		assert.Equal(t, "alice@example.com", claims.Email)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		service, mock, _ := newAuthService(t)

		mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at`).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows(memberColumns))

		token, err := service.SignIn("nobody@example.com", "secretpw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		service, mock, _ := newAuthService(t)

		mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at`).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(memberColumns).
				AddRow(int64(1), "Alice", "alice@example.com", string(hash), time.Now()))

		token, err := service.SignIn("alice@example.com", "wrongpw")
		// Wrong password and unknown email are indistinguishable to the caller
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
	})
}
