package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/taipeitrip/booking-backend/internal/models"
)

// ErrDuplicateEmail indicates a registration against an email that is
// already taken
var ErrDuplicateEmail = errors.New("email is already registered")

// MemberRepository handles member database operations
type MemberRepository struct {
	db DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db DB) *MemberRepository {
	return &MemberRepository{
		db: db,
	}
}

// Create inserts a new member. The unique index on email is the final
// arbiter against concurrent duplicate registrations; a violation is
// reported as ErrDuplicateEmail and never overwrites an existing row.
func (r *MemberRepository) Create(name, email, passwordHash string) (*models.Member, error) {
	member := &models.Member{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	query := `
		INSERT INTO members (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(query, name, email, passwordHash).Scan(&member.ID, &member.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return member, nil
}

// GetByEmail retrieves a member by login email
func (r *MemberRepository) GetByEmail(email string) (*models.Member, error) {
	var member models.Member

	query := `
		SELECT id, name, email, password_hash, created_at
		FROM members
		WHERE email = $1
	`

	err := r.db.Get(&member, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Member not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}

	return &member, nil
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(id int64) (*models.Member, error) {
	var member models.Member

	query := `
		SELECT id, name, email, password_hash, created_at
		FROM members
		WHERE id = $1
	`

	err := r.db.Get(&member, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member by ID: %w", err)
	}

	return &member, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
