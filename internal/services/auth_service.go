package services

import (
	"errors"
	"fmt"

	"github.com/taipeitrip/booking-backend/internal/database"
	"github.com/taipeitrip/booking-backend/internal/models"
	"github.com/taipeitrip/booking-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password, so sign-in failures cannot be used to enumerate members
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles member registration and sign-in
type AuthService struct {
	members    *database.MemberRepository
	jwtService *jwt.Service
}

// NewAuthService creates a new auth service
func NewAuthService(members *database.MemberRepository, jwtService *jwt.Service) *AuthService {
	return &AuthService{
		members:    members,
		jwtService: jwtService,
	}
}

// Register creates a new member account. The duplicate-email check races
// with concurrent registrations; the unique index in the repository is the
// authoritative guard.
func (s *AuthService) Register(name, email, password string) (*models.Member, error) {
	existing, err := s.members.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, database.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.members.Create(name, email, string(hash))
}

// SignIn verifies credentials and issues a session token
func (s *AuthService) SignIn(email, password string) (string, error) {
	member, err := s.members.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(member.ID, member.Name, member.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	return token, nil
}
