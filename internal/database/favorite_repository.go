package database

import (
	"errors"
	"fmt"

	"github.com/taipeitrip/booking-backend/internal/models"
)

// ErrDuplicateFavorite indicates the (member, attraction) pair is already
// in the favorites set
var ErrDuplicateFavorite = errors.New("attraction is already a favorite")

// FavoriteRepository handles the per-member favorites set
type FavoriteRepository struct {
	db DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db DB) *FavoriteRepository {
	return &FavoriteRepository{
		db: db,
	}
}

// Add inserts a favorite pair. The composite primary key enforces set
// semantics; a unique violation surfaces as ErrDuplicateFavorite.
func (r *FavoriteRepository) Add(memberID, attractionID int64) error {
	query := `
		INSERT INTO favorites (member_id, attraction_id)
		VALUES ($1, $2)
	`

	if _, err := r.db.Exec(query, memberID, attractionID); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateFavorite
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

// Remove deletes a favorite pair. Idempotent no-op if absent.
func (r *FavoriteRepository) Remove(memberID, attractionID int64) error {
	query := `
		DELETE FROM favorites
		WHERE member_id = $1 AND attraction_id = $2
	`

	if _, err := r.db.Exec(query, memberID, attractionID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	return nil
}

// List returns the member's favorite attractions with name and cover image
func (r *FavoriteRepository) List(memberID int64) ([]models.FavoriteEntry, error) {
	var entries []models.FavoriteEntry

	query := `
		SELECT f.attraction_id,
		       a.name,
		       COALESCE((SELECT i.image_url FROM images i WHERE i.attraction_id = a.id ORDER BY i.id LIMIT 1), '') AS image
		FROM favorites f
		JOIN attractions a ON a.id = f.attraction_id
		WHERE f.member_id = $1
		ORDER BY f.attraction_id ASC
	`

	if err := r.db.Select(&entries, query, memberID); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	if entries == nil {
		entries = []models.FavoriteEntry{}
	}

	return entries, nil
}
