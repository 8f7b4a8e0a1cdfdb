package database

import (
	"database/sql"
	"fmt"

	"github.com/taipeitrip/booking-backend/internal/models"
)

// AttractionPageSize is the number of attractions per catalog page
const AttractionPageSize = 12

// AttractionRepository reads the attraction catalog. The catalog is
// read-only to this service.
type AttractionRepository struct {
	db DB
}

// NewAttractionRepository creates a new attraction repository
func NewAttractionRepository(db DB) *AttractionRepository {
	return &AttractionRepository{
		db: db,
	}
}

// List returns one page of attractions with their images and, when more
// results remain, the next page index. A keyword matches the attraction
// name as a substring or the MRT station name exactly. One extra row is
// fetched to probe for the next page.
func (r *AttractionRepository) List(page int, keyword string) ([]models.Attraction, *int, error) {
	limit := AttractionPageSize
	offset := page * limit

	query := `
		SELECT a.id, a.name, a.category, a.description, a.address,
		       a.transport, a.mrt, a.lat, a.lng, i.image_url
		FROM (
			SELECT * FROM attractions
	`
	args := []interface{}{}
	argPos := 1

	if keyword != "" {
		query += fmt.Sprintf(" WHERE name LIKE $%d OR mrt = $%d", argPos, argPos+1)
		args = append(args, "%"+keyword+"%", keyword)
		argPos += 2
	}

	query += fmt.Sprintf(`
			ORDER BY id ASC
			LIMIT $%d OFFSET $%d
		) a
		LEFT JOIN images i ON i.attraction_id = a.id
		ORDER BY a.id ASC, i.id ASC
	`, argPos, argPos+1)
	args = append(args, limit+1, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list attractions: %w", err)
	}
	defer rows.Close()

	attractions, err := groupAttractionRows(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextPage *int
	if len(attractions) > limit {
		attractions = attractions[:limit]
		next := page + 1
		nextPage = &next
	}

	return attractions, nextPage, nil
}

// GetByID returns one attraction with its images, or nil if it does not
// exist
func (r *AttractionRepository) GetByID(id int64) (*models.Attraction, error) {
	query := `
		SELECT a.id, a.name, a.category, a.description, a.address,
		       a.transport, a.mrt, a.lat, a.lng, i.image_url
		FROM attractions a
		LEFT JOIN images i ON i.attraction_id = a.id
		WHERE a.id = $1
		ORDER BY i.id ASC
	`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get attraction: %w", err)
	}
	defer rows.Close()

	attractions, err := groupAttractionRows(rows)
	if err != nil {
		return nil, err
	}

	if len(attractions) == 0 {
		return nil, nil // Attraction not found, return nil without error
	}

	return &attractions[0], nil
}

// Exists reports whether an attraction with the given id is in the catalog
func (r *AttractionRepository) Exists(id int64) (bool, error) {
	var count int

	query := `SELECT COUNT(*) FROM attractions WHERE id = $1`

	if err := r.db.Get(&count, query, id); err != nil {
		return false, fmt.Errorf("failed to check attraction existence: %w", err)
	}

	return count > 0, nil
}

// ListMRTs returns the distinct MRT station names that have attractions,
// most-attractions first
func (r *AttractionRepository) ListMRTs() ([]string, error) {
	var mrts []string

	query := `
		SELECT mrt
		FROM attractions
		WHERE mrt IS NOT NULL
		GROUP BY mrt
		ORDER BY COUNT(*) DESC, mrt ASC
	`

	if err := r.db.Select(&mrts, query); err != nil {
		return nil, fmt.Errorf("failed to list MRT stations: %w", err)
	}

	return mrts, nil
}

// groupAttractionRows folds joined attraction/image rows into attractions
// with image slices, preserving row order
func groupAttractionRows(rows *sql.Rows) ([]models.Attraction, error) {
	var attractions []models.Attraction
	index := make(map[int64]int)

	for rows.Next() {
		var a models.Attraction
		var imageURL sql.NullString

		if err := rows.Scan(
			&a.ID, &a.Name, &a.Category, &a.Description, &a.Address,
			&a.Transport, &a.MRT, &a.Lat, &a.Lng, &imageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attraction row: %w", err)
		}

		pos, seen := index[a.ID]
		if !seen {
			a.Images = []string{}
			attractions = append(attractions, a)
			pos = len(attractions) - 1
			index[a.ID] = pos
		}

		if imageURL.Valid && imageURL.String != "" {
			attractions[pos].Images = append(attractions[pos].Images, imageURL.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attraction rows: %w", err)
	}

	return attractions, nil
}
