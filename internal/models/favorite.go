package models

import "fmt"

// FavoriteEntry is a liked attraction as returned by GET /api/favorite
type FavoriteEntry struct {
	AttractionID int64  `db:"attraction_id" json:"attractionId"`
	Name         string `db:"name" json:"name"`
	Image        string `db:"image" json:"image"`
}

// FavoriteRequest is the payload for POST /api/favorite
type FavoriteRequest struct {
	AttractionID int64 `json:"attractionId"`
}

// Validate checks the favorite payload
func (r *FavoriteRequest) Validate() error {
	if r.AttractionID <= 0 {
		return fmt.Errorf("attractionId is required")
	}
	return nil
}
