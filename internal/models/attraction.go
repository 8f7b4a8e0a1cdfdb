package models

// Attraction represents a catalog entry with its images
type Attraction struct {
	ID          int64    `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Category    string   `db:"category" json:"category"`
	Description string   `db:"description" json:"description"`
	Address     string   `db:"address" json:"address"`
	Transport   string   `db:"transport" json:"transport"`
	MRT         *string  `db:"mrt" json:"mrt"`
	Lat         float64  `db:"lat" json:"lat"`
	Lng         float64  `db:"lng" json:"lng"`
	Images      []string `json:"images"`
}

// AttractionSummary is the slim attraction view embedded in booking and
// order responses
type AttractionSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Image   string `json:"image"`
}
