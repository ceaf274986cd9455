package types

import "time"

// Run records one generate invocation in the run history.
type Run struct {
	RunID     string    `json:"run_id"`     // UUID v7, generated when recorded.
	CubeName  string    `json:"cube_name"`  // Name of the scraped cube.
	CubeDate  time.Time `json:"cube_date"`  // Publication date of the cube list.
	Author    string    `json:"author"`     // Author of the cube list.
	Source    string    `json:"source"`     // URL or file the list was scraped from.
	Output    string    `json:"output"`     // Path of the written deck file.
	Cards     int       `json:"cards"`      // Total cards, counting copies.
	Distinct  int       `json:"distinct"`   // Distinct entries.
	CreatedAt time.Time `json:"created_at"` // Time the run was recorded.
}
