package types

// Set is a Magic set as described by the card API.
type Set struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	ReleaseDate string `json:"releaseDate"` // ISO 8601 date, compares lexically
}

// Printing is one printing of a card as described by the card API.
type Printing struct {
	Name    string   `json:"name"`
	Names   []string `json:"names,omitempty"` // all face names of multi-face cards
	SetCode string   `json:"set"`
	Number  string   `json:"number"`
	Layout  string   `json:"layout,omitempty"`
}
