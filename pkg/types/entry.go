package types

import "time"

// RawEntry is a single row of a scraped cube list: a card name, already
// sanitized, and the bucket (colour identity section) it is listed under.
type RawEntry struct {
	Name   string
	Bucket string
}

// RawCube is a scraped cube list before any card is resolved to a printing.
type RawCube struct {
	Name    string
	Date    time.Time
	Author  string
	Entries []RawEntry
}

// Len returns the number of scraped rows.
func (r *RawCube) Len() int {
	return len(r.Entries)
}

// Entry is a cube entry resolved to a specific printing.
type Entry struct {
	Name    string
	Number  string // collector number; may contain non-digits ("mb62sb", "221s★")
	SetCode string
	Bucket  string
}

// Less orders entries by name, then collector number, set code and bucket.
func (e Entry) Less(o Entry) bool {
	if e.Name != o.Name {
		return e.Name < o.Name
	}
	if e.Number != o.Number {
		return e.Number < o.Number
	}
	if e.SetCode != o.SetCode {
		return e.SetCode < o.SetCode
	}
	return e.Bucket < o.Bucket
}
