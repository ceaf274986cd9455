package catalog

// ExtraPrinting locates a card that no regular set contains.
type ExtraPrinting struct {
	SetCode string `toml:"set"`
	Number  string `toml:"number"`
}

// knownExtras are released, functionally unique promotional cards that can
// appear in a cube even though they never saw a regular set.
var knownExtras = map[string]ExtraPrinting{
	// Dragon*Con (also Japanese Redemption Program)
	"Nalathni Dragon": {"PDRC", "1"},

	// HarperPrism book inserts, numbered by release date
	"Arena":              {"PHPR", "1"},
	"Sewers of Estark":   {"PHPR", "2"},
	"Windseeker Centaur": {"PHPR", "3"},
	"Giant Badger":       {"PHPR", "4"},
	"Mana Crypt":         {"PHPR", "5"},

	// Secret Lair Drop Series: The Walking Dead
	"Rick, Steadfast Leader":      {"SLD", "143"},
	"Daryl, Hunter of Walkers":    {"SLD", "144"},
	"Glenn, the Voice of Calm":    {"SLD", "145"},
	"Michonne, Ruthless Survivor": {"SLD", "146"},
	"Negan, the Cold-Blooded":     {"SLD", "147"},
	"Lucille":                     {"SLD", "581"},

	// MicroProse promo (Astral card from Shandalar); legal nowhere
	"Aswan Jaguar": {"PMIC", "1"},

	// Magic Online only
	"Gleemox": {"PRM", "26584"},
}

// ExtraRepository resolves promotional cards without querying the API.
type ExtraRepository struct {
	cards map[string]ExtraPrinting
}

// NewExtraRepository returns the built-in extras plus extra, which wins on
// conflicts.
func NewExtraRepository(extra map[string]ExtraPrinting) *ExtraRepository {
	cards := make(map[string]ExtraPrinting, len(knownExtras)+len(extra))
	for k, v := range knownExtras {
		cards[k] = v
	}
	for k, v := range extra {
		cards[k] = v
	}
	return &ExtraRepository{cards: cards}
}

// Contains reports whether name is resolved locally.
func (r *ExtraRepository) Contains(name string) bool {
	_, ok := r.cards[name]
	return ok
}

// Lookup returns the set code and collector number for name.
func (r *ExtraRepository) Lookup(name string) (setCode, number string, ok bool) {
	p, ok := r.cards[name]
	return p.SetCode, p.Number, ok
}

// Len returns the number of locally resolved cards.
func (r *ExtraRepository) Len() int {
	return len(r.cards)
}
