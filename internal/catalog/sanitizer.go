// Package catalog resolves scraped cube rows to concrete card printings.
package catalog

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// knownTypos maps misspellings seen in published cube lists (Mothership,
// CFB, SCG) to the Oracle name.
var knownTypos = map[string]string{
	"Azorious Signet":             "Azorius Signet",
	"Elspeth, Knight Errant":      "Elspeth, Knight-Errant",
	"Hazoret, the Fervent":        "Hazoret the Fervent",
	"Jace, Vryns Prodigy":         "Jace, Vryn's Prodigy",
	"Leonin Relic-Warden":         "Leonin Relic-Warder",
	"Nahiri the Harbinger":        "Nahiri, the Harbinger",
	"Sakura Tribe Elder":          "Sakura-Tribe Elder",
	"Smugglers Copter":            "Smuggler's Copter",
	"Ulamog the Ceaseless Hunger": "Ulamog, the Ceaseless Hunger",
}

// Sanitizer fixes card names before they are resolved.
type Sanitizer struct {
	typos map[string]string
	log   *zap.SugaredLogger
}

// NewSanitizer returns a Sanitizer with the built-in typo table plus extra.
// Entries in extra win over built-in ones.
func NewSanitizer(log *zap.SugaredLogger, extra map[string]string) *Sanitizer {
	typos := make(map[string]string, len(knownTypos)+len(extra))
	for k, v := range knownTypos {
		typos[k] = v
	}
	for k, v := range extra {
		typos[norm.NFC.String(k)] = v
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Sanitizer{typos: typos, log: log}
}

// Contains reports whether name is a known typo.
func (s *Sanitizer) Contains(name string) bool {
	_, ok := s.typos[name]
	return ok
}

// Sanitize trims and NFC-normalizes name, then replaces it if it is a known typo.
func (s *Sanitizer) Sanitize(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	fixed, ok := s.typos[name]
	if !ok {
		return name
	}
	s.log.Warnf("Typo fixed: '%s' => '%s'", name, fixed)
	return fixed
}
