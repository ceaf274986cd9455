package deckfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

const (
	// Extension is the only suffix XMage's file chooser accepts.
	Extension = ".dck"

	minimizedInfix = ".min"
	commentPrefix  = "#"
)

// DeckFile is an XMage deck file on disk.
type DeckFile struct {
	path string
}

// Open validates that path names an XMage deck file. The file is not read.
func Open(path string) (*DeckFile, error) {
	if filepath.Ext(path) != Extension {
		return nil, fmt.Errorf("%w: '%s'", types.ErrInvalidDeckFile, path)
	}
	return &DeckFile{path: path}, nil
}

func (d *DeckFile) String() string { return d.path }

// MinimizedName returns "<stem>.min.dck" in the directory of the deck.
func (d *DeckFile) MinimizedName() string {
	dir, base := filepath.Split(d.path)
	stem := strings.TrimSuffix(base, Extension)
	return filepath.Join(dir, stem+minimizedInfix+Extension)
}

// Minimize writes the deck without comments and blank lines to to, or to
// MinimizedName when to is empty. It returns the written path and the
// number of lines kept.
func (d *DeckFile) Minimize(to string) (string, int, error) {
	if to == "" {
		to = d.MinimizedName()
	}

	in, err := os.Open(d.path)
	if err != nil {
		return "", 0, err
	}
	defer in.Close()

	out, err := os.Create(to)
	if err != nil {
		return "", 0, err
	}

	kept := 0
	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if IsIgnored(line) {
			continue
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			out.Close()
			return "", 0, err
		}
		kept++
	}
	if err := scanner.Err(); err != nil {
		out.Close()
		return "", 0, fmt.Errorf("read %s: %w", d.path, err)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return "", 0, err
	}
	if err := out.Close(); err != nil {
		return "", 0, err
	}
	return to, kept, nil
}

// IsIgnored reports whether XMage's importer skips line: blank lines and
// lines starting with '#'.
func IsIgnored(line string) bool {
	return strings.TrimSpace(line) == "" || strings.HasPrefix(line, commentPrefix)
}
