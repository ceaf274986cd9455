package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Overrides extend the built-in typo, extras and blacklist tables. They are
// read from a TOML file:
//
//	blacklist = ["SLD"]
//
//	[typos]
//	"Jace Vryns Prodigy" = "Jace, Vryn's Prodigy"
//
//	[extras."Mana Crypt"]
//	set = "PHPR"
//	number = "5"
type Overrides struct {
	Typos     map[string]string        `toml:"typos"`
	Extras    map[string]ExtraPrinting `toml:"extras"`
	Blacklist []string                 `toml:"blacklist"`
}

// LoadOverrides decodes the overrides file at path. An empty path yields
// empty overrides. Unknown keys and incomplete extras are errors.
func LoadOverrides(path string) (*Overrides, error) {
	var o Overrides
	if path == "" {
		return &o, nil
	}

	md, err := toml.DecodeFile(path, &o)
	if err != nil {
		return nil, fmt.Errorf("decode overrides %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("overrides %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	for name, p := range o.Extras {
		if p.SetCode == "" || p.Number == "" {
			return nil, fmt.Errorf("overrides %s: extra %q needs both set and number", path, name)
		}
	}
	return &o, nil
}
