package cli

import (
	"fmt"

	"github.com/mesh-intelligence/xcube/internal/sqlite"
)

// openStore resolves the store configuration and attaches a SQLite backend.
// The caller must Detach it.
func (a *app) openStore() (*sqlite.Backend, error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, err
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	a.log.Debugf("Store attached at %s", cfg.DataDir)
	return backend, nil
}
