package types

import (
	"errors"
	"time"
)

// Config holds backend selection and cache parameters for Store.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// CacheTTL bounds how old a cached set or printing may be before it is
	// fetched again. Zero disables the cache for reads.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// BackendSQLite is the only storage backend.
const BackendSQLite = "sqlite"

// DefaultCacheTTL is used when no cache_ttl is configured.
const DefaultCacheTTL = 7 * 24 * time.Hour

var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrCacheTTLInvalid = errors.New("cache ttl must not be negative")
)

var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.CacheTTL < 0 {
		return ErrCacheTTLInvalid
	}
	return nil
}
