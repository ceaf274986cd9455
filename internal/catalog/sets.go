package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

// SetTypes are the set types whose new cards are functionally unique.
// Modern Horizons and its successors are draft_innovation.
var SetTypes = []string{
	// primary products
	"starter", "core", "expansion",
	// supplementary products
	"commander", "draft_innovation", "planechase", "archenemy",
}

// BlacklistedSets never supply a cube printing. Both are reprint-only or
// fully reprinted elsewhere.
var BlacklistedSets = []string{
	"LEA", // Limited Edition Alpha: very rounded corners
	"4ED", // Fourth Edition: alternate print runs
}

// SetSource lists sets of the given types.
type SetSource interface {
	Sets(ctx context.Context, setTypes []string) ([]types.Set, error)
}

// SetCache is the part of types.Store the SetRepository uses.
type SetCache interface {
	GetSets(maxAge time.Duration) ([]types.Set, error)
	PutSets(sets []types.Set) error
}

// SetRepository holds the sets printings may come from. It loads lazily on
// first use and is safe for concurrent use.
type SetRepository struct {
	source    SetSource
	cache     SetCache
	ttl       time.Duration
	blacklist map[string]bool
	log       *zap.SugaredLogger

	mu     sync.Mutex
	loaded bool
	sets   map[string]types.Set
}

// NewSetRepository returns a repository backed by source. cache may be nil.
// extraBlacklist is added to BlacklistedSets.
func NewSetRepository(source SetSource, cache SetCache, ttl time.Duration, extraBlacklist []string, log *zap.SugaredLogger) *SetRepository {
	blacklist := make(map[string]bool)
	for _, code := range BlacklistedSets {
		blacklist[code] = true
	}
	for _, code := range extraBlacklist {
		blacklist[code] = true
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SetRepository{
		source:    source,
		cache:     cache,
		ttl:       ttl,
		blacklist: blacklist,
		log:       log,
	}
}

// Load fetches the set list if it has not been loaded yet.
func (r *SetRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return nil
	}

	all, err := r.fetch(ctx)
	if err != nil {
		return err
	}

	r.sets = make(map[string]types.Set, len(all))
	for _, s := range all {
		if r.blacklist[s.Code] {
			continue
		}
		r.sets[s.Code] = s
	}
	r.loaded = true
	r.log.Infof("Set data obtained: %d sets total", len(r.sets))
	return nil
}

func (r *SetRepository) fetch(ctx context.Context) ([]types.Set, error) {
	if r.cache != nil {
		sets, err := r.cache.GetSets(r.ttl)
		switch {
		case err == nil:
			r.log.Debugf("Using %d cached sets", len(sets))
			return sets, nil
		case !errors.Is(err, types.ErrNotFound):
			r.log.Warnw("set cache unavailable", "error", err)
		}
	}

	r.log.Infof("Fetching set data (ignored: %v)", r.blacklistCodes())
	r.log.Debugf("For set types: %v", SetTypes)
	sets, err := r.source.Sets(ctx, SetTypes)
	if err != nil {
		return nil, fmt.Errorf("fetch sets: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.PutSets(sets); err != nil {
			r.log.Warnw("cannot cache sets", "error", err)
		}
	}
	return sets, nil
}

func (r *SetRepository) blacklistCodes() []string {
	codes := make([]string, 0, len(r.blacklist))
	for code := range r.blacklist {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Get returns the set with code. Load must have succeeded first.
func (r *SetRepository) Get(code string) (types.Set, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sets[code]
	return s, ok
}

// Contains reports whether printings from code are eligible.
func (r *SetRepository) Contains(code string) bool {
	_, ok := r.Get(code)
	return ok
}

// Len returns the number of eligible sets.
func (r *SetRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}
