package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

// faceSeparator joins the faces of split cards ("Fire // Ice").
const faceSeparator = " // "

// CardSource lists printings matching a card name.
type CardSource interface {
	Cards(ctx context.Context, name string) ([]types.Printing, error)
}

// PrintingCache is the part of types.Store the Mapper uses.
type PrintingCache interface {
	GetPrinting(name string, maxAge time.Duration) (types.Entry, error)
	PutPrinting(name string, entry types.Entry) error
}

// Mapper resolves raw entries to their oldest eligible printing. Each name
// is resolved at most once per Mapper; concurrent calls for the same name
// share one lookup.
type Mapper struct {
	extras *ExtraRepository
	sets   *SetRepository
	cards  CardSource
	cache  PrintingCache
	ttl    time.Duration
	log    *zap.SugaredLogger

	group singleflight.Group
	mu    sync.Mutex
	memo  map[string]types.Entry
}

// NewMapper returns a Mapper. cache may be nil.
func NewMapper(extras *ExtraRepository, sets *SetRepository, cards CardSource, cache PrintingCache, ttl time.Duration, log *zap.SugaredLogger) *Mapper {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Mapper{
		extras: extras,
		sets:   sets,
		cards:  cards,
		cache:  cache,
		ttl:    ttl,
		log:    log,
		memo:   make(map[string]types.Entry),
	}
}

// Map resolves raw to a printing and keeps its bucket.
func (m *Mapper) Map(ctx context.Context, raw types.RawEntry) (types.Entry, error) {
	e, ok := m.memoized(raw.Name)
	if !ok {
		v, err, _ := m.group.Do(raw.Name, func() (any, error) {
			// A lookup that finished between the memo check and Do already
			// stored its result.
			if e, ok := m.memoized(raw.Name); ok {
				return e, nil
			}
			e, err := m.resolve(ctx, raw.Name)
			if err != nil {
				return nil, err
			}
			m.mu.Lock()
			m.memo[raw.Name] = e
			m.mu.Unlock()
			return e, nil
		})
		if err != nil {
			return types.Entry{}, err
		}
		e = v.(types.Entry)
	}

	e.Bucket = raw.Bucket
	return e, nil
}

func (m *Mapper) memoized(name string) (types.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.memo[name]
	return e, ok
}

func (m *Mapper) resolve(ctx context.Context, name string) (types.Entry, error) {
	m.log.Debugf("Obtaining card '%s'", name)

	var (
		e   types.Entry
		err error
	)
	switch {
	case m.extras.Contains(name):
		m.log.Infof("Fetching card '%s' (source: extras)", name)
		code, number, _ := m.extras.Lookup(name)
		e = types.Entry{Name: name, SetCode: code, Number: number}
	default:
		e, err = m.fromCache(ctx, name)
		if errors.Is(err, types.ErrNotFound) {
			m.log.Infof("Fetching card '%s' (source: MTG API)", name)
			e, err = m.fetchOldest(ctx, name)
		}
		if err != nil {
			return types.Entry{}, err
		}
	}

	m.log.Infof("Obtained card '%s' (set code: %s, collector number: %s)", e.Name, e.SetCode, e.Number)
	return e, nil
}

// fromCache returns the cached printing for name while its set is still
// eligible. Blacklisted or unknown sets count as a miss.
func (m *Mapper) fromCache(ctx context.Context, name string) (types.Entry, error) {
	if m.cache == nil {
		return types.Entry{}, types.ErrNotFound
	}
	e, err := m.cache.GetPrinting(name, m.ttl)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			m.log.Warnw("printing cache unavailable", "name", name, "error", err)
		}
		return types.Entry{}, types.ErrNotFound
	}

	if err := m.sets.Load(ctx); err != nil {
		return types.Entry{}, err
	}
	if !m.sets.Contains(e.SetCode) {
		m.log.Debugf("Cached printing of '%s' is from ineligible set %s", name, e.SetCode)
		return types.Entry{}, types.ErrNotFound
	}

	m.log.Infof("Fetching card '%s' (source: cache)", name)
	return e, nil
}

// fetchOldest queries the API by front-face name and keeps the oldest
// exact-name printing from an eligible set.
func (m *Mapper) fetchOldest(ctx context.Context, name string) (types.Entry, error) {
	if err := m.sets.Load(ctx); err != nil {
		return types.Entry{}, err
	}

	query := frontFace(name)
	printings, err := m.cards.Cards(ctx, query)
	if err != nil {
		return types.Entry{}, fmt.Errorf("query %q: %w", query, err)
	}

	var (
		best  types.Printing
		found bool
		hits  int
	)
	for _, p := range printings {
		if p.Name != query || !m.sets.Contains(p.SetCode) {
			continue
		}
		hits++
		if !found || ComparePrintings(p, best, m.sets) < 0 {
			best, found = p, true
		}
	}
	m.log.Debugf("Returned %d hits for cards with '%s'", hits, query)

	if !found {
		return types.Entry{}, fmt.Errorf("%w: %s", types.ErrCardNotFound, name)
	}

	e := types.Entry{Name: fullName(best, name), SetCode: best.SetCode, Number: best.Number}
	if m.cache != nil {
		if err := m.cache.PutPrinting(name, e); err != nil {
			m.log.Warnw("cannot cache printing", "name", name, "error", err)
		}
	}
	return e, nil
}

// frontFace returns the first face of a split card name. Every face has a
// unique name, so one face is enough to query by.
func frontFace(name string) string {
	if front, _, ok := strings.Cut(name, faceSeparator); ok {
		return front
	}
	return name
}

// fullName restores a multi-face name when the requested name is not itself
// one of the card's face names.
func fullName(p types.Printing, requested string) string {
	if len(p.Names) == 0 {
		return p.Name
	}
	for _, n := range p.Names {
		if n == requested {
			return p.Name
		}
	}
	return strings.Join(p.Names, faceSeparator)
}
