package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

type fakeSets struct {
	sets  []types.Set
	err   error
	calls int
}

func (f *fakeSets) Sets(ctx context.Context, setTypes []string) ([]types.Set, error) {
	f.calls++
	return f.sets, f.err
}

type fakeCards struct {
	mu       sync.Mutex
	printing map[string][]types.Printing
	calls    map[string]int
	err      error
}

func newFakeCards(printings ...types.Printing) *fakeCards {
	f := &fakeCards{printing: make(map[string][]types.Printing), calls: make(map[string]int)}
	for _, p := range printings {
		f.printing[p.Name] = append(f.printing[p.Name], p)
	}
	return f
}

func (f *fakeCards) Cards(ctx context.Context, name string) ([]types.Printing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if f.err != nil {
		return nil, f.err
	}
	return f.printing[name], nil
}

type memCache struct {
	mu        sync.Mutex
	sets      []types.Set
	printings map[string]types.Entry
	getErr    error
}

func newMemCache() *memCache {
	return &memCache{printings: make(map[string]types.Entry)}
}

func (c *memCache) GetSets(maxAge time.Duration) ([]types.Set, error) {
	if c.sets == nil {
		return nil, types.ErrNotFound
	}
	return c.sets, nil
}

func (c *memCache) PutSets(sets []types.Set) error {
	c.sets = sets
	return nil
}

func (c *memCache) GetPrinting(name string, maxAge time.Duration) (types.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return types.Entry{}, c.getErr
	}
	e, ok := c.printings[name]
	if !ok {
		return types.Entry{}, types.ErrNotFound
	}
	return e, nil
}

func (c *memCache) PutPrinting(name string, e types.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printings[name] = e
	return nil
}

var errBoom = errors.New("boom")

// testSets covers early sets plus the blacklisted ones.
var testSets = []types.Set{
	{Code: "LEA", Type: "core", ReleaseDate: "1993-08-05"},
	{Code: "LEB", Type: "core", ReleaseDate: "1993-10-04"},
	{Code: "ARN", Type: "expansion", ReleaseDate: "1993-12-17"},
	{Code: "4ED", Type: "core", ReleaseDate: "1995-04-01"},
	{Code: "APC", Type: "expansion", ReleaseDate: "2001-06-04"},
	{Code: "ISD", Type: "expansion", ReleaseDate: "2011-09-30"},
}
