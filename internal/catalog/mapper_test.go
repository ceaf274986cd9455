package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

func newTestMapper(cards *fakeCards, cache PrintingCache) *Mapper {
	sets := NewSetRepository(&fakeSets{sets: testSets}, nil, time.Hour, nil, nil)
	return NewMapper(NewExtraRepository(nil), sets, cards, cache, time.Hour, nil)
}

func TestMapper_PicksOldestEligiblePrinting(t *testing.T) {
	cards := newFakeCards(
		types.Printing{Name: "Sol Ring", SetCode: "LEA", Number: "269"}, // blacklisted
		types.Printing{Name: "Sol Ring", SetCode: "4ED", Number: "1"},   // blacklisted
		types.Printing{Name: "Sol Ring", SetCode: "ARN", Number: "1"},
		types.Printing{Name: "Sol Ring", SetCode: "LEB", Number: "270"},
		types.Printing{Name: "Sol Ring", SetCode: "PRM", Number: "1"}, // not an eligible set type
	)
	m := newTestMapper(cards, nil)

	got, err := m.Map(context.Background(), types.RawEntry{Name: "Sol Ring", Bucket: "Colorless"})
	require.NoError(t, err)
	assert.Equal(t, types.Entry{Name: "Sol Ring", SetCode: "LEB", Number: "270", Bucket: "Colorless"}, got)
}

func TestMapper_IgnoresPartialNameHits(t *testing.T) {
	cards := newFakeCards(types.Printing{Name: "Sol Ring", SetCode: "LEB", Number: "270"})
	cards.printing["Sol"] = []types.Printing{{Name: "Sol Ring", SetCode: "LEB", Number: "270"}}
	m := newTestMapper(cards, nil)

	_, err := m.Map(context.Background(), types.RawEntry{Name: "Sol"})
	assert.ErrorIs(t, err, types.ErrCardNotFound)
}

func TestMapper_SplitCard(t *testing.T) {
	cards := newFakeCards(types.Printing{Name: "Fire", Names: []string{"Fire", "Ice"}, SetCode: "APC", Number: "128a"})
	m := newTestMapper(cards, nil)

	got, err := m.Map(context.Background(), types.RawEntry{Name: "Fire // Ice", Bucket: "Multicolor"})
	require.NoError(t, err)
	assert.Equal(t, "Fire // Ice", got.Name)
	assert.Equal(t, "128a", got.Number)
	assert.Equal(t, 1, cards.calls["Fire"], "queried by front face")
}

func TestMapper_TransformCardKeepsFaceName(t *testing.T) {
	cards := newFakeCards(types.Printing{
		Name:    "Delver of Secrets",
		Names:   []string{"Delver of Secrets", "Insectile Aberration"},
		SetCode: "ISD",
		Number:  "51a",
	})
	m := newTestMapper(cards, nil)

	got, err := m.Map(context.Background(), types.RawEntry{Name: "Delver of Secrets", Bucket: "Blue"})
	require.NoError(t, err)
	assert.Equal(t, "Delver of Secrets", got.Name)
}

func TestMapper_ExtrasSkipAPI(t *testing.T) {
	cards := newFakeCards()
	m := newTestMapper(cards, nil)

	got, err := m.Map(context.Background(), types.RawEntry{Name: "Mana Crypt", Bucket: "Colorless"})
	require.NoError(t, err)
	assert.Equal(t, types.Entry{Name: "Mana Crypt", SetCode: "PHPR", Number: "5", Bucket: "Colorless"}, got)
	assert.Empty(t, cards.calls)
}

func TestMapper_MemoizesByName(t *testing.T) {
	cards := newFakeCards(types.Printing{Name: "Island", SetCode: "LEB", Number: "291"})
	m := newTestMapper(cards, nil)

	a, err := m.Map(context.Background(), types.RawEntry{Name: "Island", Bucket: "Land"})
	require.NoError(t, err)
	b, err := m.Map(context.Background(), types.RawEntry{Name: "Island", Bucket: "Blue"})
	require.NoError(t, err)

	assert.Equal(t, 1, cards.calls["Island"])
	assert.Equal(t, "Land", a.Bucket)
	assert.Equal(t, "Blue", b.Bucket, "bucket comes from the raw entry")
}

func TestMapper_Cache(t *testing.T) {
	cache := newMemCache()
	cards := newFakeCards(types.Printing{Name: "Sol Ring", SetCode: "LEB", Number: "270"})

	_, err := newTestMapper(cards, cache).Map(context.Background(), types.RawEntry{Name: "Sol Ring"})
	require.NoError(t, err)
	assert.Equal(t, types.Entry{Name: "Sol Ring", SetCode: "LEB", Number: "270"}, cache.printings["Sol Ring"])

	_, err = newTestMapper(cards, cache).Map(context.Background(), types.RawEntry{Name: "Sol Ring"})
	require.NoError(t, err)
	assert.Equal(t, 1, cards.calls["Sol Ring"], "second mapper served from cache")
}

func TestMapper_CacheHitFromBlacklistedSet(t *testing.T) {
	cache := newMemCache()
	cards := newFakeCards(
		types.Printing{Name: "Sol Ring", SetCode: "LEB", Number: "270"},
		types.Printing{Name: "Sol Ring", SetCode: "ARN", Number: "1"},
	)

	got, err := newTestMapper(cards, cache).Map(context.Background(), types.RawEntry{Name: "Sol Ring"})
	require.NoError(t, err)
	require.Equal(t, "LEB", got.SetCode)

	sets := NewSetRepository(&fakeSets{sets: testSets}, nil, time.Hour, []string{"LEB"}, nil)
	m := NewMapper(NewExtraRepository(nil), sets, cards, cache, time.Hour, nil)

	got, err = m.Map(context.Background(), types.RawEntry{Name: "Sol Ring"})
	require.NoError(t, err)
	assert.Equal(t, "ARN", got.SetCode, "cached LEB printing is no longer eligible")
	assert.Equal(t, 2, cards.calls["Sol Ring"])
	assert.Equal(t, "ARN", cache.printings["Sol Ring"].SetCode, "cache refreshed")
}

func TestMapper_CacheHitSetListUnavailable(t *testing.T) {
	cache := newMemCache()
	cache.printings["Sol Ring"] = types.Entry{Name: "Sol Ring", SetCode: "LEB", Number: "270"}

	sets := NewSetRepository(&fakeSets{err: errBoom}, nil, time.Hour, nil, nil)
	m := NewMapper(NewExtraRepository(nil), sets, newFakeCards(), cache, time.Hour, nil)

	_, err := m.Map(context.Background(), types.RawEntry{Name: "Sol Ring"})
	assert.ErrorIs(t, err, errBoom)
}

func TestMapper_BrokenCacheFallsBackToAPI(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errBoom
	cards := newFakeCards(types.Printing{Name: "Sol Ring", SetCode: "LEB", Number: "270"})

	got, err := newTestMapper(cards, cache).Map(context.Background(), types.RawEntry{Name: "Sol Ring"})
	require.NoError(t, err)
	assert.Equal(t, "LEB", got.SetCode)
}

func TestMapper_SourceError(t *testing.T) {
	cards := newFakeCards()
	cards.err = errBoom
	_, err := newTestMapper(cards, nil).Map(context.Background(), types.RawEntry{Name: "Sol Ring"})
	assert.ErrorIs(t, err, errBoom)
}

func TestBuildCube(t *testing.T) {
	cards := newFakeCards(
		types.Printing{Name: "Island", SetCode: "LEB", Number: "291"},
		types.Printing{Name: "Sol Ring", SetCode: "LEB", Number: "270"},
	)
	raw := &types.RawCube{
		Name:   "Vintage Cube",
		Date:   time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC),
		Author: "Wizards",
		Entries: []types.RawEntry{
			{Name: "Sol Ring", Bucket: "Colorless"},
			{Name: "Island", Bucket: "Land"},
			{Name: "Island", Bucket: "Land"},
			{Name: "Mana Crypt", Bucket: "Colorless"},
		},
	}

	cube, err := BuildCube(context.Background(), raw, newTestMapper(cards, nil), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, cards.calls["Island"], "duplicates resolved once")
	assert.Equal(t, "Vintage Cube", cube.Name)
	assert.Equal(t, 4, cube.Len())
	assert.Equal(t, 3, cube.Distinct())

	items := cube.Items()
	assert.Equal(t, "Sol Ring", items[0].Entry.Name, "scrape order kept")
	assert.Equal(t, "Island", items[1].Entry.Name)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, "Mana Crypt", items[2].Entry.Name)
}

func TestBuildCube_ResolvesEachNameOnce(t *testing.T) {
	cards := newFakeCards(
		types.Printing{Name: "Island", SetCode: "LEB", Number: "291"},
		types.Printing{Name: "Swamp", SetCode: "LEB", Number: "288"},
	)
	raw := &types.RawCube{Name: "Lands"}
	for i := 0; i < 40; i++ {
		name := "Island"
		if i%2 == 1 {
			name = "Swamp"
		}
		raw.Entries = append(raw.Entries, types.RawEntry{Name: name, Bucket: "Land"})
	}

	cube, err := BuildCube(context.Background(), raw, newTestMapper(cards, nil), 8)
	require.NoError(t, err)
	assert.Equal(t, 40, cube.Len())
	assert.Equal(t, 2, cube.Distinct())
	assert.Equal(t, 1, cards.calls["Island"])
	assert.Equal(t, 1, cards.calls["Swamp"])
}

func TestBuildCube_Errors(t *testing.T) {
	m := newTestMapper(newFakeCards(), nil)

	_, err := BuildCube(context.Background(), &types.RawCube{}, m, 1)
	assert.ErrorIs(t, err, types.ErrNoEntries)

	raw := &types.RawCube{Entries: []types.RawEntry{{Name: "Nonexistent Card"}}}
	_, err = BuildCube(context.Background(), raw, m, 0)
	assert.ErrorIs(t, err, types.ErrCardNotFound)
	assert.ErrorContains(t, err, "Nonexistent Card")
}
