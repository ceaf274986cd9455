package deckfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

// XMage directive names.
const (
	directiveName   = "NAME"
	directiveAuthor = "AUTHOR"
)

// collectorNumberReplacer maps the non-ASCII collector number symbols XMage
// cannot handle to the ASCII stand-ins its image downloader expects.
var collectorNumberReplacer = strings.NewReplacer(
	"†", "+", // Arabian Nights, Portal Starter Deck, The Dark
	"★", "*", // Planeshift, Deckmasters, War of the Spark JP planeswalkers
)

// XMage exports cubes for XMage's deck editor.
type XMage struct{}

// Style implements Exporter.
func (XMage) Style() string { return "XMage" }

// TransformNumber returns an ASCII-only collector number.
func TransformNumber(number string) string {
	return collectorNumberReplacer.Replace(number)
}

// Format implements Exporter.
func (x XMage) Format(cube *types.Cube) string {
	var b strings.Builder
	b.WriteString(x.preamble(cube))

	for _, bucket := range bucketize(cube) {
		fmt.Fprintf(&b, "\n# %s\n", bucket.name)
		for _, item := range bucket.items {
			e := item.Entry
			fmt.Fprintf(&b, "%d [%s:%s] %s\n", item.Quantity, e.SetCode, TransformNumber(e.Number), e.Name)
		}
	}
	return b.String()
}

func (XMage) preamble(cube *types.Cube) string {
	return fmt.Sprintf("%s:%s (%s)\n%s:%s\n",
		directiveName, cube.Name, cube.Date.Format("02.01.2006"),
		directiveAuthor, cube.Author)
}

type bucket struct {
	name  string
	items []types.Item
}

// bucketize groups items by bucket in order of first appearance and sorts
// each bucket by entry, then quantity.
func bucketize(cube *types.Cube) []bucket {
	var buckets []bucket
	index := make(map[string]int)

	for _, item := range cube.Items() {
		i, ok := index[item.Entry.Bucket]
		if !ok {
			i = len(buckets)
			index[item.Entry.Bucket] = i
			buckets = append(buckets, bucket{name: item.Entry.Bucket})
		}
		buckets[i].items = append(buckets[i].items, item)
	}

	for _, b := range buckets {
		sort.SliceStable(b.items, func(i, j int) bool {
			a, c := b.items[i], b.items[j]
			if a.Entry != c.Entry {
				return a.Entry.Less(c.Entry)
			}
			return a.Quantity < c.Quantity
		})
	}
	return buckets
}
