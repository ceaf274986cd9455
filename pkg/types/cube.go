package types

import "time"

// Item pairs an entry with the number of copies in the cube.
type Item struct {
	Entry    Entry
	Quantity int
}

// Cube is a multiset of resolved entries plus the list metadata.
// Items are kept in the order each distinct entry was first added.
type Cube struct {
	Name   string
	Date   time.Time
	Author string

	order  []Entry
	counts map[Entry]int
}

// NewCube returns an empty cube with the given metadata.
func NewCube(name string, date time.Time, author string) *Cube {
	return &Cube{
		Name:   name,
		Date:   date,
		Author: author,
		counts: make(map[Entry]int),
	}
}

// Add counts one more copy of e.
func (c *Cube) Add(e Entry) {
	if c.counts == nil {
		c.counts = make(map[Entry]int)
	}
	if _, ok := c.counts[e]; !ok {
		c.order = append(c.order, e)
	}
	c.counts[e]++
}

// Quantity returns how many copies of e the cube holds.
func (c *Cube) Quantity(e Entry) int {
	return c.counts[e]
}

// Items returns every distinct entry with its quantity in insertion order.
func (c *Cube) Items() []Item {
	items := make([]Item, 0, len(c.order))
	for _, e := range c.order {
		items = append(items, Item{Entry: e, Quantity: c.counts[e]})
	}
	return items
}

// Len returns the total number of cards, counting copies.
func (c *Cube) Len() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Distinct returns the number of distinct entries.
func (c *Cube) Distinct() int {
	return len(c.order)
}
