package inventory

import "sort"

// CountEntry is one group in a ranked listing.
type CountEntry struct {
	Key   string
	Count int
}

// Counter counts occurrences per key while remembering first-insertion
// order, so that rankings break count ties deterministically.
type Counter struct {
	counts map[string]int
	order  []string
}

func (c *Counter) Add(key string) {
	c.AddN(key, 1)
}

func (c *Counter) AddN(key string, n int) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

func (c *Counter) Count(key string) int {
	return c.counts[key]
}

func (c *Counter) Len() int {
	return len(c.order)
}

// Sum returns the total across all keys.
func (c *Counter) Sum() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Sorted returns every entry in descending count order. Equal counts keep
// first-insertion order.
func (c *Counter) Sorted() []CountEntry {
	entries := make([]CountEntry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, CountEntry{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Aggregates holds the running statistics for one report run. All counters
// start empty and are updated exactly once per flag record, in a single pass.
type Aggregates struct {
	TotalFlags          int
	WorkspacesWithFlags int
	ByWorkspace         Counter
	ByOwner             Counter
	ByStatus            Counter
	ByTag               Counter
}
