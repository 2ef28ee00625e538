package stats

import "sort"

// counter tallies occurrences of comparable keys and remembers the order in
// which each key was first seen. That order breaks ties everywhere.
type counter[K comparable] struct {
	counts map[K]int
	order  []K
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) add(k K) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

func (c *counter[K]) len() int {
	return len(c.order)
}

// mode returns the most frequent key. Among equally frequent keys the one
// seen first wins. ok is false when nothing was added.
func (c *counter[K]) mode() (key K, count int, ok bool) {
	for _, k := range c.order {
		if n := c.counts[k]; n > count {
			key, count, ok = k, n, true
		}
	}
	return key, count, ok
}

// sorted returns keys by descending count, ties in first-seen order.
func (c *counter[K]) sorted() []K {
	keys := make([]K, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	return keys
}
