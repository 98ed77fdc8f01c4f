package model

import (
	"fmt"
)

// FrequentItemset is an itemset tagged with its support count.
type FrequentItemset struct {
	Itemset Itemset
	Support int
}

// level holds the frequent itemsets of one size in discovery order.
type level struct {
	index   map[string]int
	entries []FrequentItemset
}

// FrequentItemsetTable maps itemset size to the frequent itemsets of that size.
// Sizes are contiguous from 1; an empty level is never stored.
type FrequentItemsetTable struct {
	levels []*level
}

// NewFrequentItemsetTable returns an empty table.
func NewFrequentItemsetTable() *FrequentItemsetTable {
	return &FrequentItemsetTable{}
}

// AppendLevel stores the next level. Every entry must have size MaxSize()+1
// and the level must be non-empty.
func (t *FrequentItemsetTable) AppendLevel(entries []FrequentItemset) error {
	size := len(t.levels) + 1
	if len(entries) == 0 {
		return fmt.Errorf("level %d: empty levels are not stored", size)
	}

	lvl := &level{
		index:   make(map[string]int, len(entries)),
		entries: make([]FrequentItemset, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Itemset.Len() != size {
			return fmt.Errorf("level %d: itemset %s has size %d", size, e.Itemset, e.Itemset.Len())
		}
		if _, dup := lvl.index[e.Itemset.Key()]; dup {
			return fmt.Errorf("level %d: duplicate itemset %s", size, e.Itemset)
		}
		lvl.index[e.Itemset.Key()] = len(lvl.entries)
		lvl.entries = append(lvl.entries, e)
	}

	t.levels = append(t.levels, lvl)
	return nil
}

// MaxSize returns the largest itemset size present, 0 for an empty table.
func (t *FrequentItemsetTable) MaxSize() int {
	return len(t.levels)
}

// Sizes returns the stored sizes in ascending order.
func (t *FrequentItemsetTable) Sizes() []int {
	sizes := make([]int, len(t.levels))
	for i := range t.levels {
		sizes[i] = i + 1
	}
	return sizes
}

// Level returns the frequent itemsets of size k in discovery order.
func (t *FrequentItemsetTable) Level(k int) []FrequentItemset {
	if k < 1 || k > len(t.levels) {
		return nil
	}
	entries := t.levels[k-1].entries
	out := make([]FrequentItemset, len(entries))
	copy(out, entries)
	return out
}

// Support looks up the support count of s.
func (t *FrequentItemsetTable) Support(s Itemset) (int, bool) {
	k := s.Len()
	if k < 1 || k > len(t.levels) {
		return 0, false
	}
	lvl := t.levels[k-1]
	i, ok := lvl.index[s.Key()]
	if !ok {
		return 0, false
	}
	return lvl.entries[i].Support, true
}

// Len returns the total number of frequent itemsets.
func (t *FrequentItemsetTable) Len() int {
	n := 0
	for _, lvl := range t.levels {
		n += len(lvl.entries)
	}
	return n
}

// Counts returns the number of frequent itemsets per size; Counts()[k-1] is size k.
func (t *FrequentItemsetTable) Counts() []int {
	counts := make([]int, len(t.levels))
	for i, lvl := range t.levels {
		counts[i] = len(lvl.entries)
	}
	return counts
}

// All returns every frequent itemset, smallest size first.
func (t *FrequentItemsetTable) All() []FrequentItemset {
	out := make([]FrequentItemset, 0, t.Len())
	for _, lvl := range t.levels {
		out = append(out, lvl.entries...)
	}
	return out
}
