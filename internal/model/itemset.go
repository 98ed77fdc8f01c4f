// Package model defines the core data structures for the basket miner.
package model

import (
	"sort"
	"strings"
)

// Item is an opaque item identifier.
type Item string

// keySeparator joins items into an itemset key. NewTransaction rejects items
// containing it, so keys of mined itemsets are unambiguous.
const keySeparator = "\x1f"

// Itemset is an immutable, sorted, duplicate-free set of items.
type Itemset struct {
	key   string
	items []Item
}

// NewItemset builds an itemset from items in any order, collapsing duplicates.
func NewItemset(items ...Item) Itemset {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	uniq := sorted[:0]
	for i, item := range sorted {
		if i > 0 && item == sorted[i-1] {
			continue
		}
		uniq = append(uniq, item)
	}
	return fromSorted(uniq)
}

// ItemsetOf is a convenience constructor from plain strings.
func ItemsetOf(items ...string) Itemset {
	conv := make([]Item, len(items))
	for i, item := range items {
		conv[i] = Item(item)
	}
	return NewItemset(conv...)
}

// fromSorted takes ownership of an already sorted, unique slice.
func fromSorted(items []Item) Itemset {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString(keySeparator)
		}
		b.WriteString(string(item))
	}
	return Itemset{items: items, key: b.String()}
}

// Key returns the canonical map key of the itemset.
func (s Itemset) Key() string {
	return s.key
}

// Len returns the itemset cardinality.
func (s Itemset) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the itemset has no items.
func (s Itemset) IsEmpty() bool {
	return len(s.items) == 0
}

// Items returns a copy of the sorted items.
func (s Itemset) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Tokens returns the items as printable strings.
func (s Itemset) Tokens() []string {
	out := make([]string, len(s.items))
	for i, item := range s.items {
		out[i] = string(item)
	}
	return out
}

// Contains reports whether item is a member.
func (s Itemset) Contains(item Item) bool {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= item })
	return i < len(s.items) && s.items[i] == item
}

// Equal reports whether both itemsets hold the same items.
func (s Itemset) Equal(o Itemset) bool {
	return s.key == o.key && len(s.items) == len(o.items)
}

// SubsetOf reports whether every item of s is in o.
func (s Itemset) SubsetOf(o Itemset) bool {
	return isSortedSubset(s.items, o.items)
}

// Union merges two itemsets.
func (s Itemset) Union(o Itemset) Itemset {
	out := make([]Item, 0, len(s.items)+len(o.items))
	i, j := 0, 0
	for i < len(s.items) && j < len(o.items) {
		switch {
		case s.items[i] < o.items[j]:
			out = append(out, s.items[i])
			i++
		case s.items[i] > o.items[j]:
			out = append(out, o.items[j])
			j++
		default:
			out = append(out, s.items[i])
			i++
			j++
		}
	}
	out = append(out, s.items[i:]...)
	out = append(out, o.items[j:]...)
	return fromSorted(out)
}

// Minus returns the items of s that are not in o.
func (s Itemset) Minus(o Itemset) Itemset {
	out := make([]Item, 0, len(s.items))
	j := 0
	for _, item := range s.items {
		for j < len(o.items) && o.items[j] < item {
			j++
		}
		if j < len(o.items) && o.items[j] == item {
			continue
		}
		out = append(out, item)
	}
	return fromSorted(out)
}

// Without returns the itemset with the item at position i removed.
func (s Itemset) Without(i int) Itemset {
	out := make([]Item, 0, len(s.items)-1)
	out = append(out, s.items[:i]...)
	out = append(out, s.items[i+1:]...)
	return fromSorted(out)
}

// Combinations returns every r-item subset in positional lexicographic order.
func (s Itemset) Combinations(r int) []Itemset {
	n := len(s.items)
	if r <= 0 || r > n {
		return nil
	}

	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}

	var out []Itemset
	for {
		picked := make([]Item, r)
		for i, p := range idx {
			picked[i] = s.items[p]
		}
		out = append(out, fromSorted(picked))

		// advance the rightmost index that still has room
		i := r - 1
		for i >= 0 && idx[i] == n-r+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// String renders the itemset as {a, b, c}.
func (s Itemset) String() string {
	return "{" + strings.Join(s.Tokens(), ", ") + "}"
}

func isSortedSubset(sub, super []Item) bool {
	if len(sub) > len(super) {
		return false
	}
	j := 0
	for _, item := range sub {
		for j < len(super) && super[j] < item {
			j++
		}
		if j == len(super) || super[j] != item {
			return false
		}
		j++
	}
	return true
}
