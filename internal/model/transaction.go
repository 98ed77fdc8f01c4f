package model

import (
	"fmt"
	"strings"

	"github.com/Veraticus/basket/internal/common"
)

// Transaction is one basket of items from any source.
type Transaction struct {
	ID    string
	items []Item
}

// NewTransaction normalizes raw item tokens into a transaction.
// Duplicates collapse; an empty token list is allowed, a blank token or one
// containing the unit separator (U+001F) is not.
func NewTransaction(id string, tokens ...string) (Transaction, error) {
	items := make([]Item, 0, len(tokens))
	for i, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			return Transaction{}, common.NewInvalidInputError(
				fmt.Sprintf("transaction %q has a blank item at position %d", id, i), nil)
		}
		if strings.Contains(token, keySeparator) {
			return Transaction{}, common.NewInvalidInputError(
				fmt.Sprintf("transaction %q has an item with a control character at position %d", id, i), nil)
		}
		items = append(items, Item(token))
	}

	set := NewItemset(items...)
	return Transaction{ID: id, items: set.items}, nil
}

// Len returns the number of distinct items.
func (t Transaction) Len() int {
	return len(t.items)
}

// Items returns a copy of the sorted items.
func (t Transaction) Items() []Item {
	out := make([]Item, len(t.items))
	copy(out, t.items)
	return out
}

// Itemset returns the transaction's items as an itemset.
func (t Transaction) Itemset() Itemset {
	return fromSorted(t.Items())
}

// Contains reports whether the transaction is a superset of s.
func (t Transaction) Contains(s Itemset) bool {
	return isSortedSubset(s.items, t.items)
}

// TransactionStats summarizes a transaction database for reports.
type TransactionStats struct {
	Transactions       int
	DistinctItems      int
	LongestTransaction int
}

// Summarize computes TransactionStats over transactions.
func Summarize(transactions []Transaction) TransactionStats {
	seen := make(map[Item]struct{})
	stats := TransactionStats{Transactions: len(transactions)}
	for _, txn := range transactions {
		if txn.Len() > stats.LongestTransaction {
			stats.LongestTransaction = txn.Len()
		}
		for _, item := range txn.items {
			seen[item] = struct{}{}
		}
	}
	stats.DistinctItems = len(seen)
	return stats
}
