package testutil

import (
	"strconv"
	"testing"

	"github.com/Veraticus/basket/internal/model"
)

// Transactions builds a database from rows of item tokens. Row i gets ID i+1.
//
// Example:
//
//	txns := testutil.Transactions(t,
//		[]string{"milk", "bread"},
//		[]string{"bread"},
//	)
func Transactions(t *testing.T, rows ...[]string) []model.Transaction {
	t.Helper()

	out := make([]model.Transaction, 0, len(rows))
	for i, row := range rows {
		txn, err := model.NewTransaction(strconv.Itoa(i+1), row...)
		if err != nil {
			t.Fatalf("invalid fixture row %d: %v", i+1, err)
		}
		out = append(out, txn)
	}
	return out
}

// Groceries is the five-basket database used across tests. At support 3 its
// frequent itemsets are {milk}:4, {bread}:5, {apple}:3, {milk, bread}:4 and
// {apple, bread}:3; nuts appears twice and {apple, bread, milk} twice.
func Groceries(t *testing.T) []model.Transaction {
	t.Helper()
	return Transactions(t,
		[]string{"milk", "bread", "nuts", "apple"},
		[]string{"milk", "bread", "nuts"},
		[]string{"milk", "bread"},
		[]string{"milk", "bread", "apple"},
		[]string{"bread", "apple"},
	)
}

// Overlapping is a denser database where several items co-occur in
// triples, so mining reaches size 3.
func Overlapping(t *testing.T) []model.Transaction {
	t.Helper()
	return Transactions(t,
		[]string{"a", "b", "c", "d"},
		[]string{"a", "b", "c"},
		[]string{"a", "b", "d"},
		[]string{"a", "c", "d"},
		[]string{"b", "c", "d"},
		[]string{"a", "b"},
		[]string{"c", "e"},
	)
}
