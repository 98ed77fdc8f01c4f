package mining_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/mining"
	"github.com/Veraticus/basket/internal/model"
	"github.com/Veraticus/basket/internal/testutil"
)

func supports(level []model.FrequentItemset) map[string]int {
	out := make(map[string]int, len(level))
	for _, fi := range level {
		out[fi.Itemset.String()] = fi.Support
	}
	return out
}

func TestMineGroceries(t *testing.T) {
	table, err := mining.Mine(testutil.Groceries(t), 3)
	require.NoError(t, err)

	assert.Equal(t, 2, table.MaxSize(), "no frequent 3-itemset")
	assert.Equal(t, map[string]int{
		"{milk}":  4,
		"{bread}": 5,
		"{apple}": 3,
	}, supports(table.Level(1)))

	support, ok := table.Support(model.ItemsetOf("milk", "bread"))
	require.True(t, ok)
	assert.Equal(t, 4, support)

	support, ok = table.Support(model.ItemsetOf("apple", "bread"))
	require.True(t, ok)
	assert.Equal(t, 3, support)

	_, ok = table.Support(model.ItemsetOf("nuts"))
	assert.False(t, ok, "nuts appears only twice")
	_, ok = table.Support(model.ItemsetOf("apple", "milk"))
	assert.False(t, ok)
}

func TestMineLevelOneFirstAppearanceOrder(t *testing.T) {
	txns := testutil.Transactions(t,
		[]string{"pear"},
		[]string{"fig", "pear"},
		[]string{"apple", "fig"},
	)

	table, err := mining.Mine(txns, 1)
	require.NoError(t, err)

	var got []string
	for _, fi := range table.Level(1) {
		got = append(got, fi.Itemset.String())
	}
	assert.Equal(t, []string{"{pear}", "{fig}", "{apple}"}, got)
}

func TestMineIdenticalTransactions(t *testing.T) {
	txns := testutil.Transactions(t,
		[]string{"x", "y", "z"},
		[]string{"z", "y", "x"},
		[]string{"x", "y", "z"},
	)

	table, err := mining.Mine(txns, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 3, 1}, table.Counts())
	top := table.Level(3)
	require.Len(t, top, 1)
	assert.True(t, top[0].Itemset.Equal(model.ItemsetOf("x", "y", "z")))
	assert.Equal(t, 3, top[0].Support)
}

func TestMineMinSupportOneIsExhaustive(t *testing.T) {
	txns := testutil.Transactions(t,
		[]string{"a", "b", "c"},
		[]string{"c", "d"},
	)

	table, err := mining.Mine(txns, 1)
	require.NoError(t, err)

	want := map[string]bool{}
	for _, txn := range txns {
		set := txn.Itemset()
		for r := 1; r <= set.Len(); r++ {
			for _, sub := range set.Combinations(r) {
				want[sub.Key()] = true
			}
		}
	}

	got := map[string]bool{}
	for _, fi := range table.All() {
		got[fi.Itemset.Key()] = true
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 9, table.Len())
}

func TestMineNoFrequentItems(t *testing.T) {
	m, err := mining.NewMiner(mining.Options{MinSupport: 10})
	require.NoError(t, err)

	res, err := m.Mine(context.Background(), testutil.Groceries(t))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Table.Len())
	assert.Equal(t, 0, res.Table.MaxSize())
	assert.Equal(t, []mining.LevelStats{{Size: 1, Candidates: 4, Frequent: 0}}, res.Levels)
}

func TestMineSupportInvariants(t *testing.T) {
	for _, minSupport := range []int{1, 2, 3} {
		table, err := mining.Mine(testutil.Overlapping(t), minSupport)
		require.NoError(t, err)

		for _, k := range table.Sizes() {
			for _, fi := range table.Level(k) {
				assert.GreaterOrEqual(t, fi.Support, minSupport)
				if k == 1 {
					continue
				}
				for i := 0; i < k; i++ {
					sub := fi.Itemset.Without(i)
					subSupport, ok := table.Support(sub)
					if assert.True(t, ok, "subset %s of %s", sub, fi.Itemset) {
						assert.GreaterOrEqual(t, subSupport, fi.Support)
					}
				}
			}
		}
	}
}

func TestMineMonotonicInSupport(t *testing.T) {
	txns := testutil.Overlapping(t)
	prev := -1
	for minSupport := 1; minSupport <= 7; minSupport++ {
		table, err := mining.Mine(txns, minSupport)
		require.NoError(t, err)
		if prev >= 0 {
			assert.LessOrEqual(t, table.Len(), prev, "min_support=%d", minSupport)
		}
		prev = table.Len()
	}
}

func TestMineOverlapping(t *testing.T) {
	tests := []struct {
		name       string
		want       []int
		minSupport int
	}{
		{name: "support 2 reaches triples", minSupport: 2, want: []int{4, 6, 4}},
		{name: "support 3 stops at pairs", minSupport: 3, want: []int{4, 6}},
		{name: "support 5 singles only", minSupport: 5, want: []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := mining.Mine(testutil.Overlapping(t), tt.minSupport)
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Counts())
		})
	}
}

func TestJoinStrategies(t *testing.T) {
	txns := testutil.Groceries(t)

	naive, err := mining.NewMiner(mining.Options{MinSupport: 3, Join: mining.JoinNaive})
	require.NoError(t, err)
	pruned, err := mining.NewMiner(mining.Options{MinSupport: 3, Join: mining.JoinAprioriGen})
	require.NoError(t, err)

	naiveRes, err := naive.Mine(context.Background(), txns)
	require.NoError(t, err)
	prunedRes, err := pruned.Mine(context.Background(), txns)
	require.NoError(t, err)

	// {apple, bread} and {bread, milk} join into {apple, bread, milk} even
	// though {apple, milk} is infrequent; only apriori-gen drops it.
	require.Len(t, naiveRes.Levels, 3)
	require.Len(t, prunedRes.Levels, 3)
	assert.Equal(t, mining.LevelStats{Size: 3, Candidates: 1, Frequent: 0}, naiveRes.Levels[2])
	assert.Equal(t, mining.LevelStats{Size: 3, Candidates: 0, Frequent: 0}, prunedRes.Levels[2])

	assert.Equal(t, naiveRes.Table.All(), prunedRes.Table.All())
}

func TestJoinStrategiesAgree(t *testing.T) {
	for minSupport := 1; minSupport <= 4; minSupport++ {
		naive, err := mining.NewMiner(mining.Options{MinSupport: minSupport})
		require.NoError(t, err)
		pruned, err := mining.NewMiner(mining.Options{MinSupport: minSupport, Join: mining.JoinAprioriGen})
		require.NoError(t, err)

		a, err := naive.Mine(context.Background(), testutil.Overlapping(t))
		require.NoError(t, err)
		b, err := pruned.Mine(context.Background(), testutil.Overlapping(t))
		require.NoError(t, err)

		assert.Equal(t, a.Table.All(), b.Table.All(), "min_support=%d", minSupport)
		for i := range b.Levels {
			assert.LessOrEqual(t, b.Levels[i].Candidates, a.Levels[i].Candidates)
		}
	}
}

func TestMineErrors(t *testing.T) {
	t.Run("empty database", func(t *testing.T) {
		_, err := mining.Mine(nil, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
		assert.ErrorIs(t, err, common.ErrNoTransactions)

		var inputErr *common.InvalidInputError
		assert.True(t, errors.As(err, &inputErr))
	})

	for _, minSupport := range []int{0, -1} {
		_, err := mining.Mine(testutil.Groceries(t), minSupport)
		assert.ErrorIs(t, err, common.ErrInvalidParameter, "min_support=%d", minSupport)

		var paramErr *common.InvalidParameterError
		if assert.True(t, errors.As(err, &paramErr)) {
			assert.Equal(t, "min_support", paramErr.Parameter)
		}
	}

	_, err := mining.NewMiner(mining.Options{MinSupport: 1, Join: "fancy"})
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestMineCanceled(t *testing.T) {
	m, err := mining.NewMiner(mining.Options{MinSupport: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Mine(ctx, testutil.Groceries(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseJoinStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    mining.JoinStrategy
		wantErr bool
	}{
		{name: "", want: mining.JoinNaive},
		{name: "naive", want: mining.JoinNaive},
		{name: "apriori-gen", want: mining.JoinAprioriGen},
		{name: "other", wantErr: true},
	}

	for _, tt := range tests {
		got, err := mining.ParseJoinStrategy(tt.name)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
