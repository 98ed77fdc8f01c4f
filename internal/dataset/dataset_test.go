package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/model"
)

func itemsets(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i, txn := range txns {
		out[i] = txn.Itemset().String()
	}
	return out
}

func TestReadPairs(t *testing.T) {
	input := `1 milk
1 bread
2 bread

2 apple
3 milk
1 nuts
`
	txns, err := ReadPairs(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"{bread, milk}", "{apple, bread}", "{milk}", "{nuts}"}, itemsets(txns))
	assert.Equal(t, "1", txns[0].ID)
	assert.Equal(t, "1", txns[3].ID, "a reappearing id starts a new transaction")
}

func TestReadPairsGroupsNumericIDs(t *testing.T) {
	txns, err := ReadPairs(strings.NewReader("01 milk\n1 bread\n+1 nuts\n002 apple\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"{bread, milk, nuts}", "{apple}"}, itemsets(txns))
	assert.Equal(t, []string{"1", "2"}, []string{txns[0].ID, txns[1].ID})
}

func TestReadRejectsSeparatorInItem(t *testing.T) {
	_, err := ReadBaskets(strings.NewReader("a\x1fb c\na b\x1fc\n"))
	require.Error(t, err)
	assert.True(t, common.IsInputError(err))

	_, err = ReadPairs(strings.NewReader("1 a\x1fb\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestReadPairsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{name: "one field", input: "1 milk\n2\n", line: "line 2"},
		{name: "three fields", input: "1 milk bread\n", line: "line 1"},
		{name: "non-integer id", input: "1 milk\nx bread\n", line: "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPairs(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidInput)
			assert.ErrorIs(t, err, common.ErrMalformedRecord)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestReadBaskets(t *testing.T) {
	input := `# groceries
milk, bread
bread apple	milk

milk,milk
`
	txns, err := ReadBaskets(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"{bread, milk}", "{apple, bread, milk}", "{milk}"}, itemsets(txns))
	assert.Equal(t, []string{"2", "3", "5"}, []string{txns[0].ID, txns[1].ID, txns[2].ID})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "", want: FormatAuto},
		{name: "PAIRS", want: FormatPairs},
		{name: "basket", want: FormatBasket},
		{name: "ofx", want: FormatOFX},
		{name: "xlsx", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.name)
		if tt.wantErr {
			assert.ErrorIs(t, err, common.ErrUnsupportedInput)
			assert.ErrorIs(t, err, common.ErrInvalidParameter)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatOFX, Detect("statement.QFX"))
	assert.Equal(t, FormatOFX, Detect("/tmp/statement.ofx"))
	assert.Equal(t, FormatBasket, Detect("baskets.csv"))
	assert.Equal(t, FormatBasket, Detect("week.basket"))
	assert.Equal(t, FormatPairs, Detect("retail.txt"))
	assert.Equal(t, FormatPairs, Detect("retail"))
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	pairs := filepath.Join(dir, "data.txt")
	baskets := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(pairs, []byte("1 a\n1 b\n2 a\n"), 0600))
	require.NoError(t, os.WriteFile(baskets, []byte("a,b\na\n"), 0600))

	ctx := context.Background()
	for _, path := range []string{pairs, baskets} {
		txns, err := NewLoader(FormatAuto).Load(ctx, path)
		require.NoError(t, err, path)
		assert.Equal(t, []string{"{a, b}", "{a}"}, itemsets(txns), path)
	}

	// A forced format overrides the extension.
	_, err := NewLoader(FormatPairs).Load(ctx, baskets)
	assert.ErrorIs(t, err, common.ErrMalformedRecord)

	_, err = NewLoader(FormatAuto).Load(ctx, filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestReadUnsupported(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader(""), Format("xlsx"))
	assert.ErrorIs(t, err, common.ErrUnsupportedInput)
}
