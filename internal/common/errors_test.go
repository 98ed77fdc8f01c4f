package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidInputError(t *testing.T) {
	err := NewInvalidInputError("transaction database is empty", ErrNoTransactions)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrNoTransactions)
	assert.NotErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, "invalid input: transaction database is empty: no transactions to mine", err.Error())

	bare := NewInvalidInputError("blank item", nil)
	assert.ErrorIs(t, bare, ErrInvalidInput)
	assert.Equal(t, "invalid input: blank item", bare.Error())

	wrapped := fmt.Errorf("loading: %w", err)
	var target *InvalidInputError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "transaction database is empty", target.Reason)
}

func TestInvalidParameterError(t *testing.T) {
	err := NewInvalidParameterError("min_support", 0, "must be a positive count")

	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "invalid parameter min_support=0: must be a positive count", err.Error())

	var target *InvalidParameterError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, 0, target.Value)

	wrapped := WrapInvalidParameterError("output.format", "xml", "must be txt, json or yaml", ErrInvalidConfig)
	assert.ErrorIs(t, wrapped, ErrInvalidParameter)
	assert.ErrorIs(t, wrapped, ErrInvalidConfig)
	assert.True(t, IsInputError(wrapped))
	assert.Equal(t, "invalid parameter output.format=xml: must be txt, json or yaml", wrapped.Error())
}

func TestIsInputError(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "input", err: NewInvalidInputError("x", nil), want: true},
		{name: "parameter", err: NewInvalidParameterError("p", 1, "x"), want: true},
		{name: "wrapped in user error", err: NewUserError("Could not load", NewInvalidInputError("x", nil)), want: true},
		{name: "storage", err: fmt.Errorf("run 3: %w", ErrNotFound), want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInputError(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	assert.Equal(t, "Run history is disabled", NewUserError("Run history is disabled", nil).Error())

	cause := errors.New("no such file")
	err := NewUserError("Could not load transactions", cause)
	assert.Equal(t, "Could not load transactions: no such file", err.Error())
	assert.ErrorIs(t, err, cause)
}
