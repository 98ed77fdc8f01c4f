package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/model"
)

// ReadPairs reads "transaction_id item_id" records. Consecutive records with
// the same numeric id form one transaction, so "01" and "1" are one id; an id
// that reappears later starts a new one.
func ReadPairs(r io.Reader) ([]model.Transaction, error) {
	scanner := bufio.NewScanner(r)

	var (
		transactions []model.Transaction
		currentID    int64
		started      bool
		items        []string
		lineNo       int
	)

	flush := func() error {
		if !started {
			return nil
		}
		txn, err := model.NewTransaction(strconv.FormatInt(currentID, 10), items...)
		if err != nil {
			return err
		}
		transactions = append(transactions, txn)
		return nil
	}

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, common.NewInvalidInputError(
				fmt.Sprintf("line %d: expected 2 fields, got %d", lineNo, len(fields)), common.ErrMalformedRecord)
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, common.NewInvalidInputError(
				fmt.Sprintf("line %d: transaction id %q is not an integer", lineNo, fields[0]), common.ErrMalformedRecord)
		}

		if !started || id != currentID {
			if err := flush(); err != nil {
				return nil, err
			}
			currentID = id
			started = true
			items = items[:0]
		}
		items = append(items, fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return transactions, nil
}

// ReadBaskets reads one transaction per line. Items are separated by commas
// or whitespace; blank lines and lines starting with # are skipped.
func ReadBaskets(r io.Reader) ([]model.Transaction, error) {
	scanner := bufio.NewScanner(r)

	var transactions []model.Transaction
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		txn, err := model.NewTransaction(strconv.Itoa(lineNo), tokens...)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return transactions, nil
}
