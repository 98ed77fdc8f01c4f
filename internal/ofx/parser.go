// Package ofx turns OFX/QFX statements into merchant baskets.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/basket/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// opening tags missing their closing bracket at end of line
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	spaceRegex  = regexp.MustCompile(`\s+`)
)

// merchantPrefixes are card-network boilerplate stripped from names.
var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

// Entry is one statement line reduced to what basket building needs.
type Entry struct {
	Posted    time.Time
	AccountID string
	Merchant  string
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseEntries parses an OFX/QFX document into statement entries.
func (p *Parser) ParseEntries(ctx context.Context, reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			entries = p.appendEntries(entries, stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			entries = p.appendEntries(entries, stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))
		}
	}

	slog.Debug("Parsed OFX file",
		"entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

func (p *Parser) appendEntries(entries []Entry, txns []ofxgo.Transaction, accountID string) []Entry {
	for _, tx := range txns {
		merchant := p.extractMerchantName(tx)
		if merchant == "" {
			slog.Warn("Skipping OFX entry without a merchant name", "fitid", string(tx.FiTID))
			continue
		}
		entries = append(entries, Entry{
			Posted:    tx.DtPosted.Time,
			AccountID: accountID,
			Merchant:  merchant,
		})
	}
	return entries
}

// Baskets groups entries by account and posting day; each group becomes one
// transaction holding the merchants seen that day. Output is ordered by day,
// then account.
func Baskets(entries []Entry) ([]model.Transaction, error) {
	type key struct {
		day     string
		account string
	}

	groups := make(map[key][]string)
	var keys []key
	for _, e := range entries {
		k := key{day: e.Posted.UTC().Format("2006-01-02"), account: e.AccountID}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], e.Merchant)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].day != keys[j].day {
			return keys[i].day < keys[j].day
		}
		return keys[i].account < keys[j].account
	})

	transactions := make([]model.Transaction, 0, len(keys))
	for _, k := range keys {
		txn, err := model.NewTransaction(k.account+"@"+k.day, groups[k]...)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	return transactions, nil
}

// extractMerchantName tries to get a clean, single-token merchant name.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available
	var name string
	if tx.Payee != nil && tx.Payee.Name != "" {
		name = string(tx.Payee.Name)
	} else {
		name = string(tx.Name)
		if tx.Memo != "" && isGenericDescription(name) {
			name = string(tx.Memo)
		}
	}

	name = strings.TrimSpace(name)
	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " date
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	// Items are whitespace-free tokens in every report format.
	return spaceRegex.ReplaceAllString(strings.TrimSpace(name), "_")
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
