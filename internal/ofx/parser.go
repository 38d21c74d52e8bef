// Package ofx reads OFX/QFX statement files as a bank feed.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tag alone on a line with its closing bracket missing.
	unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	leadingDateRegex = regexp.MustCompile(`^\d{2}/\d{2} `)
)

var purchasePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// Parser reads OFX/QFX files.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{logger: slog.Default().With("component", "ofx")}
}

// Statement is the content of one parsed file. It serves as a feed source
// over the accounts and transactions found in the file.
type Statement struct {
	accounts     []model.FeedAccount
	transactions []model.FeedTransaction
}

// ExternalID scopes a FITID to its account, since FITIDs are only unique
// within one account.
func ExternalID(accountID, fitID string) string {
	return "ofx:" + accountID + ":" + fitID
}

// Parse reads a bank or credit card statement file.
func (p *Parser) Parse(reader io.Reader) (*Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	st := &Statement{}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		bankStmts++
		accountID := string(stmt.BankAcctFrom.AcctID)
		st.accounts = append(st.accounts, model.FeedAccount{
			ExternalAccountID: accountID,
			Name:              "OFX " + accountID,
			Type:              "depository",
			Subtype:           strings.ToLower(stmt.BankAcctFrom.AcctType.String()),
			Mask:              mask(accountID),
			CurrentBalance:    amount(stmt.BalAmt),
			AvailableBalance:  amount(stmt.BalAmt),
		})
		if stmt.BankTranList != nil {
			st.addTransactions(accountID, stmt.BankTranList.Transactions)
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		ccStmts++
		accountID := string(stmt.CCAcctFrom.AcctID)
		st.accounts = append(st.accounts, model.FeedAccount{
			ExternalAccountID: accountID,
			Name:              "OFX " + accountID,
			Type:              "credit",
			Subtype:           "credit card",
			Mask:              mask(accountID),
			CurrentBalance:    amount(stmt.BalAmt),
		})
		if stmt.BankTranList != nil {
			st.addTransactions(accountID, stmt.BankTranList.Transactions)
		}
	}

	p.logger.Info("Parsed OFX file",
		"total_transactions", len(st.transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)
	return st, nil
}

func (st *Statement) addTransactions(accountID string, txns []ofxgo.Transaction) {
	for _, tx := range txns {
		st.transactions = append(st.transactions, convertTransaction(tx, accountID))
	}
}

// Accounts returns the accounts found in the file.
func (st *Statement) Accounts(context.Context) ([]model.FeedAccount, error) {
	return st.accounts, nil
}

// Transactions returns the transactions posted within the window. A window
// with a zero end is unbounded.
func (st *Statement) Transactions(_ context.Context, window service.DateRange) ([]model.FeedTransaction, error) {
	if window.End.IsZero() {
		return st.transactions, nil
	}
	var out []model.FeedTransaction
	for _, ft := range st.transactions {
		if window.Contains(ft.Date) {
			out = append(out, ft)
		}
	}
	return out, nil
}

// convertTransaction keeps the OFX sign convention, negative for debits.
func convertTransaction(tx ofxgo.Transaction, accountID string) model.FeedTransaction {
	posted := tx.DtPosted.Time
	ft := model.FeedTransaction{
		Date:              time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC),
		ExternalID:        ExternalID(accountID, string(tx.FiTID)),
		AccountExternalID: accountID,
		Name:              string(tx.Name),
		MerchantName:      extractMerchantName(tx),
		Type:              tx.TrnType.String(),
		Amount:            amount(tx.TrnAmt),
	}

	// OFX carries no categories; a few transaction types imply one.
	switch ft.Type {
	case "INT":
		ft.Categories = []string{"Interest Income"}
	case "FEE", "SRVCHG":
		ft.Categories = []string{"Bank Fees"}
	case "ATM":
		ft.Categories = []string{"Cash & ATM"}
	}
	return ft
}

func amount(a ofxgo.Amount) decimal.Decimal {
	d, err := decimal.NewFromString(a.FloatString(2))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func mask(accountID string) string {
	if len(accountID) <= 4 {
		return accountID
	}
	return accountID[len(accountID)-4:]
}

// extractMerchantName prefers PAYEE, then a MEMO standing in for a generic
// NAME, and strips card-processor prefixes.
func extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && genericNames[strings.ToUpper(strings.TrimSpace(name))] {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	upper := strings.ToUpper(name)
	for _, prefix := range purchasePrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	return strings.TrimSpace(leadingDateRegex.ReplaceAllString(name, ""))
}

// preprocessOFX fixes formatting issues ofxgo rejects.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagRegex.ReplaceAllString(content, "$1>")
}

var _ service.FeedSource = (*Statement)(nil)
