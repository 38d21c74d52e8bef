package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/service"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{name: "valid bank statement", ofxData: sampleBankOFX, expectedCount: 3},
		{name: "valid credit card statement", ofxData: sampleCreditCardOFX, expectedCount: 2},
		{name: "leading blank lines", ofxData: "\n\n  " + sampleBankOFX, expectedCount: 3},
		{name: "invalid OFX data", ofxData: "not valid OFX", expectedError: true},
		{name: "empty OFX", ofxData: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := NewParser().Parse(strings.NewReader(tt.ofxData))
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			txns, err := st.Transactions(context.Background(), service.DateRange{})
			require.NoError(t, err)
			assert.Len(t, txns, tt.expectedCount)
		})
	}
}

func parse(t *testing.T, data string) *Statement {
	t.Helper()
	st, err := NewParser().Parse(strings.NewReader(data))
	require.NoError(t, err)
	return st
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestParseBankTransactions(t *testing.T) {
	st := parse(t, sampleBankOFX)
	txns, err := st.Transactions(context.Background(), service.DateRange{})
	require.NoError(t, err)
	require.Len(t, txns, 3)

	tx1 := txns[0]
	assert.Equal(t, "ofx:1234567890:2024011501", tx1.ExternalID)
	assert.Equal(t, "1234567890", tx1.AccountExternalID)
	assert.Equal(t, "STARBUCKS STORE #1234", tx1.Name)
	assert.Equal(t, "STARBUCKS STORE #1234", tx1.MerchantName)
	assert.Equal(t, "DEBIT", tx1.Type)
	requireAmount(t, "-25.50", tx1.Amount)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), tx1.Date)

	requireAmount(t, "-125.00", txns[1].Amount)
	assert.Equal(t, "CHECK", txns[2].Type)
	requireAmount(t, "-500.00", txns[2].Amount)

	accounts, err := st.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "1234567890", accounts[0].ExternalAccountID)
	assert.Equal(t, "7890", accounts[0].Mask)
	assert.Equal(t, "checking", accounts[0].Subtype)
	requireAmount(t, "1000", accounts[0].CurrentBalance)
}

func TestParseCreditCardTransactions(t *testing.T) {
	st := parse(t, sampleCreditCardOFX)
	txns, err := st.Transactions(context.Background(), service.DateRange{})
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "ofx:4111111111111111:CC2024011001", txns[0].ExternalID)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", txns[0].Name)
	requireAmount(t, "-45.99", txns[0].Amount)
	requireAmount(t, "-15.00", txns[1].Amount)

	accounts, err := st.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "credit", accounts[0].Type)
	requireAmount(t, "-500", accounts[0].CurrentBalance)
}

func TestStatementTransactions_Window(t *testing.T) {
	st := parse(t, sampleBankOFX)
	window := service.DateRange{
		Start: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
	}
	txns, err := st.Transactions(context.Background(), window)
	require.NoError(t, err)

	var ids []string
	for _, ft := range txns {
		ids = append(ids, ft.ExternalID)
	}
	assert.Equal(t, []string{"ofx:1234567890:2024012001", "ofx:1234567890:2024012501"}, ids)
}

func TestExtractMerchantName(t *testing.T) {
	tests := []struct {
		tx       ofxgo.Transaction
		name     string
		expected string
	}{
		{name: "remove POS prefix", tx: ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"}, expected: "STARBUCKS"},
		{name: "remove DEBIT CARD prefix", tx: ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"}, expected: "WHOLE FOODS"},
		{name: "strip leading date", tx: ofxgo.Transaction{Name: "PURCHASE AUTHORIZED ON 03/14 SHELL OIL"}, expected: "SHELL OIL"},
		{name: "keep clean name", tx: ofxgo.Transaction{Name: "NETFLIX.COM"}, expected: "NETFLIX.COM"},
		{name: "trim whitespace", tx: ofxgo.Transaction{Name: "  AMAZON.COM  "}, expected: "AMAZON.COM"},
		{name: "memo replaces generic name", tx: ofxgo.Transaction{Name: "DEBIT", Memo: "ADOBE *CREATIVE"}, expected: "ADOBE *CREATIVE"},
		{name: "payee wins", tx: ofxgo.Transaction{Name: "CHECK #1234", Payee: &ofxgo.Payee{Name: "Landlord LLC"}}, expected: "Landlord LLC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractMerchantName(tt.tx))
		})
	}
}

func TestPreprocessOFX(t *testing.T) {
	in := "\n  <SEVERITY>Info</SEVERITY>\n<BANKACCTFROM\n"
	out := preprocessOFX(in)
	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>\n<BANKACCTFROM>\n", out)
}

func TestConvertTransaction_ImpliedCategories(t *testing.T) {
	ft := convertTransaction(ofxgo.Transaction{TrnType: ofxgo.TrnTypeInt, FiTID: "9"}, "42")
	assert.Equal(t, []string{"Interest Income"}, ft.Categories)
	assert.Equal(t, "ofx:42:9", ft.ExternalID)
}
