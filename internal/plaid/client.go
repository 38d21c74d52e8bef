// Package plaid provides a bank feed backed by the Plaid API.
package plaid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/plaid/plaid-go/v20/plaid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	dateLayout = "2006-01-02"
	pageSize   = int32(500) // Plaid's max page size
)

// Config holds Plaid API configuration.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: plaid client ID is required", common.ErrMissingConfig)
	}
	if c.Secret == "" {
		return fmt.Errorf("%w: plaid secret is required", common.ErrMissingConfig)
	}
	if c.AccessToken == "" {
		return fmt.Errorf("%w: plaid access token is required", common.ErrMissingConfig)
	}
	if c.Environment == "" {
		return fmt.Errorf("%w: plaid environment is required", common.ErrMissingConfig)
	}
	if c.Environment != "sandbox" && c.Environment != "production" {
		return fmt.Errorf("%w: invalid Plaid environment %q, must be sandbox or production", common.ErrInvalidConfig, c.Environment)
	}
	return nil
}

// Client is a service.FeedSource for one Plaid item.
type Client struct {
	client      *plaid.APIClient
	logger      *slog.Logger
	retryOpts   service.RetryOptions
	accessToken string
}

// NewClient creates a new Plaid client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)
	if cfg.Environment == "production" {
		configuration.UseEnvironment(plaid.Production)
	} else {
		configuration.UseEnvironment(plaid.Sandbox)
	}

	return &Client{
		client:      plaid.NewAPIClient(configuration),
		accessToken: cfg.AccessToken,
		logger:      slog.Default().With("component", "plaid"),
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// Transactions fetches every transaction in the window, following pagination.
func (c *Client) Transactions(ctx context.Context, window service.DateRange) ([]model.FeedTransaction, error) {
	if window.Start.After(window.End) {
		return nil, errors.New("start date must be before end date")
	}

	c.logger.Info("Fetching transactions from Plaid",
		"start_date", window.Start.Format(dateLayout),
		"end_date", window.End.Format(dateLayout))

	var all []plaid.Transaction
	for offset := int32(0); ; offset += pageSize {
		var page []plaid.Transaction

		err := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				c.accessToken,
				window.Start.Format(dateLayout),
				window.End.Format(dateLayout),
			)
			request.SetOptions(plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			})

			resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if err != nil {
				return c.classify(err, "failed to fetch transactions")
			}
			page = resp.GetTransactions()
			c.logger.Debug("Fetched transaction batch",
				"count", len(page),
				"offset", offset,
				"total", resp.GetTotalTransactions())
			return nil
		}, c.retryOpts)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < int(pageSize) {
			break
		}
	}

	c.logger.Info("Fetched all transactions", "count", len(all))

	out := make([]model.FeedTransaction, 0, len(all))
	for _, pt := range all {
		ft, err := mapTransaction(pt)
		if err != nil {
			c.logger.Warn("Skipping malformed transaction", "transaction_id", pt.GetTransactionId(), "error", err)
			continue
		}
		out = append(out, ft)
	}
	return out, nil
}

// Accounts fetches the accounts of the item.
func (c *Client) Accounts(ctx context.Context) ([]model.FeedAccount, error) {
	c.logger.Info("Fetching accounts from Plaid")

	var resp plaid.AccountsGetResponse
	err := common.WithRetry(ctx, func() error {
		request := plaid.NewAccountsGetRequest(c.accessToken)
		r, _, err := c.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
		if err != nil {
			return c.classify(err, "failed to fetch accounts")
		}
		resp = r
		return nil
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	item := resp.GetItem()
	accounts := resp.GetAccounts()
	out := make([]model.FeedAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, mapAccount(a, item.GetInstitutionId()))
	}

	c.logger.Info("Fetched accounts", "count", len(out))
	return out, nil
}

// classify turns a Plaid API failure into an error WithRetry understands.
func (c *Client) classify(err error, msg string) error {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return fmt.Errorf("%s: %w: %w", msg, common.ErrPlaidConnection, err)
	}
	if plaidErr.ErrorCode == "RATE_LIMIT_EXCEEDED" {
		c.logger.Warn("Rate limit hit, will retry", "error", plaidErr.ErrorMessage)
		return fmt.Errorf("%w: %s", common.ErrPlaidRateLimit, plaidErr.ErrorMessage)
	}
	return fmt.Errorf("plaid API error: %s - %s", plaidErr.ErrorCode, plaidErr.ErrorMessage)
}

func mapAccount(a plaid.AccountBase, institution string) model.FeedAccount {
	balances := a.GetBalances()
	return model.FeedAccount{
		ExternalAccountID: a.GetAccountId(),
		InstitutionName:   institution,
		Name:              a.GetName(),
		Type:              string(a.GetType()),
		Subtype:           string(a.GetSubtype()),
		Mask:              a.GetMask(),
		CurrentBalance:    decimal.NewFromFloat(balances.GetCurrent()),
		AvailableBalance:  decimal.NewFromFloat(balances.GetAvailable()),
	}
}

// mapTransaction converts a Plaid transaction. Plaid reports money out as
// positive, so the amount is negated.
func mapTransaction(pt plaid.Transaction) (model.FeedTransaction, error) {
	date, err := time.Parse(dateLayout, pt.GetDate())
	if err != nil {
		return model.FeedTransaction{}, fmt.Errorf("invalid date %q: %w", pt.GetDate(), err)
	}

	merchant := pt.GetMerchantName()
	if merchant == "" {
		merchant = pt.GetName()
	}

	return model.FeedTransaction{
		Date:              date,
		ExternalID:        pt.GetTransactionId(),
		AccountExternalID: pt.GetAccountId(),
		Name:              pt.GetName(),
		MerchantName:      CleanMerchantName(merchant),
		Type:              transactionType(pt.GetPaymentChannel(), pt.GetCheckNumber()),
		Categories:        pt.GetCategory(),
		Amount:            decimal.NewFromFloat(pt.GetAmount()).Neg().Round(2),
		Pending:           pt.GetPending(),
	}, nil
}

func transactionType(channel, checkNumber string) string {
	switch {
	case checkNumber != "":
		return "CHECK"
	case channel == "online":
		return "ONLINE"
	case channel == "in store", channel == "in_store":
		return "POS"
	case channel == "":
		return ""
	default:
		return "OTHER"
	}
}

var corporateSuffixes = []string{" Llc", " Inc", " Corp", " Corporation", " Company", " Co", " Ltd", " Limited"}

// CleanMerchantName title-cases a merchant name, dropping a trailing
// reference number and corporate suffixes.
func CleanMerchantName(name string) string {
	parts := strings.Fields(cases.Title(language.English).String(strings.ToLower(name)))
	if n := len(parts); n > 1 && len(parts[n-1]) > 5 && isAllDigits(parts[n-1]) {
		parts = parts[:n-1]
	}
	name = strings.Join(parts, " ")

	for trimmed := true; trimmed; {
		trimmed = false
		for _, suffix := range corporateSuffixes {
			if strings.HasSuffix(name, suffix) {
				name = strings.TrimSuffix(name, suffix)
				trimmed = true
			}
		}
	}
	return strings.TrimSpace(name)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

var _ service.FeedSource = (*Client)(nil)
