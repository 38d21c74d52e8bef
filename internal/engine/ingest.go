package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// IngestResult summarizes a feed ingestion.
type IngestResult struct {
	InsertedIDs []string
	Errors      []ItemError
	Inserted    int
	Skipped     int
}

func (r *IngestResult) merge(other IngestResult) {
	r.InsertedIDs = append(r.InsertedIDs, other.InsertedIDs...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Inserted += other.Inserted
	r.Skipped += other.Skipped
}

// LinkAccounts records feed accounts, refreshing balances of known ones.
func (e *Engine) LinkAccounts(ctx context.Context, accounts []model.FeedAccount) ([]model.BankAccount, error) {
	linked := make([]model.BankAccount, 0, len(accounts))
	for _, fa := range accounts {
		account := &model.BankAccount{
			ExternalAccountID: fa.ExternalAccountID,
			InstitutionName:   fa.InstitutionName,
			Name:              fa.Name,
			Type:              fa.Type,
			Subtype:           fa.Subtype,
			Mask:              fa.Mask,
			CurrentBalance:    fa.CurrentBalance,
			AvailableBalance:  fa.AvailableBalance,
		}
		if err := e.storage.UpsertBankAccount(ctx, account); err != nil {
			return linked, fmt.Errorf("failed to link account %s: %w", fa.ExternalAccountID, err)
		}
		linked = append(linked, *account)
	}
	return linked, nil
}

// Ingest records feed transactions for one account. Transactions whose
// external ID is already known are skipped unchanged.
func (e *Engine) Ingest(ctx context.Context, accountExternalID string, feed []model.FeedTransaction) (IngestResult, error) {
	var result IngestResult

	account, err := e.storage.GetBankAccountByExternalID(ctx, accountExternalID)
	if err != nil {
		return result, fmt.Errorf("failed to find account %s: %w", accountExternalID, err)
	}
	if !account.IsActive {
		return result, fmt.Errorf("account %s is deactivated: %w", accountExternalID, common.ErrInvalidAccount)
	}

	for _, ft := range feed {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if strings.TrimSpace(ft.ExternalID) == "" {
			result.Errors = append(result.Errors, ItemError{ID: ft.Name, Err: errors.New("missing external id")})
			continue
		}

		txn := &model.BankTransaction{
			BankAccountID:      account.ID,
			ExternalID:         ft.ExternalID,
			Date:               ft.Date,
			Name:               ft.Name,
			MerchantName:       ft.MerchantName,
			Amount:             ft.Amount,
			ProviderCategories: ft.Categories,
			IsPending:          ft.Pending,
			Status:             model.StatusPending,
		}
		inserted, err := e.storage.InsertBankTransaction(ctx, txn)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{ID: ft.ExternalID, Err: err})
			continue
		}
		if !inserted {
			result.Skipped++
			continue
		}
		result.Inserted++
		result.InsertedIDs = append(result.InsertedIDs, txn.ID)
	}

	if err := e.storage.MarkBankAccountSynced(ctx, account.ID, e.now()); err != nil {
		e.logger.Warn("Failed to record sync time", "account_id", account.ID, "error", err)
	}

	e.logger.Info("Ingested feed transactions",
		"account", accountExternalID,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"failed", len(result.Errors))
	return result, nil
}

// SyncFeed pulls accounts and transactions from a feed and ingests them.
// Transactions for accounts that are unknown or deactivated are reported
// as item errors.
func (e *Engine) SyncFeed(ctx context.Context, src service.FeedSource, window service.DateRange) (IngestResult, error) {
	var result IngestResult

	accounts, err := src.Accounts(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to fetch feed accounts: %w", err)
	}
	if _, err := e.LinkAccounts(ctx, accounts); err != nil {
		return result, err
	}

	feed, err := src.Transactions(ctx, window)
	if err != nil {
		return result, fmt.Errorf("failed to fetch feed transactions: %w", err)
	}

	var order []string
	byAccount := make(map[string][]model.FeedTransaction)
	for _, ft := range feed {
		if _, seen := byAccount[ft.AccountExternalID]; !seen {
			order = append(order, ft.AccountExternalID)
		}
		byAccount[ft.AccountExternalID] = append(byAccount[ft.AccountExternalID], ft)
	}

	for _, accountID := range order {
		part, err := e.Ingest(ctx, accountID, byAccount[accountID])
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.merge(part)
			return result, ctxErr
		}
		if err != nil {
			result.Errors = append(result.Errors, ItemError{ID: accountID, Err: err})
			continue
		}
		result.merge(part)
	}
	return result, nil
}
