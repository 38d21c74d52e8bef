package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertBankAccount(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	first := createTestAccount(t, store, "plaid-acct-1")
	require.NotEmpty(t, first.ID)
	assert.True(t, first.IsActive)

	// Same external ID refreshes balances and keeps the ID.
	again := &model.BankAccount{
		ExternalAccountID: "plaid-acct-1",
		Name:              "Renamed Checking",
		CurrentBalance:    decimal.RequireFromString("99.10"),
	}
	require.NoError(t, store.UpsertBankAccount(ctx, again))
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Renamed Checking", again.Name)
	assert.True(t, again.CurrentBalance.Equal(decimal.RequireFromString("99.10")))

	accounts, err := store.ListBankAccounts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestDeactivateBankAccount(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	active := createTestAccount(t, store, "acct-a")
	inactive := createTestAccount(t, store, "acct-b")
	require.NoError(t, store.DeactivateBankAccount(ctx, inactive.ID))

	accounts, err := store.ListBankAccounts(ctx, true)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, active.ID, accounts[0].ID)

	err = store.DeactivateBankAccount(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMarkBankAccountSynced(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	account := createTestAccount(t, store, "acct-sync")

	at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, store.MarkBankAccountSynced(ctx, account.ID, at))

	got, err := store.GetBankAccount(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSyncedAt)
	assert.True(t, got.LastSyncedAt.Equal(at))

	_, err = store.GetBankAccountByExternalID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
