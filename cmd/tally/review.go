package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/spf13/cobra"
)

func categorizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize",
		Short: "Suggest a category for every pending transaction",
		Long: `Apply your rules to every pending transaction, falling back to the bank's
category hint. Rules marked auto-approve also approve the transaction when
engine.auto_approve_reviewer is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd, func(ctx context.Context, _ *storage.SQLiteStorage, e *engine.Engine) error {
				handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
				ctx, stop := handler.HandleInterrupts(ctx, "Categorization")
				defer stop()

				result, err := e.AutoCategorizePending(ctx)
				if err != nil && !handler.WasInterrupted() {
					return err
				}
				printBatch(cmd, "Categorization", result)
				return nil
			})
		},
	}
}

func transactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns"},
		Short:   "Inspect bank transactions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List bank transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, _ := cmd.Flags().GetString("status")
			limit, _ := cmd.Flags().GetInt("limit")
			account, _ := cmd.Flags().GetString("account")

			filter := service.BankTransactionFilter{Limit: limit, AccountID: account}
			if status != "" {
				s := model.ReconciliationStatus(strings.ToLower(status))
				if !s.Valid() {
					return fmt.Errorf("unknown status %q: use pending, approved, rejected or synced", status)
				}
				filter.Status = &s
			}

			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, _ *engine.Engine) error {
				txns, err := store.ListBankTransactions(ctx, filter)
				if err != nil {
					return err
				}
				if len(txns) == 0 {
					cmd.Println(cli.FormatInfo("No transactions found"))
					return nil
				}
				for i := range txns {
					cmd.Println(cli.TransactionLine(&txns[i]))
				}
				return nil
			})
		},
	}
	list.Flags().String("status", "", "only show transactions in this status")
	list.Flags().String("account", "", "only show transactions of this account ID")
	list.Flags().Int("limit", 50, "maximum number of transactions (0 for all)")

	cmd.AddCommand(list)
	return cmd
}

func duplicatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates ID",
		Short: "Show expenses that may already record a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, e *engine.Engine) error {
				ids, err := e.FindDuplicates(ctx, args[0])
				if err != nil {
					return userError(err)
				}
				if len(ids) == 0 {
					cmd.Println(cli.FormatSuccess("No likely duplicates"))
					return nil
				}
				cmd.Println(cli.FormatWarning(fmt.Sprintf("%d possible duplicate(s):", len(ids))))
				for _, id := range ids {
					expense, err := store.GetExpense(ctx, id)
					if err != nil {
						return err
					}
					cmd.Printf("  %s  %s  %-30s  %10s  %s\n",
						cli.SubtleStyle.Render(id[:min(8, len(id))]),
						expense.Date.Format("2006-01-02"),
						cli.Truncate(expense.Description, 30),
						cli.FormatAmount(expense.Amount),
						expense.Category)
				}
				return nil
			})
		},
	}
}

func approveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve ID [CATEGORY]",
		Short: "Approve a pending transaction",
		Long: `Approve a pending transaction under CATEGORY. Without CATEGORY the suggested
category is used.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, e *engine.Engine) error {
				category := ""
				if len(args) == 2 {
					category = args[1]
				} else {
					txn, err := store.GetBankTransaction(ctx, args[0])
					if err != nil {
						return userError(err)
					}
					if txn.SuggestedCategory != nil {
						category = *txn.SuggestedCategory
					}
				}

				ok, err := e.Approve(ctx, args[0], category, a.reviewer(cmd))
				if err != nil {
					return userError(err)
				}
				if !ok {
					return notPending(ctx, store, args[0])
				}
				cmd.Println(cli.FormatSuccess(fmt.Sprintf("Approved %s as %s", args[0], category)))
				return nil
			})
		},
	}
	cmd.Flags().String("reviewer", "", "reviewer identity (default review.reviewer)")
	return cmd
}

func rejectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reject ID",
		Short: "Reject a pending transaction so it never reaches the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, e *engine.Engine) error {
				ok, err := e.Reject(ctx, args[0], a.reviewer(cmd))
				if err != nil {
					return userError(err)
				}
				if !ok {
					return notPending(ctx, store, args[0])
				}
				cmd.Println(cli.FormatSuccess("Rejected " + args[0]))
				return nil
			})
		},
	}
	cmd.Flags().String("reviewer", "", "reviewer identity (default review.reviewer)")
	return cmd
}

// notPending explains why a review did not apply.
func notPending(ctx context.Context, store *storage.SQLiteStorage, id string) error {
	txn, err := store.GetBankTransaction(ctx, id)
	if err != nil {
		return userError(err)
	}
	return errors.New("transaction " + id + " is " + string(txn.Status) + ", only pending transactions can be reviewed")
}

func syncCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [ID]",
		Short: "Promote approved transactions to the expense ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if all == (len(args) == 1) {
				return errors.New("pass either a transaction ID or --all")
			}

			return a.withEngine(cmd, func(ctx context.Context, _ *storage.SQLiteStorage, e *engine.Engine) error {
				if !all {
					expenseID, synced, err := e.SyncTransactionToExpense(ctx, args[0])
					if err != nil {
						return userError(err)
					}
					if !synced {
						cmd.Println(cli.FormatWarning("Nothing to sync: " + args[0] + " is not approved"))
						return nil
					}
					cmd.Println(cli.FormatSuccess("Created expense " + expenseID))
					return nil
				}

				handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
				ctx, stop := handler.HandleInterrupts(ctx, "Sync")
				defer stop()

				result, err := e.SyncApproved(ctx)
				if err != nil && !handler.WasInterrupted() {
					return err
				}
				printBatch(cmd, "Sync", result)
				return nil
			})
		},
	}
	cmd.Flags().Bool("all", false, "sync every approved transaction")
	return cmd
}

func printBatch(cmd *cobra.Command, title string, result engine.BatchResult) {
	lines := []string{
		fmt.Sprintf("Processed: %d of %d", result.Succeeded, result.Total),
		fmt.Sprintf("Skipped:   %d", result.Skipped),
		fmt.Sprintf("Failed:    %d", len(result.Errors)),
	}
	if result.AutoApproved > 0 {
		lines = append(lines, fmt.Sprintf("Auto-approved: %d", result.AutoApproved))
	}
	cmd.Println(cli.RenderBox(title+" Summary", strings.Join(lines, "\n")))
	for _, ie := range result.Errors {
		cmd.Println(cli.FormatWarning(ie.Error()))
	}
}
