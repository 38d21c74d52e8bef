package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/spf13/cobra"
)

func accountsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage linked bank accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List linked bank accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, _ *engine.Engine) error {
				accounts, err := store.ListBankAccounts(ctx, !all)
				if err != nil {
					return err
				}
				if len(accounts) == 0 {
					cmd.Println(cli.FormatInfo("No accounts linked yet. Run tally import plaid or tally import ofx."))
					return nil
				}
				for _, acct := range accounts {
					synced := "never"
					if acct.LastSyncedAt != nil {
						synced = acct.LastSyncedAt.Format("2006-01-02 15:04")
					}
					state := cli.SuccessStyle.Render("active")
					if !acct.IsActive {
						state = cli.SubtleStyle.Render("inactive")
					}
					cmd.Printf("%s  %-28s  ****%-4s  %12s  synced %s  %s\n",
						cli.SubtleStyle.Render(acct.ID[:min(8, len(acct.ID))]),
						cli.Truncate(acct.Name, 28),
						acct.Mask,
						cli.FormatAmount(acct.CurrentBalance),
						synced,
						state)
				}
				return nil
			})
		},
	}
	list.Flags().Bool("all", false, "include deactivated accounts")

	deactivate := &cobra.Command{
		Use:   "deactivate ID",
		Short: "Stop ingesting transactions for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, _ *engine.Engine) error {
				if err := store.DeactivateBankAccount(ctx, args[0]); err != nil {
					return userError(err)
				}
				cmd.Println(cli.FormatSuccess(fmt.Sprintf("Account %s deactivated", args[0])))
				return nil
			})
		},
	}

	cmd.AddCommand(list, deactivate)
	return cmd
}
