package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/spf13/cobra"
)

// channelImport is the file format read by channels import.
type channelImport struct {
	Orders   []model.ChannelOrder `json:"orders"`
	Invoices []model.Invoice      `json:"invoices"`
}

func channelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Reconcile sales-channel orders and fees",
	}

	importFile := &cobra.Command{
		Use:   "import FILE",
		Short: "Import channel orders and invoices from a JSON file",
		Long: `Import a JSON document of the form {"orders": [...], "invoices": [...]}.
Orders and invoices that were already imported are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied import file
			if err != nil {
				return err
			}
			var doc channelImport
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, _ *engine.Engine) error {
				var invoices int
				for i := range doc.Invoices {
					err := store.CreateInvoice(ctx, &doc.Invoices[i])
					if errors.Is(err, common.ErrDuplicateEntry) {
						continue
					}
					if err != nil {
						return fmt.Errorf("invoice %s: %w", doc.Invoices[i].InvoiceNumber, err)
					}
					invoices++
				}
				var inserted, skipped int
				for i := range doc.Orders {
					ok, err := store.InsertChannelOrder(ctx, &doc.Orders[i])
					if err != nil {
						return fmt.Errorf("order %s: %w", doc.Orders[i].ChannelOrderID, err)
					}
					if ok {
						inserted++
					} else {
						skipped++
					}
				}
				cmd.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d orders (%d already known) and %d invoices",
					inserted, skipped, invoices)))
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List channel orders with revenue and fee totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			unmatched, _ := cmd.Flags().GetBool("unmatched")
			channel, _ := cmd.Flags().GetString("channel")
			channel = strings.ToUpper(channel)
			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, _ *engine.Engine) error {
				orders, err := store.ListChannelOrders(ctx, unmatched)
				if err != nil {
					return err
				}
				for _, o := range orders {
					if channel != "" && o.Channel != channel {
						continue
					}
					invoice := cli.SubtleStyle.Render("unmatched")
					if o.LinkedInvoiceID != nil {
						invoice = cli.SuccessStyle.Render("invoice " + *o.LinkedInvoiceID)
					}
					cmd.Printf("%s  %-6s  %-20s  %s  %10s  %s\n",
						cli.SubtleStyle.Render(o.ID[:min(8, len(o.ID))]),
						o.Channel, cli.Truncate(o.ChannelOrderID, 20),
						o.OrderDate.Format("2006-01-02"),
						cli.FormatAmount(o.TotalAmount), invoice)
				}

				stats, err := store.ChannelStats(ctx, channel)
				if err != nil {
					return err
				}
				cmd.Println()
				cmd.Println(cli.SubtleStyle.Render(cli.ChannelStatsLine(stats)))
				return nil
			})
		},
	}
	list.Flags().Bool("unmatched", false, "only orders without an invoice")
	list.Flags().String("channel", "", "only orders from this channel (e.g. AMAZON)")

	match := &cobra.Command{
		Use:   "match ORDER",
		Short: "Link an order to the invoice for the same total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context, _ *storage.SQLiteStorage, e *engine.Engine) error {
				invoiceID, ok, err := e.MatchOrderToInvoice(ctx, args[0])
				if err != nil {
					return userError(err)
				}
				if !ok {
					cmd.Println(cli.FormatWarning("No unclaimed invoice matches order " + args[0]))
					return nil
				}
				cmd.Println(cli.FormatSuccess(fmt.Sprintf("Order %s linked to invoice %s", args[0], invoiceID)))
				return nil
			})
		},
	}

	fees := &cobra.Command{
		Use:   "fees ORDER",
		Short: "Record the order's channel fees as expenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context, _ *storage.SQLiteStorage, e *engine.Engine) error {
				result, err := e.SyncFeesToExpenses(ctx, args[0])
				if err != nil {
					return userError(err)
				}
				printBatch(cmd, "Fee Sync", result)
				return nil
			})
		},
	}

	cmd.AddCommand(importFile, list, match, fees)
	return cmd
}
