package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/spf13/cobra"
)

func rulesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage categorization rules",
		Long: `Rules map merchant names to categories. When several rules match, the one
with the highest priority wins; ties go to the oldest rule.`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, _ *engine.Engine) error {
				rules, err := store.ListRules(ctx, false)
				if err != nil {
					return err
				}
				if len(rules) == 0 {
					cmd.Println(cli.FormatInfo("No rules yet. Add one with: tally rules add PATTERN CATEGORY"))
					return nil
				}
				cmd.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%4s  %4s  %-11s  %-28s  %-24s  %s",
					"ID", "PRI", "MATCH", "PATTERN", "CATEGORY", "FLAGS")))
				for _, r := range rules {
					var flags []string
					if r.AutoApprove {
						flags = append(flags, "auto-approve")
					}
					if !r.IsActive {
						flags = append(flags, "inactive")
					}
					cmd.Printf("%4d  %4d  %-11s  %-28s  %-24s  %s\n",
						r.ID, r.Priority, r.MatchType,
						cli.Truncate(r.MerchantPattern, 28),
						cli.Truncate(r.Category, 24),
						strings.Join(flags, ","))
				}
				return nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add PATTERN CATEGORY",
		Short: "Add a rule",
		Example: `  tally rules add SHELL "Fuel/Mileage Expenses" --priority 10
  tally rules add '^ADOBE' Software --match regex --auto-approve`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			match, _ := cmd.Flags().GetString("match")
			priority, _ := cmd.Flags().GetInt("priority")
			autoApprove, _ := cmd.Flags().GetBool("auto-approve")

			rule := &model.TransactionRule{
				Name:            name,
				MerchantPattern: args[0],
				MatchType:       model.MatchType(strings.ToLower(match)),
				Category:        args[1],
				Priority:        priority,
				AutoApprove:     autoApprove,
				IsActive:        true,
			}
			if rule.Name == "" {
				rule.Name = args[0] + " → " + args[1]
			}
			if err := checkRule(rule); err != nil {
				return err
			}

			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, _ *engine.Engine) error {
				if err := store.CreateRule(ctx, rule); err != nil {
					return err
				}
				cmd.Println(cli.FormatSuccess(fmt.Sprintf("Created rule %d: %s", rule.ID, rule.Name)))
				return nil
			})
		},
	}
	add.Flags().String("name", "", "rule name (default PATTERN → CATEGORY)")
	add.Flags().String("match", string(model.MatchContains), "contains, starts_with, ends_with, exact or regex")
	add.Flags().Int("priority", 0, "higher priorities are evaluated first")
	add.Flags().Bool("auto-approve", false, "approve matching transactions without review")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("rule ID must be a number: %w", err)
			}
			return a.withEngine(cmd, func(ctx context.Context, store *storage.SQLiteStorage, _ *engine.Engine) error {
				if err := store.DeleteRule(ctx, id); err != nil {
					return userError(err)
				}
				cmd.Println(cli.FormatSuccess(fmt.Sprintf("Deleted rule %d", id)))
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

// checkRule rejects rules that could never match.
func checkRule(rule *model.TransactionRule) error {
	if !rule.MatchType.Valid() {
		return common.NewUserError(fmt.Sprintf("unknown match type %q", rule.MatchType), nil)
	}
	if rule.MatchType == model.MatchRegex {
		if _, err := common.CompileFold(rule.MerchantPattern); err != nil {
			return common.NewUserError("pattern is not a valid regular expression", err)
		}
	}
	return nil
}
