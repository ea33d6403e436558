package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scaffale/internal/adapters/cli"
	"scaffale/internal/application/commands"
)

var (
	classifyPublisher   string
	classifyDescription string
	ruleKind            string
	ruleMedia           string
	rulePriority        int
)

var classifyCmd = &cobra.Command{
	Use:   "classify <title>",
	Short: "Guess the collection type of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := commands.NewClassifyCommand(GetInventory(), args[0], classifyPublisher, classifyDescription).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage classification rules",
}

var rulesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List rules in evaluation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := GetInventory().ListRules(cmd.Context())
		if err != nil {
			return err
		}
		cli.RenderRules(cmd.OutOrStdout(), rules)
		return nil
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add <pattern>",
	Short: "Add a classification rule",
	Long: `Add a classification rule. Rules are evaluated from the highest
priority down; the first match decides the type.

Examples:
  scaffale-cli rules add Shueisha --kind publisher_contains --media manga --priority 80
  scaffale-cli rules add '(?i)vol\.?\s*\d+' --kind title_regex --media manga`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rule, err := commands.NewAddRuleCommand(GetInventory(), args[0], ruleKind, ruleMedia, rulePriority).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, fmt.Sprintf("Added rule %d: %s %q -> %s", rule.ID, rule.PatternType, rule.Pattern, rule.MediaType))
		return nil
	},
}

var rulesRmCmd = &cobra.Command{
	Use:   "rm <rule-id>",
	Short: "Delete a classification rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid rule ID: %s", args[0])
		}
		if err := GetInventory().DeleteRule(cmd.Context(), id); err != nil {
			return err
		}
		printSuccess(cmd, fmt.Sprintf("Deleted rule %d", id))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd, rulesCmd)
	rulesCmd.AddCommand(rulesLsCmd, rulesAddCmd, rulesRmCmd)

	classifyCmd.Flags().StringVar(&classifyPublisher, "publisher", "", "publisher")
	classifyCmd.Flags().StringVar(&classifyDescription, "description", "", "free-form description")

	rulesAddCmd.Flags().StringVar(&ruleKind, "kind", "title_contains", "title_contains, publisher_contains, description_contains or title_regex")
	rulesAddCmd.Flags().StringVar(&ruleMedia, "media", "", "collection type the rule assigns")
	rulesAddCmd.Flags().IntVar(&rulePriority, "priority", 50, "higher priorities are evaluated first")
	_ = rulesAddCmd.MarkFlagRequired("media")
}
