package cmd

import (
	"fmt"
	"strings"

	"skincare-report/internal/usage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	resolveName  string
	resolveTags  []string
	resolvePhase string
)

var resolveCmd = &cobra.Command{
	Use:     "resolve",
	Short:   "Show the usage plan for a single product",
	Example: `  skincare-report resolve --name "Rosemary Hair Growth Oil" --tag "Hair Oil" --phase evening`,
	RunE:    runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveName, "name", "n", "", "product name")
	resolveCmd.Flags().StringSliceVarP(&resolveTags, "tag", "t", nil, "product tag (repeatable)")
	resolveCmd.Flags().StringVarP(&resolvePhase, "phase", "p", "morning", "routine phase: morning or evening")
	_ = resolveCmd.MarkFlagRequired("name")
}

func runResolve(cmd *cobra.Command, _ []string) error {
	phase, err := usage.ParsePhase(resolvePhase)
	if err != nil {
		return err
	}

	p := usage.Product{Name: resolveName, Tags: resolveTags}
	plan := usage.Resolve(p, phase)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "When:       %s\n", plan.When)
	fmt.Fprintf(out, "How to use: %s\n", plan.HowToUse)
	fmt.Fprintf(out, "Frequency:  %s\n", plan.Frequency)
	fmt.Fprintf(out, "Duration:   %s\n", plan.Duration)
	if plan.Caution != "" {
		fmt.Fprintf(out, "Caution:    %s\n", plan.Caution)
	}

	rules := usage.Matches(p, phase)
	if len(rules) == 0 {
		rules = []string{"default"}
	}
	log.Debug("usage rules applied", zap.String("product", p.Name), zap.Strings("rules", rules))
	fmt.Fprintf(out, "Rules:      %s\n", strings.Join(rules, ", "))
	return nil
}
