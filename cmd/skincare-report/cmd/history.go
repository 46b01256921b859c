package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	historyRecipient string
	historyLimit     int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived reports, newest first",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyRecipient, "recipient", "", "only reports for this recipient")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of reports")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, closeDB, err := openApp()
	if err != nil {
		return err
	}
	defer closeDB()

	records, err := a.History(cmd.Context(), historyRecipient, historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGENERATED\tLAYOUT\tPRODUCTS\tTITLE\tPUBLISHED")
	for _, r := range records {
		published := r.PublishedURL
		if published == "" {
			published = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, humanize.Time(r.GeneratedAt), r.Layout, r.ProductCount, r.Title, published)
	}
	return w.Flush()
}
