package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	publishID    string
	publishDraft bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish an archived report to Ghost",
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishID, "id", "", "report id")
	publishCmd.Flags().BoolVar(&publishDraft, "draft", false, "create the post as a draft")
	_ = publishCmd.MarkFlagRequired("id")
}

func runPublish(cmd *cobra.Command, _ []string) error {
	if err := cfg.RequireGhost(); err != nil {
		return err
	}

	a, closeDB, err := openApp()
	if err != nil {
		return err
	}
	defer closeDB()

	rec, err := a.Publish(cmd.Context(), publishID, !publishDraft)
	if err != nil {
		return err
	}

	status := "Published"
	if publishDraft {
		status = "Draft created"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", status, rec.PublishedURL)
	return nil
}
