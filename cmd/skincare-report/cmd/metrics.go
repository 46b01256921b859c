package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statsDays   int
	cleanupDays int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daily render activity and system health",
	RunE:  runStats,
}

var metricsCleanupCmd = &cobra.Command{
	Use:   "metrics-cleanup",
	Short: "Delete render metrics older than N days",
	RunE:  runMetricsCleanup,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "number of days to report")
	metricsCleanupCmd.Flags().IntVar(&cleanupDays, "days", 30, "keep metrics from the last N days")
}

func runStats(cmd *cobra.Command, _ []string) error {
	a, closeDB, err := openApp()
	if err != nil {
		return err
	}
	defer closeDB()

	days, health, err := a.Usage(cmd.Context(), statsDays)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reports (last %d days)\n", statsDays)
	if len(days) == 0 {
		fmt.Fprintln(out, "  no data yet")
	}
	for _, d := range days {
		fmt.Fprintf(out, "  %s  %d reports, %d products, avg %dms\n", d.Date, d.Reports, d.Products, d.AvgLatencyMS)
	}
	fmt.Fprintln(out, "Health")
	fmt.Fprintf(out, "  memory      %dMB alloc / %dMB sys\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(out, "  goroutines  %d\n", health.Goroutines)
	fmt.Fprintf(out, "  reports     %d files, %s\n", health.ReportFiles, health.DataDiskSize)
	return nil
}

func runMetricsCleanup(cmd *cobra.Command, _ []string) error {
	if cleanupDays < 0 {
		return fmt.Errorf("--days must not be negative")
	}

	a, closeDB, err := openApp()
	if err != nil {
		return err
	}
	defer closeDB()

	removed, err := a.CleanupMetrics(cmd.Context(), cleanupDays)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d metric records older than %d days.\n", removed, cleanupDays)
	return nil
}
