package telegram

import (
	"fmt"
	"strings"

	"skincare-report/internal/metrics"
	"skincare-report/internal/report"
	"skincare-report/internal/usage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// formatRoutineMarkdown summarises the AM and PM routines of a request with
// the resolved usage plan of every product.
func formatRoutineMarkdown(req report.Request) string {
	var sb strings.Builder
	sb.WriteString("🧴 *Your Routine*\n")

	found := false
	for _, rec := range req.Recommendations {
		phase, ok := usage.PhaseFromCategory(rec.Category)
		if !ok || len(rec.Products) == 0 {
			continue
		}
		found = true

		sb.WriteString(fmt.Sprintf("\n*%s*\n", report.RoutineHeading(rec.Category)))
		for i, p := range rec.Products {
			plan := usage.Resolve(p, phase)
			sb.WriteString(fmt.Sprintf("%d. *%s*\n", i+1, escape(p.Name)))
			sb.WriteString(fmt.Sprintf("   🕒 %s · %s\n", escape(plan.When), escape(plan.Frequency)))
			if plan.Caution != "" {
				sb.WriteString(fmt.Sprintf("   ⚠️ _%s_\n", escape(plan.Caution)))
			}
		}
	}

	if !found {
		sb.WriteString("\n_No AM/PM routine in this request._\n")
	}
	return sb.String()
}

func formatMetricsMarkdown(days []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Reports*\n")
	if len(days) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range days {
		sb.WriteString(fmt.Sprintf("• *%s*: %d reports (%d products, avg %dms)\n", d.Date, d.Reports, d.Products, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Reports on disk: %d (%s)\n", health.ReportFiles, health.DataDiskSize))
	return sb.String()
}
