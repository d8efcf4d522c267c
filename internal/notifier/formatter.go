package notifier

import (
	"fmt"
	"strings"

	"github.com/uzairmukadam/Trend-Sage/internal/pipeline"
)

var trendSymbols = map[string]string{
	"up":      "📈",
	"down":    "📉",
	"flat":    "➖",
	"unknown": "❔",
}

// FormatRunReport formats a run summary into a Telegram message.
func FormatRunReport(summary *pipeline.RunSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Trend-Sage run</b> | %s\n", summary.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Units: %d ok, %d failed (%.1fs)\n\n",
		summary.Succeeded(), summary.Failed(),
		summary.FinishedAt.Sub(summary.StartedAt).Seconds()))

	for _, o := range summary.Outcomes {
		if o.Failed() {
			continue
		}
		sym := trendSymbols[string(o.Trend)]
		if o.Predicted != nil {
			b.WriteString(fmt.Sprintf("%s %s: %s (forecast %.2f)\n", sym, o.Key, o.Trend, *o.Predicted))
		} else {
			b.WriteString(fmt.Sprintf("%s %s: %s\n", sym, o.Key, o.Trend))
		}
	}

	if summary.Failed() > 0 {
		b.WriteString("\n⚠️ <b>Skipped units:</b>\n")
		for _, o := range summary.Outcomes {
			if !o.Failed() {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s @ %s: %s\n", o.Key, o.Stage, pipeline.ErrorClass(o.Err)))
		}
	}

	return b.String()
}
