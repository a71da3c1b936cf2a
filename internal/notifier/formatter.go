package notifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"FuturesScanner/internal/model"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatSignal renders the alert for an actionable decision.
func FormatSignal(symbol string, decision model.Decision, t model.TargetSet) string {
	return fmt.Sprintf("%s Signal: %s\nEntry: %s\nTP1: %s | TP2: %s | TP3: %s\nSL: %s",
		decision, symbol, num(t.Entry), num(t.TP1), num(t.TP2), num(t.TP3), num(t.SL))
}

// FormatScanSummary renders a short reply for an on-demand scan.
func FormatScanSummary(report *model.ScanReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Scan complete: %d results, %d skipped\n", report.Count, len(report.Skipped)))

	var actionable []string
	for _, r := range report.Results {
		if r.Decision.Actionable() {
			actionable = append(actionable, fmt.Sprintf("%s %s @ %s (buy %d / sell %d)",
				r.Decision, r.Symbol, num(r.Price), r.ScoreBuy, r.ScoreSell))
		}
	}
	if len(actionable) == 0 {
		b.WriteString("No actionable signals.")
		return b.String()
	}
	b.WriteString(strings.Join(actionable, "\n"))
	return b.String()
}

// FormatStatus renders the last scan state.
func FormatStatus(last time.Time, report *model.ScanReport, running bool) string {
	if last.IsZero() || report == nil {
		return fmt.Sprintf("No scan completed yet. Running: %v", running)
	}
	return fmt.Sprintf("Last scan: %s\nResults: %d | Skipped: %d\nRunning: %v",
		last.Format("2006-01-02 15:04:05 MST"), report.Count, len(report.Skipped), running)
}
