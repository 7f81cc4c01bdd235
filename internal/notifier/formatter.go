package notifier

import (
	"fmt"
	"html"
	"strings"

	"SignalSentinel/internal/model"
)

func action(s model.Signal) string {
	switch {
	case s.IsEntry():
		return "open position"
	case s.IsExit():
		return "close position"
	default:
		return "hold"
	}
}

func formatValue(v float64) string {
	if !model.Defined(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatEvaluation renders an evaluation as an HTML Telegram message.
func FormatEvaluation(eval *model.Evaluation) string {
	var b strings.Builder
	row := eval.Row

	b.WriteString(fmt.Sprintf("<b>%s</b> | %s | <code>%s</code>\n\n", html.EscapeString(eval.Symbol), row.Date.Format("2006-01-02"), eval.Signal))
	b.WriteString(fmt.Sprintf("Action: %s\n", action(eval.Signal)))
	b.WriteString(fmt.Sprintf("Close: %s\n", formatValue(row.Close)))
	if eval.EntryPrice != nil {
		b.WriteString(fmt.Sprintf("Entry: %s\n", formatValue(*eval.EntryPrice)))
	}
	b.WriteString(fmt.Sprintf("EMA20: %s | EMA50: %s\n", formatValue(row.EMA20), formatValue(row.EMA50)))
	b.WriteString(fmt.Sprintf("BB: %s / %s\n", formatValue(row.BBLower), formatValue(row.BBUpper)))
	b.WriteString(fmt.Sprintf("Stoch %%K/%%D: %s / %s\n", formatValue(row.StochK), formatValue(row.StochD)))
	b.WriteString(fmt.Sprintf("Support: %s | Resistance: %s\n", formatValue(row.Support), formatValue(row.Resistance)))
	if eval.Rule != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", html.EscapeString(eval.Rule)))
	}
	return b.String()
}

// FormatSignalAlert renders a scheduled alert for an actionable signal.
func FormatSignalAlert(eval *model.Evaluation) string {
	return "🔔 <b>Signal alert</b>\n\n" + FormatEvaluation(eval)
}
