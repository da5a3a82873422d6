package alerts

import (
	"fmt"
	"strings"

	"gold-spread-tracker/internal/market"
)

// FormatLatest renders the newest aligned row as a compact Telegram message:
// prices first, then the derived spreads.
func FormatLatest(t *market.Table, aliases []string) string {
	if t.Len() == 0 {
		return ""
	}
	last := t.Len() - 1
	var b strings.Builder
	fmt.Fprintf(&b, "Gold perp spreads @ %s\n", t.Index[last].Format("2006-01-02 15:04 UTC"))
	for _, alias := range aliases {
		if col, ok := t.Column(alias); ok {
			fmt.Fprintf(&b, "%s: %.2f\n", alias, col[last])
		}
	}
	for _, name := range market.SpreadColumns(aliases) {
		if col, ok := t.Column(name); ok {
			fmt.Fprintf(&b, "%s: %+.2f\n", name, col[last])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
