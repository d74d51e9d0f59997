package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"stocktracker/internal/aggregate"
)

func writeJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// formatResult renders one result as a single line.
func formatResult(r aggregate.Result) string {
	var b strings.Builder
	if r.Error {
		fmt.Fprintf(&b, "%-12s  no data", r.Symbol)
		return b.String()
	}
	fmt.Fprintf(&b, "%-12s  %10.2f  %+8.2f (%+.2f%%)  %s", r.Symbol, r.Price, r.Change, r.ChangePercent, r.MarketState)
	if r.HasATH() {
		fmt.Fprintf(&b, "  ATH %.2f on %s", r.ATHPrice, r.ATHDateFormatted)
	}
	if r.Correction != nil {
		fmt.Fprintf(&b, " (%+.2f%%)", r.Correction.Percent)
	}
	switch {
	case r.IsDemo:
		b.WriteString("  [DEMO]")
	case r.IsLive:
		b.WriteString("  [LIVE]")
	}
	return b.String()
}
