// Package ath derives the all-time-high close from a daily price history.
package ath

import (
	"time"

	"stocktracker/internal/marketclock"
	"stocktracker/internal/provider"
)

// AllTimeHigh is the highest close with traded volume and the day it happened.
type AllTimeHigh struct {
	ATHPrice         float64 `json:"athPrice"`
	ATHDate          string  `json:"athDate"`
	ATHDateFormatted string  `json:"athDateFormatted"`
}

const (
	isoDate  = "2006-01-02"
	longDate = "2 January 2006"
)

// New builds an AllTimeHigh for price reached on day. The date is rendered in
// the exchange time zone.
func New(price float64, day time.Time) AllTimeHigh {
	local := day.In(marketclock.Location)
	return AllTimeHigh{
		ATHPrice:         provider.Round2(price),
		ATHDate:          local.Format(isoDate),
		ATHDateFormatted: local.Format(longDate),
	}
}

// Compute scans series once and keeps the first strictly greater close among
// bars with positive volume. It returns false when no bar qualifies.
func Compute(series []provider.Bar) (AllTimeHigh, bool) {
	var (
		best  float64
		day   time.Time
		found bool
	)
	for _, b := range series {
		if b.Close == nil || b.Volume <= 0 {
			continue
		}
		if c := *b.Close; c > best {
			best, day, found = c, b.Date, true
		}
	}
	if !found {
		return AllTimeHigh{}, false
	}
	return New(best, day), true
}
