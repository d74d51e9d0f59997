// Package marketclock answers whether the NSE/BSE cash session is open.
package marketclock

import "time"

// Location is Indian Standard Time. India observes no DST, so a fixed zone is exact.
var Location = time.FixedZone("IST", 5*60*60+30*60)

const (
	openMinute  = 9*60 + 15  // 09:15
	closeMinute = 15*60 + 30 // 15:30

	OpenRefresh   = 30 * time.Second
	ClosedRefresh = 5 * time.Minute
)

// IsOpen reports whether t falls inside the regular session, 09:15-15:30
// IST inclusive, Monday to Friday. Exchange holidays are not modelled.
func IsOpen(t time.Time) bool {
	local := t.In(Location)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	hour, min, _ := local.Clock()
	minuteOfDay := hour*60 + min
	return minuteOfDay >= openMinute && minuteOfDay <= closeMinute
}

// RefreshInterval is the polling cadence a client should use at t.
func RefreshInterval(t time.Time) time.Duration {
	if IsOpen(t) {
		return OpenRefresh
	}
	return ClosedRefresh
}

// RefreshIntervalMillis is RefreshInterval in milliseconds.
func RefreshIntervalMillis(t time.Time) int64 {
	return RefreshInterval(t).Milliseconds()
}
