package models

import "time"

// Extraction statuses. "unavailable" is the expected steady state for a
// channel that is not currently streaming; "failed" covers fetch errors and
// malformed player data.
const (
	StatusLive        = "live"
	StatusUnavailable = "unavailable"
	StatusFailed      = "failed"
)

// Result is the outcome of one extraction attempt for one channel.
// URL is empty unless Status is StatusLive.
type Result struct {
	Channel     Channel
	URL         string
	Status      string
	Err         string // diagnostic detail for failed results
	ExtractedAt time.Time
}

// Live reports whether the result carries a usable manifest URL.
func (r *Result) Live() bool {
	return r.Status == StatusLive && r.URL != ""
}
