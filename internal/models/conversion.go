package models

import (
	"fmt"
	"time"
)

// ConversionRecord is a single logged currency conversion event. Records are
// created once per successful conversion, appended to the history file and
// never mutated. The JSON field names match the history format of earlier
// releases so existing files keep loading.
type ConversionRecord struct {
	Timestamp time.Time `json:"timestamp"`
	From      string    `json:"base"`
	To        string    `json:"target"`
	Amount    float64   `json:"amount"`
	Result    float64   `json:"converted"`
	Rate      float64   `json:"rate"`
}

// String renders the record the way the convert command prints results.
func (r ConversionRecord) String() string {
	return fmt.Sprintf("%.2f %s = %.2f %s (rate: %.6f)", r.Amount, r.From, r.Result, r.To, r.Rate)
}

// Summary renders a compact one-line form used in history listings.
func (r ConversionRecord) Summary() string {
	return fmt.Sprintf("%s: %.2f %s -> %.2f %s",
		r.Timestamp.Format("2006-01-02"), r.Amount, r.From, r.Result, r.To)
}
