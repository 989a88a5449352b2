// Package quote defines the normalized market-data model shared by every
// source adapter. Adapters translate their provider's response shape into
// these types on ingress; nothing downstream sees provider JSON.
package quote

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ChartMaxPoints is the maximum length of a snapshot's chart series
// (daily closes, roughly one calendar month).
const ChartMaxPoints = 30

// SearchMaxResults caps the number of candidates a search returns.
const SearchMaxResults = 10

var (
	// ErrPrimaryAggregate is returned when a domain's headline signal
	// (market index, current weather) cannot be fetched. It fails the
	// whole polling cycle for that domain; the previous successful
	// snapshot stays visible.
	ErrPrimaryAggregate = errors.New("primary aggregate fetch failed")

	// ErrMissingConfiguration is returned at construction time when a
	// required credential (the weather API key) is absent.
	ErrMissingConfiguration = errors.New("missing configuration")
)

// Status classifies the direction of a quote's change versus the
// previous close.
type Status string

const (
	StatusRising  Status = "RISING"
	StatusFalling Status = "FALLING"
	StatusSteady  Status = "STEADY"
)

// StatusFromChange derives a Status from a signed change value.
// Positive is RISING, negative is FALLING, zero is STEADY.
func StatusFromChange(change decimal.Decimal) Status {
	switch change.Sign() {
	case 1:
		return StatusRising
	case -1:
		return StatusFalling
	default:
		return StatusSteady
	}
}

// ParseStatus normalizes a provider-supplied direction string.
// Anything unrecognized is STEADY.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusRising, StatusFalling:
		return Status(s)
	default:
		return StatusSteady
	}
}

// WatchItem is one entry of a user's watch-list. ID is the
// provider-specific symbol or market code and is unique within a list;
// insertion order drives display order.
type WatchItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// TickerSnapshot is the normalized point-in-time result for one watched
// instrument. Chart holds daily closes oldest-first and may be empty;
// an empty chart does not invalidate the snapshot.
type TickerSnapshot struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	Price       string          `json:"price"`
	ChangeRatio decimal.Decimal `json:"changeRatioPercent"`
	Status      Status          `json:"status"`
	Chart       []float64       `json:"chart"`
}

// IndexSnapshot is a TickerSnapshot keyed by a fixed index name
// (KOSPI, KOSDAQ) instead of a user-selectable code.
type IndexSnapshot struct {
	Name        string          `json:"name"`
	Price       string          `json:"price"`
	ChangeRatio decimal.Decimal `json:"changeRatioPercent"`
	Status      Status          `json:"status"`
	Chart       []float64       `json:"chart,omitempty"`
}

// DomainSnapshot bundles one polling cycle's result for a market domain:
// the primary aggregate (indices, when the domain has them) plus one
// ticker per watch item, in watch-list order.
type DomainSnapshot struct {
	Indices []IndexSnapshot  `json:"indices,omitempty"`
	Tickers []TickerSnapshot `json:"tickers"`
}

// SearchCandidate is one ranked result of an adapter search. Candidates
// are never persisted.
type SearchCandidate struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category"`
}

// Location is a geographic point used by the weather domain. Exactly one
// Location is active per session.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}
