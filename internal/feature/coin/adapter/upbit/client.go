package upbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"dashboard_backend/internal/shared/quote"
)

// minQueryLength is the shortest query the coin search will process.
const minQueryLength = 1

// tickerEntry is one element of the ticker-by-market-codes response.
type tickerEntry struct {
	Market            string  `json:"market"`
	TradePrice        float64 `json:"trade_price"`
	SignedChangePrice float64 `json:"signed_change_price"`
	SignedChangeRate  float64 `json:"signed_change_rate"`
	Change            string  `json:"change"` // RISE / FALL / EVEN
}

// marketEntry is one element of the full market list.
type marketEntry struct {
	Market     string `json:"market"`
	KoreanName string `json:"korean_name"`
}

// dayCandle is one daily candle; the endpoint returns candles
// newest-first.
type dayCandle struct {
	TradePrice float64 `json:"trade_price"`
}

// Client calls the Upbit public API and normalizes its responses into
// the shared snapshot model.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a Client with the given configuration and HTTP client.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("upbit http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// symbolOf strips the fiat prefix from a market code (KRW-BTC -> BTC).
func symbolOf(market string) string {
	if i := strings.Index(market, "-"); i >= 0 {
		return market[i+1:]
	}
	return market
}

// statusOf maps Upbit's change field onto the shared Status enum.
func statusOf(change string) quote.Status {
	switch change {
	case "RISE":
		return quote.StatusRising
	case "FALL":
		return quote.StatusFalling
	default:
		return quote.StatusSteady
	}
}

// FetchQuotes fetches current tickers for the given market codes in one
// batch request. The names map supplies localized display names; markets
// without an entry fall back to their symbol. A failure here covers the
// whole watch-list and is fatal for the polling cycle.
func (c *Client) FetchQuotes(ctx context.Context, ids []string, names map[string]string) ([]quote.TickerSnapshot, error) {
	if len(ids) == 0 {
		return []quote.TickerSnapshot{}, nil
	}

	u := fmt.Sprintf("%s/ticker?markets=%s", c.cfg.BaseURL, url.QueryEscape(strings.Join(ids, ",")))

	var body []tickerEntry
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}

	out := make([]quote.TickerSnapshot, 0, len(body))
	for _, t := range body {
		if t.Market == "" {
			slog.Warn("coin ticker entry malformed, skipping")
			continue
		}
		name := names[t.Market]
		if name == "" {
			name = symbolOf(t.Market)
		}
		out = append(out, quote.TickerSnapshot{
			ID:          t.Market,
			DisplayName: name,
			Price:       formatPrice(t.TradePrice),
			ChangeRatio: decimal.NewFromFloat(t.SignedChangeRate * 100).Round(2),
			Status:      statusOf(t.Change),
			Chart:       []float64{},
		})
	}
	return out, nil
}

// FetchMarketNames fetches the full market list and returns the market
// code to localized name map used for display names and search.
func (c *Client) FetchMarketNames(ctx context.Context) (map[string]string, error) {
	markets, err := c.fetchMarkets(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(markets))
	for _, m := range markets {
		names[m.Market] = m.KoreanName
	}
	return names, nil
}

func (c *Client) fetchMarkets(ctx context.Context) ([]marketEntry, error) {
	u := fmt.Sprintf("%s/market/all?isDetails=false", c.cfg.BaseURL)

	var body []marketEntry
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("fetch market list: %w", err)
	}
	return body, nil
}

// FetchChart fetches up to 30 daily closes for a market. The endpoint
// returns candles newest-first; the series is reversed to oldest-first.
// Failures degrade to an empty series.
func (c *Client) FetchChart(ctx context.Context, id string) []float64 {
	u := fmt.Sprintf("%s/candles/days?market=%s&count=%d",
		c.cfg.BaseURL, url.QueryEscape(id), quote.ChartMaxPoints)

	var body []dayCandle
	if err := c.getJSON(ctx, u, &body); err != nil {
		slog.Warn("coin chart fetch failed", "market", id, "error", err)
		return []float64{}
	}

	closes := make([]float64, len(body))
	for i, candle := range body {
		closes[len(body)-1-i] = candle.TradePrice
	}
	return closes
}

// Search filters the KRW markets by localized name or upper-cased symbol
// substring, capped at 10 candidates. Queries below one character return
// empty without a network call.
func (c *Client) Search(ctx context.Context, query string) ([]quote.SearchCandidate, error) {
	if len([]rune(query)) < minQueryLength {
		return []quote.SearchCandidate{}, nil
	}

	markets, err := c.fetchMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("coin search %q: %w", query, err)
	}

	upper := strings.ToUpper(query)
	out := make([]quote.SearchCandidate, 0, quote.SearchMaxResults)
	for _, m := range markets {
		if !strings.HasPrefix(m.Market, "KRW-") {
			continue
		}
		if !strings.Contains(m.KoreanName, query) && !strings.Contains(symbolOf(m.Market), upper) {
			continue
		}
		out = append(out, quote.SearchCandidate{
			ID:          m.Market,
			DisplayName: m.KoreanName,
			Category:    "coin",
		})
		if len(out) == quote.SearchMaxResults {
			break
		}
	}
	return out, nil
}

// formatPrice renders a trade price with thousands separators on the
// integer part, keeping any fractional digits (93,215,000 / 1,234.5).
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	if hasFrac {
		out += "." + fracPart
	}
	return out
}
