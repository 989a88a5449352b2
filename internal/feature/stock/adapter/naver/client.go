package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/shopspring/decimal"

	"dashboard_backend/internal/shared/quote"
)

// mobileUserAgent mimics the mobile web client; the gateway rejects
// requests without a browser User-Agent.
const mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

// minQueryLength is the shortest query the stock search will forward
// upstream. Anything shorter returns empty without a network call.
const minQueryLength = 1

// Client calls the Naver stock gateway and normalizes its responses into
// the shared snapshot model.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a Client with the given configuration and HTTP client.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// getJSON issues a GET against the mobile gateway with the fixed headers
// the upstream requires and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, referer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Referer", referer)
	req.Header.Set("User-Agent", mobileUserAgent)
	req.Header.Set("x-up-source", "stock_mobile")

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
		return fmt.Errorf("naver http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// FetchIndex fetches the current quote for a fixed market index (KOSPI or
// KOSDAQ). An error here is fatal for the stock polling cycle.
func (c *Client) FetchIndex(ctx context.Context, name string) (quote.IndexSnapshot, error) {
	u := fmt.Sprintf("%s/index/%s/price?pageSize=1&page=1", c.cfg.BaseURL, url.PathEscape(name))

	var body []indexPrice
	if err := c.getJSON(ctx, u, "https://m.stock.naver.com/", &body); err != nil {
		return quote.IndexSnapshot{}, fmt.Errorf("fetch index %s: %w", name, err)
	}
	if len(body) == 0 {
		return quote.IndexSnapshot{}, fmt.Errorf("fetch index %s: empty response", name)
	}

	ratio, err := decimal.NewFromString(body[0].FluctuationsRatio)
	if err != nil {
		return quote.IndexSnapshot{}, fmt.Errorf("fetch index %s: parse ratio %q: %w", name, body[0].FluctuationsRatio, err)
	}

	return quote.IndexSnapshot{
		Name:        name,
		Price:       body[0].ClosePrice,
		ChangeRatio: ratio,
		Status:      statusOf(body[0].CompareToPreviousPrice.Name, ratio),
	}, nil
}

// statusOf maps Naver's direction name onto the shared Status enum,
// deriving it from the signed change ratio when the name is absent.
func statusOf(name string, ratio decimal.Decimal) quote.Status {
	if name == "" {
		return quote.StatusFromChange(ratio)
	}
	return quote.ParseStatus(name)
}

// fetchQuote fetches the item detail for one code. The latest
// dealTrendInfos entry is the current quote; a malformed entry is
// rejected rather than propagated downstream.
func (c *Client) fetchQuote(ctx context.Context, code string) (quote.TickerSnapshot, error) {
	u := fmt.Sprintf("%s/stock/%s/integration", c.cfg.BaseURL, url.PathEscape(code))

	var body integrationResponse
	if err := c.getJSON(ctx, u, "https://m.stock.naver.com/", &body); err != nil {
		return quote.TickerSnapshot{}, fmt.Errorf("fetch quote %s: %w", code, err)
	}
	if body.ItemCode == "" || len(body.DealTrendInfos) == 0 {
		return quote.TickerSnapshot{}, fmt.Errorf("fetch quote %s: malformed response", code)
	}

	trend := body.DealTrendInfos[0]
	ratio, err := decimal.NewFromString(trend.FluctuationsRatio)
	if err != nil {
		return quote.TickerSnapshot{}, fmt.Errorf("fetch quote %s: parse ratio %q: %w", code, trend.FluctuationsRatio, err)
	}

	return quote.TickerSnapshot{
		ID:          body.ItemCode,
		DisplayName: body.StockName,
		Price:       trend.ClosePrice,
		ChangeRatio: ratio,
		Status:      statusOf(trend.CompareToPreviousPrice.Name, ratio),
		Chart:       []float64{},
	}, nil
}

// FetchQuotes fetches current quotes for the given codes, one request per
// code issued concurrently. A failed code is logged and omitted from the
// result; it never aborts the others. Result order follows completion,
// not input order -- the orchestrator re-keys by id.
func (c *Client) FetchQuotes(ctx context.Context, ids []string) ([]quote.TickerSnapshot, error) {
	results := make([]*quote.TickerSnapshot, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			snap, err := c.fetchQuote(ctx, id)
			if err != nil {
				slog.Warn("stock quote fetch failed", "code", id, "error", err)
				return
			}
			results[i] = &snap
		}(i, id)
	}
	wg.Wait()

	out := make([]quote.TickerSnapshot, 0, len(ids))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// FetchChart fetches up to 30 daily closes for a code, oldest first.
// Failures degrade to an empty series and are never fatal.
func (c *Client) FetchChart(ctx context.Context, id string) []float64 {
	u := fmt.Sprintf("%s/chart/domestic/item/%s?periodType=day&count=%d",
		c.cfg.BaseURL, url.PathEscape(id), quote.ChartMaxPoints)

	var body []chartPoint
	if err := c.getJSON(ctx, u, "https://m.stock.naver.com/", &body); err != nil {
		slog.Warn("stock chart fetch failed", "code", id, "error", err)
		return []float64{}
	}

	closes := make([]float64, 0, len(body))
	for _, p := range body {
		raw := p.ClosePrice
		if raw == "" {
			raw = p.Close
		}
		v, err := raw.Float64()
		if err != nil {
			slog.Warn("stock chart point malformed", "code", id, "value", raw.String())
			continue
		}
		closes = append(closes, v)
	}
	if len(closes) > quote.ChartMaxPoints {
		closes = closes[len(closes)-quote.ChartMaxPoints:]
	}
	return closes
}

// Search queries the autocomplete endpoint across stock, index,
// marketindicator and coin targets, capped at 10 candidates. Queries
// shorter than one character return empty without touching the network.
func (c *Client) Search(ctx context.Context, query string) ([]quote.SearchCandidate, error) {
	if len([]rune(query)) < minQueryLength {
		return []quote.SearchCandidate{}, nil
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("target", "stock,index,marketindicator,coin")
	u := fmt.Sprintf("%s/search/autoComplete?%s", c.cfg.SearchBaseURL, q.Encode())

	var body searchResponse
	if err := c.getJSON(ctx, u, "https://finance.naver.com/", &body); err != nil {
		return nil, fmt.Errorf("stock search %q: %w", query, err)
	}

	items := body.Result.Items
	if len(items) > quote.SearchMaxResults {
		items = items[:quote.SearchMaxResults]
	}

	out := make([]quote.SearchCandidate, 0, len(items))
	for _, it := range items {
		category := it.TypeName
		if category == "" {
			category = "stock"
		}
		out = append(out, quote.SearchCandidate{
			ID:          it.Code,
			DisplayName: it.Name,
			Category:    category,
		})
	}
	return out, nil
}
