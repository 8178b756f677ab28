// Package exchange fetches live exchange rates and supported currencies
// from an exchangerate.host-style HTTP API.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/r-ledesma/cambio/internal/logger"
	"github.com/r-ledesma/cambio/internal/models"
)

// DefaultBaseURL is the rate provider used when none is configured.
const DefaultBaseURL = "https://api.exchangerate.host"

var (
	// ErrNetwork indicates the provider could not be reached at all.
	ErrNetwork = errors.New("exchange: network failure")
	// ErrAPI indicates the provider answered but not with usable rates:
	// a non-success status, a success=false payload, or malformed JSON.
	ErrAPI = errors.New("exchange: api failure")
)

// Client issues requests against the exchange-rate API. One fetch is one
// blocking HTTP call; there are no retries and nothing is cached here.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for the given provider URL. A nil httpClient
// falls back to a 10 second timeout client.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// latestResponse is the provider's /latest payload. The success flag is a
// pointer because some deployments omit it entirely.
type latestResponse struct {
	Success *bool              `json:"success"`
	Base    string             `json:"base"`
	Rates   map[string]float64 `json:"rates"`
}

// symbolsResponse is the provider's /symbols payload.
type symbolsResponse struct {
	Success *bool `json:"success"`
	Symbols map[string]struct {
		Description string `json:"description"`
		Code        string `json:"code"`
	} `json:"symbols"`
}

// FetchRates retrieves the full rate table for a base currency.
func (c *Client) FetchRates(ctx context.Context, base string) (*models.RateTable, error) {
	query := url.Values{}
	query.Set("base", base)

	body, err := c.get(ctx, "/latest", query)
	if err != nil {
		return nil, err
	}

	var resp latestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse rates response: %v", ErrAPI, err)
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("%w: provider reported failure for base %s", ErrAPI, base)
	}
	if len(resp.Rates) == 0 {
		return nil, fmt.Errorf("%w: no rates in response for base %s", ErrAPI, base)
	}

	tableBase := resp.Base
	if tableBase == "" {
		tableBase = base
	}

	return &models.RateTable{
		Base:      tableBase,
		FetchedAt: time.Now(),
		Rates:     resp.Rates,
	}, nil
}

// FetchSymbols retrieves the currencies the provider supports, sorted by code.
func (c *Client) FetchSymbols(ctx context.Context) ([]models.Symbol, error) {
	body, err := c.get(ctx, "/symbols", nil)
	if err != nil {
		return nil, err
	}

	var resp symbolsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse symbols response: %v", ErrAPI, err)
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("%w: provider reported failure for symbols", ErrAPI)
	}
	if len(resp.Symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols in response", ErrAPI)
	}

	symbols := make([]models.Symbol, 0, len(resp.Symbols))
	for code, data := range resp.Symbols {
		symbols = append(symbols, models.Symbol{
			Code:        code,
			Description: data.Description,
		})
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Code < symbols[j].Code })

	return symbols, nil
}

// get performs one GET against the provider and returns the raw body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	if c.apiKey != "" {
		query.Set("access_key", c.apiKey)
	}

	reqURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d: %s", ErrAPI, resp.StatusCode, string(body))
	}

	return body, nil
}
