package exchange

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

// MockRoundTripper lets tests script HTTP responses without a server.
type MockRoundTripper struct {
	Response *http.Response
	Err      error
	// LastRequest captures the request for assertions.
	LastRequest *http.Request
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.LastRequest = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func mockClient(status int, body string) (*Client, *MockRoundTripper) {
	rt := &MockRoundTripper{
		Response: &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		},
	}
	client := NewClient("https://rates.test", "", &http.Client{Transport: rt})
	return client, rt
}

func TestFetchRatesSuccess(t *testing.T) {
	body := `{"success":true,"base":"USD","rates":{"EUR":0.9,"GBP":0.8}}`
	client, rt := mockClient(http.StatusOK, body)

	table, err := client.FetchRates(context.Background(), "USD")
	if err != nil {
		t.Fatalf("FetchRates returned error: %v", err)
	}
	if table.Base != "USD" {
		t.Errorf("Base = %q, want USD", table.Base)
	}
	if len(table.Rates) != 2 {
		t.Errorf("got %d rates, want 2", len(table.Rates))
	}
	if rate, ok := table.Rate("EUR"); !ok || rate != 0.9 {
		t.Errorf("EUR rate = %v (ok=%v), want 0.9", rate, ok)
	}
	if table.FetchedAt.IsZero() {
		t.Error("FetchedAt was not set")
	}

	if got := rt.LastRequest.URL.Query().Get("base"); got != "USD" {
		t.Errorf("base query param = %q, want USD", got)
	}
}

func TestFetchRatesOmittedSuccessFlag(t *testing.T) {
	// Some provider deployments leave out the success flag entirely.
	body := `{"base":"EUR","rates":{"USD":1.1}}`
	client, _ := mockClient(http.StatusOK, body)

	table, err := client.FetchRates(context.Background(), "EUR")
	if err != nil {
		t.Fatalf("FetchRates returned error: %v", err)
	}
	if table.Base != "EUR" {
		t.Errorf("Base = %q, want EUR", table.Base)
	}
}

func TestFetchRatesTransportError(t *testing.T) {
	rt := &MockRoundTripper{Err: errors.New("connection refused")}
	client := NewClient("https://rates.test", "", &http.Client{Transport: rt})

	_, err := client.FetchRates(context.Background(), "USD")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("transport failure error = %v, want ErrNetwork", err)
	}
}

func TestFetchRatesAPIFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "success false", status: http.StatusOK, body: `{"success":false}`},
		{name: "garbage json", status: http.StatusOK, body: `{nope`},
		{name: "empty rates", status: http.StatusOK, body: `{"success":true,"base":"USD","rates":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := mockClient(tt.status, tt.body)
			_, err := client.FetchRates(context.Background(), "USD")
			if !errors.Is(err, ErrAPI) {
				t.Errorf("error = %v, want ErrAPI", err)
			}
		})
	}
}

func TestFetchSymbols(t *testing.T) {
	body := `{"success":true,"symbols":{
		"USD":{"description":"United States Dollar","code":"USD"},
		"EUR":{"description":"Euro","code":"EUR"},
		"GBP":{"description":"British Pound Sterling","code":"GBP"}}}`
	client, _ := mockClient(http.StatusOK, body)

	symbols, err := client.FetchSymbols(context.Background())
	if err != nil {
		t.Fatalf("FetchSymbols returned error: %v", err)
	}
	if len(symbols) != 3 {
		t.Fatalf("got %d symbols, want 3", len(symbols))
	}

	// Sorted by code.
	wantOrder := []string{"EUR", "GBP", "USD"}
	for i, want := range wantOrder {
		if symbols[i].Code != want {
			t.Errorf("symbols[%d].Code = %q, want %q", i, symbols[i].Code, want)
		}
	}
	if symbols[0].Description != "Euro" {
		t.Errorf("EUR description = %q, want Euro", symbols[0].Description)
	}
}

func TestFetchSymbolsEmpty(t *testing.T) {
	client, _ := mockClient(http.StatusOK, `{"success":true,"symbols":{}}`)
	_, err := client.FetchSymbols(context.Background())
	if !errors.Is(err, ErrAPI) {
		t.Errorf("error = %v, want ErrAPI", err)
	}
}

func TestAPIKeyIsSent(t *testing.T) {
	rt := &MockRoundTripper{
		Response: &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"base":"USD","rates":{"EUR":0.9}}`)),
			Header:     make(http.Header),
		},
	}
	client := NewClient("https://rates.test", "secret-key", &http.Client{Transport: rt})

	if _, err := client.FetchRates(context.Background(), "USD"); err != nil {
		t.Fatalf("FetchRates returned error: %v", err)
	}
	if got := rt.LastRequest.URL.Query().Get("access_key"); got != "secret-key" {
		t.Errorf("access_key query param = %q, want secret-key", got)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", "", nil)
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}
	if client.http == nil {
		t.Error("http client was not defaulted")
	}
}
