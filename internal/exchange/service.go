package exchange

import (
	"context"
	"sync"

	"github.com/r-ledesma/cambio/internal/logger"
	"github.com/r-ledesma/cambio/internal/models"
)

// Service wraps the client and memoizes the symbols list for the life of the
// process. Rates are deliberately never cached: every conversion fetches a
// fresh table and discards it afterwards.
type Service struct {
	client  *Client
	mu      sync.RWMutex
	symbols []models.Symbol
}

// NewService creates an exchange service on top of a client.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// Rates fetches a fresh rate table for the base currency.
func (s *Service) Rates(ctx context.Context, base string) (*models.RateTable, error) {
	return s.client.FetchRates(ctx, base)
}

// Symbols returns the supported currencies, fetching them on first use.
func (s *Service) Symbols(ctx context.Context) ([]models.Symbol, error) {
	s.mu.RLock()
	cached := s.symbols
	s.mu.RUnlock()

	if len(cached) > 0 {
		out := make([]models.Symbol, len(cached))
		copy(out, cached)
		return out, nil
	}

	symbols, err := s.client.FetchSymbols(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.symbols = symbols
	s.mu.Unlock()

	logger.Debug("loaded currency symbols", "count", len(symbols))

	out := make([]models.Symbol, len(symbols))
	copy(out, symbols)
	return out, nil
}

// InvalidateSymbols drops the memoized symbols so the next call refetches.
func (s *Service) InvalidateSymbols() {
	s.mu.Lock()
	s.symbols = nil
	s.mu.Unlock()
}
