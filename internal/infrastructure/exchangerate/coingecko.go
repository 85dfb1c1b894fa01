package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"lastbite/internal/application/payment/chainrail"
	"lastbite/internal/application/payment/exchangerate"
	"lastbite/internal/shared/biztime"
	"lastbite/internal/shared/logger"
)

const (
	defaultAPIBaseURL = "https://api.coingecko.com/api/v3"
	requestTimeout    = 10 * time.Second
	// Maximum response body size for the rate endpoint (64KB)
	maxResponseSize = 64 << 10

	rawRoundStep = uint64(10_000) // 0.01 USDT
)

// fallbackRates are stablecoin-per-source-unit rates used when the upstream
// API is unreachable and no fresh cache exists. Conversion never hard-fails
// on upstream trouble, only on an unknown currency.
var fallbackRates = map[string]float64{
	"EUR":  1.16,
	"USD":  1.0,
	"GBP":  1.34,
	"USDT": 1.0,
}

type coingeckoResponse struct {
	Tether map[string]float64 `json:"tether"`
}

// CoinGeckoService serves cached USDT conversion rates from the CoinGecko
// simple-price endpoint.
type CoinGeckoService struct {
	httpClient *http.Client
	baseURL    string
	cacheTTL   time.Duration
	logger     logger.Interface

	mu          sync.RWMutex
	cachedRates map[string]float64
	cachedAt    time.Time
}

var _ exchangerate.Service = (*CoinGeckoService)(nil)

func NewCoinGeckoService(cacheTTL time.Duration, logger logger.Interface) *CoinGeckoService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CoinGeckoService{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultAPIBaseURL,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (s *CoinGeckoService) SetBaseURL(baseURL string) {
	s.baseURL = strings.TrimRight(baseURL, "/")
}

func (s *CoinGeckoService) GetRates(ctx context.Context) (map[string]float64, error) {
	now := biztime.NowUTC()

	s.mu.RLock()
	if s.cachedRates != nil && now.Sub(s.cachedAt) < s.cacheTTL {
		rates := s.cachedRates
		s.mu.RUnlock()
		return rates, nil
	}
	s.mu.RUnlock()

	fetched, err := s.fetchRates(ctx)
	if err != nil {
		s.mu.RLock()
		cached := s.cachedRates
		s.mu.RUnlock()
		if cached != nil {
			s.logger.Warnw("rate fetch failed, serving stale cache", "error", err)
			return cached, nil
		}
		s.logger.Warnw("rate fetch failed, serving fallback rates", "error", err)
		return fallbackRates, nil
	}

	s.mu.Lock()
	s.cachedRates = fetched
	s.cachedAt = now
	s.mu.Unlock()
	return fetched, nil
}

func (s *CoinGeckoService) ConvertToUSDTRaw(ctx context.Context, amountMinor int64, currency string) (uint64, float64, error) {
	if amountMinor <= 0 {
		return 0, 0, fmt.Errorf("amount must be positive")
	}
	code := strings.ToUpper(currency)

	// USDT to USDT is the identity; raw units carry 4 more decimals than
	// minor units, so the product is exact.
	if code == "USDT" {
		return uint64(amountMinor) * (chainrail.TokenUnit / 100), 1.0, nil
	}

	rates, err := s.GetRates(ctx)
	if err != nil {
		return 0, 0, err
	}
	rate, ok := rates[code]
	if !ok || rate <= 0 {
		return 0, 0, fmt.Errorf("%w: %s", exchangerate.ErrUnsupportedCurrency, currency)
	}

	// Round up to 0.01 USDT: rounding in the amount dimension always favors
	// the receiving side.
	exact := float64(amountMinor) / 100.0 * rate * chainrail.TokenUnit
	steps := math.Ceil(exact / float64(rawRoundStep))
	return uint64(steps) * rawRoundStep, rate, nil
}

func (s *CoinGeckoService) fetchRates(ctx context.Context) (map[string]float64, error) {
	url := s.baseURL + "/simple/price?ids=tether&vs_currencies=eur,usd,gbp"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	var parsed coingeckoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse rate response: %w", err)
	}

	// The endpoint quotes source-per-USDT; invert so conversion is a plain
	// multiply.
	rates := map[string]float64{"USDT": 1.0}
	for code, price := range parsed.Tether {
		if price > 0 {
			rates[strings.ToUpper(code)] = 1.0 / price
		}
	}
	if len(rates) == 1 {
		return nil, fmt.Errorf("rate response contained no usable rates")
	}
	return rates, nil
}
