package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"regexp"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/harvestfolio/src/logger"
	"golang.org/x/net/publicsuffix"
)

const yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol             string  `json:"symbol"`
			RegularMarketPrice float64 `json:"regularMarketPrice"`
			Currency           string  `json:"currency"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteResponse"`
}

// yahooPriceService implements PriceService against the Yahoo Finance quote
// API. It holds a cookie jar and a crumb for authenticated Yahoo requests,
// and a short-lived cache so repeated reports don't hammer the quote API.
type yahooPriceService struct {
	httpClient http.Client
	crumb      string // Yahoo's crumb for authentication
	priceCache *cache.Cache
}

// NewPriceService creates the Yahoo-backed price service. It initializes the
// HTTP client with a cookie jar and fetches the Yahoo crumb up front; a
// failed bootstrap is logged, not fatal, and retried on first lookup.
func NewPriceService(timeout, cacheTTL time.Duration) PriceService {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	client := http.Client{
		Jar:     jar,
		Timeout: timeout,
	}

	s := &yahooPriceService{
		httpClient: client,
		priceCache: cache.New(cacheTTL, 2*cacheTTL),
	}

	if err := s.initializeYahooSession(); err != nil {
		logger.L.Error("Failed to initialize Yahoo Finance session. Price fetching may fail.", "error", err)
	}

	return s
}

// initializeYahooSession visits a Yahoo Finance page to get necessary cookies and the crumb.
func (s *yahooPriceService) initializeYahooSession() error {
	logger.L.Info("Initializing Yahoo Finance session to get crumb and cookies...")
	// We use a less common ticker to avoid heavily cached pages.
	initURL := "https://finance.yahoo.com/quote/VHYL.L"
	req, err := http.NewRequest("GET", initURL, nil)
	if err != nil {
		return err
	}
	// A valid User-Agent is crucial.
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make initial request to Yahoo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Yahoo response body: %w", err)
	}

	re := regexp.MustCompile(`"CrumbStore":{"crumb":"(.*?)"}`)
	matches := re.FindStringSubmatch(string(body))
	if len(matches) < 2 {
		return fmt.Errorf("could not find crumb in Yahoo Finance response. The page structure may have changed")
	}

	s.crumb = matches[1]
	logger.L.Info("Successfully obtained Yahoo Finance crumb.")
	return nil
}

// GetCurrentPrice returns the current market price for a ticker, consulting
// the TTL cache first. Any failure is wrapped in ErrPriceLookup; callers
// treat that as fatal for the account being processed.
func (s *yahooPriceService) GetCurrentPrice(ticker string) (float64, error) {
	if cached, found := s.priceCache.Get(ticker); found {
		logger.L.Debug("Price cache hit", "ticker", ticker)
		return cached.(float64), nil
	}

	// If the crumb is missing, try to re-initialize the session.
	if s.crumb == "" {
		logger.L.Warn("Yahoo crumb is missing, attempting to re-initialize session.")
		if err := s.initializeYahooSession(); err != nil {
			return 0, fmt.Errorf("%w: ticker %s: %v", ErrPriceLookup, ticker, err)
		}
	}

	price, err := s.fetchPriceForTicker(ticker)
	if err != nil {
		return 0, fmt.Errorf("%w: ticker %s: %v", ErrPriceLookup, ticker, err)
	}

	s.priceCache.Set(ticker, price, cache.DefaultExpiration)
	logger.L.Info("Fetched current price", "ticker", ticker, "price", price)
	return price, nil
}

// fetchPriceForTicker calls Yahoo's quote endpoint; the v7 endpoint requires the crumb.
func (s *yahooPriceService) fetchPriceForTicker(ticker string) (float64, error) {
	quoteURL := fmt.Sprintf("https://query2.finance.yahoo.com/v7/finance/quote?symbols=%s&crumb=%s", ticker, s.crumb)
	req, err := http.NewRequest("GET", quoteURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call Yahoo quote API for ticker %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("yahoo quote API returned non-OK status %d for ticker %s. Body: %s", resp.StatusCode, ticker, string(bodyBytes))
	}

	var quoteData yahooQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteData); err != nil {
		return 0, fmt.Errorf("failed to decode Yahoo quote response for ticker %s: %w", ticker, err)
	}

	if quoteData.QuoteResponse.Error != nil || len(quoteData.QuoteResponse.Result) == 0 {
		return 0, fmt.Errorf("yahoo quote API returned an error or no result for ticker %s", ticker)
	}

	return quoteData.QuoteResponse.Result[0].RegularMarketPrice, nil
}
