package services

import (
	"StockDash/models"
	"StockDash/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"syscall"
	"time"
)

const healthProbeTimeout = 5 * time.Second

// upstreamError is the error envelope the prediction service returns on
// non-2xx responses.
type upstreamError struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

// StockService proxies market-data requests to the prediction service.
// Single-ticker calls go through the response cache; batch requests fan
// out concurrently with per-ticker failure isolation.
type StockService struct {
	BaseURL       string
	Client        *http.Client
	Cache         *CacheService
	Timeout       time.Duration
	TTLHistory    time.Duration
	TTLPrediction time.Duration
}

// NewStockService initializes a StockService against baseURL.
func NewStockService(baseURL string, cache *CacheService, timeout, ttlHistory, ttlPrediction time.Duration) *StockService {
	return &StockService{
		BaseURL:       baseURL,
		Client:        &http.Client{},
		Cache:         cache,
		Timeout:       timeout,
		TTLHistory:    ttlHistory,
		TTLPrediction: ttlPrediction,
	}
}

// FetchHistory returns historical data for ticker, read through the
// cache. from and to are optional YYYY-MM-DD bounds.
func (s *StockService) FetchHistory(ctx context.Context, ticker, from, to string) (json.RawMessage, error) {
	params := map[string]string{"ticker": ticker, "from": from, "to": to}
	key := Fingerprint("history", params)

	if payload, ok := s.Cache.Get(key); ok {
		return payload, nil
	}

	payload, err := s.doRequest(ctx, "/history", params)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(key, payload, s.TTLHistory)
	return payload, nil
}

// FetchPrediction returns a price prediction for ticker over the given
// horizon in days, read through the cache.
func (s *StockService) FetchPrediction(ctx context.Context, ticker string, days int) (json.RawMessage, error) {
	params := map[string]string{"ticker": ticker, "days": strconv.Itoa(days)}
	key := Fingerprint("predict", params)

	if payload, ok := s.Cache.Get(key); ok {
		return payload, nil
	}

	payload, err := s.doRequest(ctx, "/predict", params)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(key, payload, s.TTLPrediction)
	return payload, nil
}

// FetchHistoryBatch validates the ticker set, then fans one history
// fetch per unique ticker out concurrently. Each ticker succeeds or
// fails on its own; the aggregate always comes back with whichever
// tickers worked plus an error message for the rest.
func (s *StockService) FetchHistoryBatch(ctx context.Context, tickers []string, from, to string) (*models.BatchHistoryResult, error) {
	if len(tickers) == 0 {
		return nil, utils.NewValidationError("tickers must not be empty")
	}
	if len(tickers) > 10 {
		return nil, utils.NewValidationError("at most 10 tickers per batch")
	}
	for _, t := range tickers {
		if !utils.IsValidTicker(t) {
			return nil, utils.NewValidationError(fmt.Sprintf("invalid ticker symbol: %s", t))
		}
	}

	// Collapse duplicates so one symbol never costs two upstream calls.
	seen := make(map[string]bool, len(tickers))
	unique := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}

	result := &models.BatchHistoryResult{
		Results: make(map[string]json.RawMessage, len(unique)),
		Errors:  make(map[string]string),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, ticker := range unique {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()

			payload, err := s.FetchHistory(ctx, ticker, from, to)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors[ticker] = err.Error()
				return
			}
			result.Results[ticker] = payload
		}(ticker)
	}
	wg.Wait()

	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result, nil
}

// Health probes the upstream /health endpoint with a short timeout.
// When the upstream is reachable its status payload is returned even on
// a non-200 answer, so a degraded upstream still reports its components;
// the error then marks the degradation. The generic unavailable error
// is reserved for transport failure.
func (s *StockService) Health(ctx context.Context) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/health", nil)
	if err != nil {
		return nil, utils.NewTypedError(http.StatusServiceUnavailable, utils.CodeUpstreamFailure, "Prediction service health check failed")
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, utils.NewTypedError(http.StatusServiceUnavailable, utils.CodeUpstreamUnavailable, "Prediction service is unavailable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewTypedError(http.StatusServiceUnavailable, utils.CodeUpstreamUnavailable, "Prediction service is unavailable")
	}
	if resp.StatusCode != http.StatusOK {
		return body, utils.NewTypedError(http.StatusServiceUnavailable, utils.CodeUpstreamRejected, "Prediction service is unhealthy")
	}
	return body, nil
}

// doRequest performs one bounded GET against the upstream, mapping
// transport failures into the typed upstream error taxonomy. Empty
// parameter values are omitted from the query.
func (s *StockService) doRequest(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path+"?"+values.Encode(), nil)
	if err != nil {
		return nil, utils.NewTypedError(http.StatusInternalServerError, utils.CodeUpstreamFailure, "Failed to reach prediction service")
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, s.mapTransportError(path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewTypedError(http.StatusInternalServerError, utils.CodeUpstreamFailure, "Failed to read prediction service response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := "Prediction service rejected the request"
		var ue upstreamError
		if jsonErr := json.Unmarshal(body, &ue); jsonErr == nil && ue.Error != "" {
			message = ue.Error
		}
		log.Printf("Upstream rejected %s: %d %s", path, resp.StatusCode, message)
		return nil, utils.NewTypedError(http.StatusInternalServerError, utils.CodeUpstreamRejected, message)
	}

	return body, nil
}

func (s *StockService) mapTransportError(path string, err error) *utils.CustomError {
	log.Printf("Upstream call %s failed: %v", path, err)

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return utils.NewTypedError(http.StatusInternalServerError, utils.CodeUpstreamTimeout, "Prediction service timed out")
	case errors.Is(err, syscall.ECONNREFUSED):
		return utils.NewTypedError(http.StatusInternalServerError, utils.CodeUpstreamUnavailable, "Prediction service is unavailable")
	default:
		return utils.NewTypedError(http.StatusInternalServerError, utils.CodeUpstreamFailure, "Failed to reach prediction service")
	}
}
