package services

import (
	"StockDash/utils"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockTestServer(t *testing.T, hits *atomic.Int64, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func historyHandler(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "ZZZZZ" {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"error":"No data found for ticker ZZZZZ","status_code":404}`)
		return
	}
	fmt.Fprintf(w, `{"ticker":%q,"history":[{"date":"2024-01-02","close":100.5}]}`, ticker)
}

func TestFetchHistoryReadsThroughCache(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, historyHandler)

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)
	ctx := context.Background()

	first, err := svc.FetchHistory(ctx, "AAPL", "2024-01-01", "2024-02-01")
	require.NoError(t, err)

	second, err := svc.FetchHistory(ctx, "AAPL", "2024-01-01", "2024-02-01")
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.EqualValues(t, 1, hits.Load(), "second identical request must be served from cache")
}

func TestFetchHistoryCacheExpiry(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, historyHandler)

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, 20*time.Millisecond, time.Minute)
	ctx := context.Background()

	_, err := svc.FetchHistory(ctx, "AAPL", "", "")
	require.NoError(t, err)
	_, err = svc.FetchHistory(ctx, "AAPL", "", "")
	require.NoError(t, err)
	require.EqualValues(t, 1, hits.Load())

	time.Sleep(35 * time.Millisecond)

	_, err = svc.FetchHistory(ctx, "AAPL", "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load(), "expired entry must fall through to the upstream")
}

func TestFetchHistoryUpstreamRejected(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, historyHandler)

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)

	_, err := svc.FetchHistory(context.Background(), "ZZZZZ", "", "")
	var customErr *utils.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, utils.CodeUpstreamRejected, customErr.Code)
	assert.Equal(t, "No data found for ticker ZZZZZ", customErr.Message)
}

func TestFetchHistoryUpstreamTimeout(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})

	svc := NewStockService(srv.URL, NewCacheService(), 30*time.Millisecond, time.Minute, time.Minute)

	_, err := svc.FetchHistory(context.Background(), "AAPL", "", "")
	var customErr *utils.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, utils.CodeUpstreamTimeout, customErr.Code)
}

func TestFetchHistoryUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)

	_, err := svc.FetchHistory(context.Background(), "AAPL", "", "")
	var customErr *utils.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, utils.CodeUpstreamUnavailable, customErr.Code)
}

func TestFetchPredictionCachedSeparatelyPerHorizon(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"ticker":%q,"predictions":[],"confidence_score":0.9}`, r.URL.Query().Get("ticker"))
	})

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)
	ctx := context.Background()

	_, err := svc.FetchPrediction(ctx, "AAPL", 30)
	require.NoError(t, err)
	_, err = svc.FetchPrediction(ctx, "AAPL", 30)
	require.NoError(t, err)
	_, err = svc.FetchPrediction(ctx, "AAPL", 60)
	require.NoError(t, err)

	assert.EqualValues(t, 2, hits.Load())
}

func TestBatchPartialFailure(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, historyHandler)

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)

	result, err := svc.FetchHistoryBatch(context.Background(), []string{"AAPL", "ZZZZZ"}, "", "")
	require.NoError(t, err, "one ticker failing must not fail the batch")

	require.Contains(t, result.Results, "AAPL")
	var payload struct {
		Ticker string `json:"ticker"`
	}
	require.NoError(t, json.Unmarshal(result.Results["AAPL"], &payload))
	assert.Equal(t, "AAPL", payload.Ticker)

	require.Contains(t, result.Errors, "ZZZZZ")
	assert.Equal(t, "No data found for ticker ZZZZZ", result.Errors["ZZZZZ"])
}

func TestBatchFailsFastOnShape(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, historyHandler)

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)
	ctx := context.Background()

	cases := [][]string{
		{},
		{"AAPL", "aapl"},
		{"A1"},
		{"T0", "T1", "T2", "T3", "T4", "T5", "T6", "T7", "T8", "T9", "TA"},
	}
	for _, tickers := range cases {
		_, err := svc.FetchHistoryBatch(ctx, tickers, "", "")
		var customErr *utils.CustomError
		require.ErrorAs(t, err, &customErr, "tickers %v", tickers)
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
	}

	assert.EqualValues(t, 0, hits.Load(), "invalid batches must not reach the upstream")
}

func TestBatchCollapsesDuplicates(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, historyHandler)

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)

	result, err := svc.FetchHistoryBatch(context.Background(), []string{"AAPL", "AAPL", "AAPL"}, "", "")
	require.NoError(t, err)
	assert.Len(t, result.Results, 1)
	assert.EqualValues(t, 1, hits.Load())
}

func TestBatchFansOutConcurrently(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(60 * time.Millisecond)
		historyHandler(w, r)
	})

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)

	start := time.Now()
	result, err := svc.FetchHistoryBatch(context.Background(), []string{"AAPL", "MSFT", "GOOGL", "AMZN"}, "", "")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, result.Results, 4)
	assert.Less(t, elapsed, 4*60*time.Millisecond, "tickers must be fetched in parallel, not serialized")
}

func TestHealth(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"healthy"}`)
	})

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)

	payload, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"healthy"}`, string(payload))
}

func TestHealthDegradedRelaysPayload(t *testing.T) {
	var hits atomic.Int64
	srv := newStockTestServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"status":"unhealthy","components":{"stock_predictor":"not_initialized"}}`)
	})

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)

	payload, err := svc.Health(context.Background())
	var customErr *utils.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, http.StatusServiceUnavailable, customErr.StatusCode)
	assert.Equal(t, utils.CodeUpstreamRejected, customErr.Code)
	assert.JSONEq(t, `{"status":"unhealthy","components":{"stock_predictor":"not_initialized"}}`, string(payload),
		"a reachable upstream's status payload must come back even when degraded")
}

func TestHealthUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc := NewStockService(srv.URL, NewCacheService(), 2*time.Second, time.Minute, time.Minute)

	_, err := svc.Health(context.Background())
	var customErr *utils.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, http.StatusServiceUnavailable, customErr.StatusCode)
}
