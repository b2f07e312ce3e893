package models

import "encoding/json"

// BatchHistoryRequest is the body of POST /api/stocks/batch-history.
type BatchHistoryRequest struct {
	Tickers []string `json:"tickers" binding:"required"`
	From    string   `json:"from"`
	To      string   `json:"to"`
}

// BatchHistoryResult aggregates per-ticker outcomes of a batch fetch.
// A ticker appears in exactly one of the two maps.
type BatchHistoryResult struct {
	Results map[string]json.RawMessage `json:"results"`
	Errors  map[string]string          `json:"errors,omitempty"`
}
