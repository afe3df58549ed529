// Package oer is a minimal client for the openexchangerates.org API.
package oer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://openexchangerates.org/api"

// Rates is the latest.json payload.
type Rates struct {
	Timestamp int64              `json:"timestamp"`
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
}

// Client talks to the openexchangerates API.
type Client struct {
	appID   string
	baseURL string
	http    *http.Client
}

// New creates a client ready to interact with the API.
func New(appID string) *Client {
	return &Client{
		appID:   appID,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithBaseURL is like New with a custom endpoint. Intended for tests.
func NewWithBaseURL(appID, baseURL string) *Client {
	c := New(appID)
	c.baseURL = baseURL
	return c
}

// Latest fetches the latest exchange rates.
//
// See https://docs.openexchangerates.org/docs/latest-json.
func (c *Client) Latest() (*Rates, error) {
	addr := fmt.Sprintf("%s/latest.json?app_id=%s", c.baseURL, c.appID)
	resp, err := c.http.Get(addr)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot fetch exchange rates: %s", resp.Status)
	}
	var rates Rates
	if err := json.NewDecoder(resp.Body).Decode(&rates); err != nil {
		return nil, fmt.Errorf("decoding exchange rates: %w", err)
	}
	return &rates, nil
}
