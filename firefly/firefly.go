// Package firefly is a minimal client for the Firefly III REST API,
// covering the handful of endpoints the reconciliation engine needs.
package firefly

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ClientConfig holds the connection settings for a Firefly III server.
type ClientConfig struct {
	BasePath string
	Token    string
	Timeout  time.Duration // Default: 30 seconds
}

// Client talks to one Firefly III server.
type Client struct {
	httpClient *http.Client
	basePath   string
	token      string
}

// NewClient creates a Firefly III API client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		basePath:   config.BasePath,
		token:      config.Token,
	}
}

// CurrentUser returns the id of the authenticated user.
func (c *Client) CurrentUser() (string, error) {
	var resp userResponse
	if err := c.get("/api/v1/about/user", nil, &resp); err != nil {
		return "", err
	}
	return resp.Data.ID, nil
}

// ListAccounts returns every account on the server, walking all pages.
func (c *Client) ListAccounts() ([]Account, error) {
	var accounts []Account
	for page := 1; ; {
		var resp accountsResponse
		query := url.Values{"page": {fmt.Sprintf("%d", page)}}
		if err := c.get("/api/v1/accounts", query, &resp); err != nil {
			return nil, err
		}
		for _, read := range resp.Data {
			accounts = append(accounts, Account{
				ID:   read.ID,
				Name: read.Attributes.Name,
				Kind: read.Attributes.Type,
			})
		}
		next, ok := resp.Meta.Pagination.next()
		if !ok {
			break
		}
		page = next
	}
	return accounts, nil
}

// ListCurrencies returns every currency on the server, walking all pages.
func (c *Client) ListCurrencies() ([]Currency, error) {
	var currencies []Currency
	for page := 1; ; {
		var resp currenciesResponse
		query := url.Values{"page": {fmt.Sprintf("%d", page)}}
		if err := c.get("/api/v1/currencies", query, &resp); err != nil {
			return nil, err
		}
		for _, read := range resp.Data {
			currencies = append(currencies, Currency{
				Code:    read.Attributes.Code,
				Enabled: read.Attributes.Enabled,
			})
		}
		next, ok := resp.Meta.Pagination.next()
		if !ok {
			break
		}
		page = next
	}
	return currencies, nil
}

// EnableCurrency enables a currency account-wide. Transactions in a currency
// are rejected by the server until it has been enabled.
func (c *Client) EnableCurrency(code string) error {
	path := fmt.Sprintf("/api/v1/currencies/%s/enable", url.PathEscape(code))
	return c.post(path, nil, nil)
}

// DefaultCurrency marks a currency as the user's default.
func (c *Client) DefaultCurrency(code string) error {
	path := fmt.Sprintf("/api/v1/currencies/%s/default", url.PathEscape(code))
	return c.post(path, nil, nil)
}

// CreateAccount stores a new account and returns its id.
func (c *Client) CreateAccount(params AccountParams) (string, error) {
	body := accountStore{
		Name:               params.Name,
		Type:               params.Kind,
		CurrencyCode:       params.CurrencyCode,
		IncludeNetWorth:    params.IncludeNetWorth,
		OpeningBalance:     params.OpeningBalance,
		OpeningBalanceDate: params.OpeningBalanceDate,
	}
	if params.Kind == KindAsset {
		body.AccountRole = "defaultAsset"
	}
	var resp storeResponse
	if err := c.post("/api/v1/accounts", body, &resp); err != nil {
		return "", err
	}
	return resp.Data.ID, nil
}

// CreateTransaction stores a single-split transaction and returns its id.
func (c *Client) CreateTransaction(params TransactionParams) (string, error) {
	split := transactionSplit{
		Type:            params.Type,
		Date:            params.Date,
		Amount:          params.Amount,
		Description:     params.Description,
		SourceID:        params.SourceID,
		DestinationID:   params.DestinationID,
		CurrencyCode:    params.CurrencyCode,
		CategoryName:    params.CategoryName,
		Tags:            params.Tags,
		Notes:           params.Notes,
		ForeignCurrency: params.ForeignCurrencyCode,
		ForeignAmount:   params.ForeignAmount,
	}
	body := transactionStore{Transactions: []transactionSplit{split}}
	var resp storeResponse
	if err := c.post("/api/v1/transactions", body, &resp); err != nil {
		return "", err
	}
	return resp.Data.ID, nil
}

// OpeningBalanceTransaction returns the id of the transaction the server
// auto-creates for an account's opening balance. It is an error for the
// account not to have one.
func (c *Client) OpeningBalanceTransaction(accountID string) (string, error) {
	path := fmt.Sprintf("/api/v1/accounts/%s/transactions", url.PathEscape(accountID))
	query := url.Values{"limit": {"1"}, "type": {"opening_balance"}}
	var resp transactionsResponse
	if err := c.get(path, query, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("account %s is missing an opening balance transaction", accountID)
	}
	return resp.Data[0].ID, nil
}

func (c *Client) get(path string, query url.Values, out interface{}) error {
	endpoint := c.basePath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		content, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(content)
	}
	req, err := http.NewRequest("POST", c.basePath+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// RequestError is a non-2xx response from the server.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("firefly API error (status %d): %s", e.StatusCode, e.Message)
}

// parseError parses an error response from the Firefly III API.
func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{StatusCode: resp.StatusCode, Message: "failed to read error response"}
	}
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		return &RequestError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return &RequestError{StatusCode: resp.StatusCode, Message: errResp.Message}
}
