package firefly

// Account kinds, matching the server's short account type names.
const (
	KindAsset   = "asset"
	KindExpense = "expense"
	KindRevenue = "revenue"
)

// Transaction types accepted by the server.
const (
	TypeWithdrawal = "withdrawal"
	TypeDeposit    = "deposit"
	TypeTransfer   = "transfer"
)

// Account is an existing account on the server.
type Account struct {
	ID   string
	Name string
	Kind string
}

// Currency is a currency known to the server.
type Currency struct {
	Code    string
	Enabled bool
}

// AccountParams describes an account to create.
type AccountParams struct {
	Name               string
	Kind               string
	CurrencyCode       string
	IncludeNetWorth    bool
	OpeningBalance     string
	OpeningBalanceDate string
}

// TransactionParams describes a single-split transaction to create.
type TransactionParams struct {
	Type                string
	Date                string
	Amount              string
	Description         string
	SourceID            string
	DestinationID       string
	CurrencyCode        string
	CategoryName        string
	Tags                []string
	Notes               string
	ForeignCurrencyCode string
	ForeignAmount       string
}

type pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// next returns the following page number while there is one.
func (p pagination) next() (int, bool) {
	current := p.CurrentPage
	if current == 0 {
		current = 1
	}
	if p.TotalPages > current {
		return current + 1, true
	}
	return 0, false
}

type meta struct {
	Pagination pagination `json:"pagination"`
}

type userResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type accountsResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"attributes"`
	} `json:"data"`
	Meta meta `json:"meta"`
}

type currenciesResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Code    string `json:"code"`
			Enabled bool   `json:"enabled"`
		} `json:"attributes"`
	} `json:"data"`
	Meta meta `json:"meta"`
}

type transactionsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type storeResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type errorResponse struct {
	Message string `json:"message"`
}

type accountStore struct {
	Name               string `json:"name"`
	Type               string `json:"type"`
	AccountRole        string `json:"account_role,omitempty"`
	CurrencyCode       string `json:"currency_code,omitempty"`
	IncludeNetWorth    bool   `json:"include_net_worth"`
	OpeningBalance     string `json:"opening_balance,omitempty"`
	OpeningBalanceDate string `json:"opening_balance_date,omitempty"`
}

type transactionSplit struct {
	Type            string   `json:"type"`
	Date            string   `json:"date"`
	Amount          string   `json:"amount"`
	Description     string   `json:"description"`
	SourceID        string   `json:"source_id,omitempty"`
	DestinationID   string   `json:"destination_id,omitempty"`
	CurrencyCode    string   `json:"currency_code,omitempty"`
	CategoryName    string   `json:"category_name,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	ForeignCurrency string   `json:"foreign_currency_code,omitempty"`
	ForeignAmount   string   `json:"foreign_amount,omitempty"`
}

type transactionStore struct {
	Transactions []transactionSplit `json:"transactions"`
}
