// Package push reconciles local datasets against a Firefly III server.
//
// The engine walks a file record by record, creates the matching accounts and
// transactions remotely, and writes the returned ids back into the records.
// Remote account creation is deduplicated by (name, kind) for the lifetime of
// one run, and the first remote failure stops all further remote calls while
// the rest of the file is still flushed untouched, so a re-run never creates
// anything twice.
package push

import (
	"fmt"

	"github.com/odraude/ledger"
	"github.com/odraude/ledger/firefly"
)

// Service is the remote accounting API consumed by the engine.
// Satisfied by *firefly.Client.
type Service interface {
	CurrentUser() (string, error)
	ListAccounts() ([]firefly.Account, error)
	ListCurrencies() ([]firefly.Currency, error)
	EnableCurrency(code string) error
	DefaultCurrency(code string) error
	CreateAccount(params firefly.AccountParams) (string, error)
	CreateTransaction(params firefly.TransactionParams) (string, error)
	OpeningBalanceTransaction(accountID string) (string, error)
}

// Options carries the reconciliation markers from the configuration.
type Options struct {
	// Currency is the default currency code of the remote user.
	Currency string
	// Transfer is the category marking one leg of a transfer.
	Transfer string
	// OpeningBalance is the category marking an account's opening record.
	OpeningBalance string
}

type accountKey struct {
	name string
	kind string
}

// Pusher caches remote state for one reconciliation run: the user id, the
// enabled currencies and the accounts already known to the server.
type Pusher struct {
	service    Service
	options    Options
	filter     *ledger.Filter
	user       string
	accounts   map[accountKey]string
	currencies map[string]bool
}

// New returns a Pusher with empty caches. Call Seed before Perform.
func New(service Service, options Options, filter *ledger.Filter) *Pusher {
	return &Pusher{
		service:    service,
		options:    options,
		filter:     filter,
		accounts:   make(map[accountKey]string),
		currencies: make(map[string]bool),
	}
}

// Seed populates the caches from the server: the current user, the existing
// accounts and the enabled currencies. Seeding up front means a re-run after
// a partial failure finds the accounts it already created instead of
// recreating them.
func (p *Pusher) Seed() error {
	user, err := p.service.CurrentUser()
	if err != nil {
		return err
	}
	p.user = user

	if err := p.service.DefaultCurrency(p.options.Currency); err != nil {
		return err
	}

	accounts, err := p.service.ListAccounts()
	if err != nil {
		return err
	}
	for _, account := range accounts {
		key := accountKey{name: account.Name, kind: account.Kind}
		if _, ok := p.accounts[key]; !ok {
			p.accounts[key] = account.ID
		}
	}

	currencies, err := p.service.ListCurrencies()
	if err != nil {
		return err
	}
	for _, currency := range currencies {
		if currency.Enabled {
			p.currencies[currency.Code] = true
		}
	}
	return nil
}

// User returns the remote user id cached by Seed.
func (p *Pusher) User() string { return p.user }

// Perform runs one strategy over one resource. Remote failures are captured,
// not raised: the failing record and everything after it pass through
// unmodified so the rewrite still produces a complete file, and the captured
// error is returned once the whole pass is done.
func (p *Pusher) Perform(res *ledger.Resource, s Syncable) error {
	var captured error
	err := res.RewriteWith(func(record ledger.Line) ([]ledger.Line, error) {
		if captured != nil {
			return []ledger.Line{record}, nil
		}
		if record.Pushable() {
			if err := p.ensureCurrency(record.Currency().Code()); err != nil {
				captured = err
				return flush(s, record), nil
			}
		}
		id, lines, err := s.Process(record, p)
		if err != nil {
			captured = err
			return flush(s, record), nil
		}
		for _, line := range lines {
			line.SetID(id)
		}
		return lines, nil
	}, func() ([]ledger.Line, error) {
		// A leg still held back after the last record has no pair in
		// the file. It is preserved unmodified, and the run fails so
		// the caller can fix the file. A captured error already
		// flushed the pending leg inline.
		pending := s.Pending()
		if pending == nil || captured != nil {
			return nil, nil
		}
		captured = fmt.Errorf("transfer %q on %s has no matching leg", pending.Description(), pending.Date())
		return []ledger.Line{pending}, nil
	})
	if err != nil {
		return err
	}
	return captured
}

// flush emits the failing record, preceded by a held-back transfer leg when
// the strategy has one, so no record is lost from the rewritten file.
func flush(s Syncable, record ledger.Line) []ledger.Line {
	if pending := s.Pending(); pending != nil {
		return []ledger.Line{pending, record}
	}
	return []ledger.Line{record}
}

// ensureCurrency enables a currency remotely the first time it is seen.
func (p *Pusher) ensureCurrency(code string) error {
	if p.currencies[code] {
		return nil
	}
	if err := p.service.EnableCurrency(code); err != nil {
		return err
	}
	p.currencies[code] = true
	return nil
}

// resolve returns the remote id for an account, creating it at most once per
// run.
func (p *Pusher) resolve(params firefly.AccountParams) (string, error) {
	key := accountKey{name: params.Name, kind: params.Kind}
	if id, ok := p.accounts[key]; ok {
		return id, nil
	}
	id, err := p.service.CreateAccount(params)
	if err != nil {
		return "", err
	}
	p.accounts[key] = id
	return id, nil
}

// asset describes the asset account a record moves money through.
func (p *Pusher) asset(record ledger.Line) firefly.AccountParams {
	return firefly.AccountParams{
		Name:            record.Account(),
		Kind:            firefly.KindAsset,
		CurrencyCode:    record.Currency().Code(),
		IncludeNetWorth: p.filter.Accountable(record.Account()),
	}
}

// openingBalance resolves the record's asset account with the given amount as
// its opening balance and returns the id of the transaction the server
// auto-creates for it.
func (p *Pusher) openingBalance(record ledger.Line, balance ledger.Money) (string, error) {
	params := p.asset(record)
	params.OpeningBalance = balance.StorageString()
	params.OpeningBalanceDate = record.Date().String()

	accountID, err := p.resolve(params)
	if err != nil {
		return "", err
	}
	return p.service.OpeningBalanceTransaction(accountID)
}

// doubleEntry resolves the ordered (source, destination) pair for an ordinary
// transaction: negative amounts flow asset to expense, positive ones flow
// revenue to asset.
func (p *Pusher) doubleEntry(record ledger.Line, value ledger.Money) (source, destination string, err error) {
	asset, err := p.resolve(p.asset(record))
	if err != nil {
		return "", "", err
	}
	if value.IsNegative() {
		expense, err := p.resolve(firefly.AccountParams{Name: record.Category(), Kind: firefly.KindExpense})
		return asset, expense, err
	}
	revenue, err := p.resolve(firefly.AccountParams{Name: record.Category(), Kind: firefly.KindRevenue})
	return revenue, asset, err
}

// transferPair resolves both legs' asset accounts, ordered by the sign of the
// first leg: the negative leg is the source.
func (p *Pusher) transferPair(first, second ledger.Line) (source, destination string, err error) {
	one, err := p.resolve(p.asset(first))
	if err != nil {
		return "", "", err
	}
	other, err := p.resolve(p.asset(second))
	if err != nil {
		return "", "", err
	}
	if first.Amount().IsNegative() {
		return one, other, nil
	}
	return other, one, nil
}

// postTransaction creates an ordinary remote transaction for the record's
// value. A zero value posts nothing and yields an empty id.
func (p *Pusher) postTransaction(record ledger.Line, value ledger.Money) (string, error) {
	source, destination, err := p.doubleEntry(record, value)
	if err != nil {
		return "", err
	}
	if value.IsZero() {
		return "", nil
	}
	kind := firefly.TypeDeposit
	if value.IsNegative() {
		kind = firefly.TypeWithdrawal
	}
	return p.service.CreateTransaction(split(kind, record, value, source, destination))
}

// postTransfer creates one remote transfer covering both legs, carrying the
// second leg as the foreign amount so the legs may differ in currency.
func (p *Pusher) postTransfer(first, second ledger.Line) (string, error) {
	source, destination, err := p.transferPair(first, second)
	if err != nil {
		return "", err
	}
	value := first.Amount()
	if value.IsZero() {
		return "", nil
	}
	params := split(firefly.TypeTransfer, first, value, source, destination)
	params.ForeignCurrencyCode = second.Currency().Code()
	params.ForeignAmount = second.Amount().Abs().Number().String()
	return p.service.CreateTransaction(params)
}

func split(kind string, record ledger.Line, value ledger.Money, source, destination string) firefly.TransactionParams {
	var tags []string
	if record.Trip() != "" {
		tags = []string{record.Trip()}
	}
	return firefly.TransactionParams{
		Type:          kind,
		Date:          record.Date().String(),
		Amount:        value.Abs().Number().String(),
		Description:   record.Description(),
		SourceID:      source,
		DestinationID: destination,
		CurrencyCode:  record.Currency().Code(),
		CategoryName:  record.Venue(),
		Tags:          tags,
		Notes:         record.Quantity(),
	}
}
