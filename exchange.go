package ledger

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/odraude/ledger/oer"
)

const exchangeCacheFile = "ledger/exchange.yml"
const exchangeCacheTTL = 12 * time.Hour

// Exchange holds a table of currency rates against a common base.
type Exchange struct {
	Timestamp int64              `yaml:"timestamp"`
	Base      string             `yaml:"base"`
	Rates     map[string]float64 `yaml:"rates"`
}

// rater is the source of fresh rate tables. Satisfied by *oer.Client.
type rater interface {
	Latest() (*oer.Rates, error)
}

// OpenExchange returns the current rate table: the cached one while it is
// fresh, otherwise a newly downloaded table. When the download fails a stale
// cache is still used, so reports keep working offline.
func OpenExchange(appID string) (*Exchange, error) {
	return openExchange(oer.New(appID), cachePath())
}

func openExchange(client rater, cache string) (*Exchange, error) {
	if cacheValid(cache) {
		return loadExchange(cache)
	}
	latest, err := client.Latest()
	if err != nil {
		log.Printf("warning, could not refresh exchange rates (%v), using cached table", err)
		return loadExchange(cache)
	}
	ex := &Exchange{Timestamp: latest.Timestamp, Base: latest.Base, Rates: latest.Rates}
	if err := storeExchange(ex, cache); err != nil {
		return nil, err
	}
	return ex, nil
}

// Rate returns the multiplier converting from one currency into another.
func (e *Exchange) Rate(from, to Currency) (float64, error) {
	dividend, ok := e.Rates[to.Code()]
	if !ok {
		return 0, fmt.Errorf("there is no exchange rate for %q", to.Code())
	}
	divisor, ok := e.Rates[from.Code()]
	if !ok {
		return 0, fmt.Errorf("there is no exchange rate for %q", from.Code())
	}
	return dividend / divisor, nil
}

func cachePath() string {
	path, err := xdg.CacheFile(exchangeCacheFile)
	if err != nil {
		// Degrade to a throwaway cache rather than failing the command.
		return os.TempDir() + "/" + "ledger-exchange.yml"
	}
	return path
}

func cacheValid(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < exchangeCacheTTL
}

func loadExchange(path string) (*Exchange, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no exchange rates available: %w", err)
	}
	var ex Exchange
	if err := yaml.Unmarshal(content, &ex); err != nil {
		return nil, err
	}
	return &ex, nil
}

func storeExchange(ex *Exchange, path string) error {
	content, err := yaml.Marshal(ex)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o600)
}
