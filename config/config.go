// Package config loads and creates the YAML configuration file kept in the
// XDG config directory.
package config

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/odraude/ledger"
)

// name of the file under the XDG config dir.
const configFile = "ledger/config"

// askEncryption prompts for the passphrase instead of storing it on disk.
const askEncryption = "ask"

const passLength = 32

// Config is the on-disk configuration.
type Config struct {
	// Encryption is the passphrase for the dataset files. Empty disables
	// encryption; the value "ask" prompts on every run.
	Encryption      string   `yaml:"encryption"`
	Files           Files    `yaml:"files"`
	ExchangeKey     string   `yaml:"exchange_key"`
	Transfer        string   `yaml:"transfer"`
	IgnoredAccounts []string `yaml:"ignored_accounts"`
	Investments     string   `yaml:"investments"`
	Currency        string   `yaml:"currency"`
	Firefly         *Firefly `yaml:"firefly,omitempty"`
}

// Files holds the dataset file locations. Paths may start with "~/".
type Files struct {
	Ledger   string `yaml:"ledger"`
	Networth string `yaml:"networth"`
}

// Firefly holds the connection settings of the remote accounting service.
type Firefly struct {
	BasePath       string `yaml:"base_path"`
	Token          string `yaml:"token"`
	OpeningBalance string `yaml:"opening_balance"`
}

// Path returns the configuration file location, creating parent directories
// as needed.
func Path() (string, error) {
	return xdg.ConfigFile(configFile)
}

// Load reads the configuration, creating a default one when none exists yet.
// A FIREFLY_TOKEN environment variable overrides the stored token.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return load(path)
}

func load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		c, err := Default()
		if err != nil {
			return nil, err
		}
		if err := c.Write(path); err != nil {
			return nil, err
		}
		return c, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(content, &c); err != nil {
		return nil, fmt.Errorf("invalid configuration %q: %w", path, err)
	}
	if token := os.Getenv("FIREFLY_TOKEN"); token != "" && c.Firefly != nil {
		c.Firefly.Token = token
	}
	return &c, nil
}

// Default returns a fresh configuration: dataset files next to the config
// file, a random passphrase and placeholder keys.
func Default() (*Config, error) {
	pass, err := randomPass()
	if err != nil {
		return nil, err
	}
	ledgerPath, err := xdg.ConfigFile("ledger/ledger.csv")
	if err != nil {
		return nil, err
	}
	networthPath, err := xdg.ConfigFile("ledger/networth.csv")
	if err != nil {
		return nil, err
	}
	return &Config{
		Encryption:      pass,
		Files:           Files{Ledger: ledgerPath, Networth: networthPath},
		ExchangeKey:     "your app id from https://openexchangerates.org/signup",
		Currency:        "EUR",
		Transfer:        "Transfer",
		IgnoredAccounts: []string{"Personal"},
		Investments:     "Investment",
	}, nil
}

// Write stores the configuration at path.
func (c *Config) Write(path string) error {
	content, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o600)
}

// Filepath returns the dataset file of the mode, with "~/" expanded.
func (c *Config) Filepath(mode ledger.Mode) string {
	path := c.Files.Ledger
	if mode == ledger.ModeNetworth {
		path = c.Files.Networth
	}
	return expand(path)
}

// Pass returns the encryption passphrase, prompting on the terminal when the
// configuration says "ask".
func (c *Config) Pass() (string, error) {
	if c.Encryption != askEncryption {
		return c.Encryption, nil
	}
	fmt.Fprint(os.Stderr, "Passphrase: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pass), nil
}

// Open prepares the dataset resource of the mode.
func (c *Config) Open(mode ledger.Mode) (*ledger.Resource, error) {
	pass, err := c.Pass()
	if err != nil {
		return nil, err
	}
	return ledger.Open(c.Filepath(mode), mode, pass)
}

// Filter returns the account filter derived from the configuration.
func (c *Config) Filter() *ledger.Filter {
	return &ledger.Filter{IgnoredAccounts: c.IgnoredAccounts}
}

func expand(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

const passAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomPass() (string, error) {
	var b strings.Builder
	for i := 0; i < passLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(passAlphabet[n.Int64()])
	}
	return b.String(), nil
}
