package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: a .cwt key file password may be prompted at runtime - use KeypairPasswordBytes()
type Config struct {
	Port                      string        `envconfig:"PORT" default:"4000"`
	RPCURL                    string        `envconfig:"RPC_URL" default:"https://api.devnet.solana.com"`
	Network                   string        `envconfig:"SOLANA_NETWORK" default:"devnet"`
	KeypairPath               string        `envconfig:"WALLET_KEYPAIR_PATH" default:"./wallet/authority.json"`
	KeypairPassword           string        `envconfig:"WALLET_KEYPAIR_PASSWORD"`
	CandyMachineID            string        `envconfig:"CANDY_MACHINE_ID" required:"true"`
	CollectionUpdateAuthority string        `envconfig:"COLLECTION_UPDATE_AUTHORITY" required:"true"`
	APISecret                 string        `envconfig:"API_SECRET"`
	MaxQuantity               int           `envconfig:"MINT_MAX_QUANTITY" default:"10"`
	RedisURL                  string        `envconfig:"REDIS_URL"`
	IdempotencyTTL            time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	RPCTimeout                time.Duration `envconfig:"RPC_TIMEOUT" default:"60s"`
	PublicURL                 string        `envconfig:"PUBLIC_URL"`
	PayLabel                  string        `envconfig:"PAY_LABEL" default:"Neon Pack Mint"`
	PayIcon                   string        `envconfig:"PAY_ICON"`
	CORSAllowedOrigins        []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	LogLevel                  string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout           time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads .env (if present) and configuration from environment variables.
func Init() error {
	// .env is optional; process env wins for anything already set
	_ = godotenv.Load()

	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads and validates configuration without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// Validate checks addresses and enumerations that envconfig cannot.
func (c *Config) Validate() error {
	if _, err := solana.PublicKeyFromBase58(c.CandyMachineID); err != nil {
		return fmt.Errorf("CANDY_MACHINE_ID is not a valid address: %w", err)
	}
	if _, err := solana.PublicKeyFromBase58(c.CollectionUpdateAuthority); err != nil {
		return fmt.Errorf("COLLECTION_UPDATE_AUTHORITY is not a valid address: %w", err)
	}
	if c.MaxQuantity < 1 {
		return errors.New("MINT_MAX_QUANTITY must be at least 1")
	}
	if strings.TrimSpace(c.KeypairPath) == "" {
		return errors.New("WALLET_KEYPAIR_PATH must be set")
	}
	return nil
}

// CandyMachine returns the parsed candy machine address.
func (c *Config) CandyMachine() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.CandyMachineID)
}

// CollectionAuthority returns the parsed collection update authority.
func (c *Config) CollectionAuthority() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.CollectionUpdateAuthority)
}

// Address returns the listen address for http.Server.
func (c *Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// KeypairEncrypted reports whether the key file is an encrypted .cwt file.
func (c *Config) KeypairEncrypted() bool {
	return strings.HasSuffix(strings.ToLower(c.KeypairPath), ".cwt")
}

var passwordBytes []byte

// PromptForPassword prompts the user for the key file password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: set WALLET_KEYPAIR_PASSWORD or run interactively")
	}
	fmt.Fprint(os.Stderr, "Enter key file password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// KeypairPasswordBytes returns the key file password from WALLET_KEYPAIR_PASSWORD
// or, failing that, from PromptForPassword.
// Caller must zero the returned slice after use.
func KeypairPasswordBytes() ([]byte, error) {
	if cfg != nil && cfg.KeypairPassword != "" {
		return []byte(cfg.KeypairPassword), nil
	}
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}

// ClearPassword wipes the prompted password once the key file has been opened.
func ClearPassword() {
	clear(passwordBytes)
	passwordBytes = nil
}
