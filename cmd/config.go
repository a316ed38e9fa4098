package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/pnl"
	"github.com/joho/godotenv"
)

// Config holds the inputs and settings shared by every command.
type Config struct {
	LedgerFile   string
	HoldingsFile string
	RatesFile    string
	Currency     string
	RSUAssets    []string
	LogLevel     string
	LogJSON      bool
	// EstimateZeroQuantity books sells without share count as an estimated
	// disposal instead of income.
	EstimateZeroQuantity bool
}

// LoadConfig reads the configuration from the environment, after loading a
// .env file from the working directory when there is one.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		LedgerFile:           getEnv("PNL_LEDGER_FILE", "ledger.jsonl"),
		HoldingsFile:         getEnv("PNL_HOLDINGS_FILE", "holdings.jsonl"),
		RatesFile:            getEnv("PNL_RATES_FILE", "rates.jsonl"),
		Currency:             getEnv("PNL_CURRENCY", "EUR"),
		RSUAssets:            splitList(getEnv("PNL_RSU_ASSETS", "")),
		LogLevel:             getEnv("PNL_LOG_LEVEL", "warn"),
		LogJSON:              getEnvAsBool("PNL_LOG_JSON", false),
		EstimateZeroQuantity: getEnvAsBool("PNL_ESTIMATE_ZERO_QUANTITY", false),
	}
}

// RegisterFlags binds the global flags to cfg; the current values are the
// defaults.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&cfg.LedgerFile, "ledger", cfg.LedgerFile, "Path to the ledger file (JSONL). Env: PNL_LEDGER_FILE.")
	f.StringVar(&cfg.HoldingsFile, "holdings", cfg.HoldingsFile, "Path to the holdings snapshot file (JSONL), optional. Env: PNL_HOLDINGS_FILE.")
	f.StringVar(&cfg.RatesFile, "rates", cfg.RatesFile, "Path to the exchange rates file (JSONL), optional. Env: PNL_RATES_FILE.")
	f.StringVar(&cfg.Currency, "c", cfg.Currency, "Reporting currency. Env: PNL_CURRENCY.")
	f.Func("rsu", "Comma separated list of employer stock assets. Env: PNL_RSU_ASSETS.", func(s string) error {
		cfg.RSUAssets = splitList(s)
		return nil
	})
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error. Env: PNL_LOG_LEVEL.")
	f.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Log as JSON lines instead of console text. Env: PNL_LOG_JSON.")
	f.BoolVar(&cfg.EstimateZeroQuantity, "estimate-zero-quantity", cfg.EstimateZeroQuantity, "Book sells without quantity as disposals estimated from the average cost.")
}

// Validate checks the configuration before any file is read.
func (cfg *Config) Validate() error {
	var errs error
	if cfg.LedgerFile == "" {
		errs = errors.Join(errs, errors.New("ledger file is required"))
	}
	if err := pnl.ValidateCurrency(cfg.Currency); err != nil {
		errs = errors.Join(errs, fmt.Errorf("reporting currency: %w", err))
	}
	return errs
}

// ZeroQuantitySells returns the policy selected by the configuration.
func (cfg *Config) ZeroQuantitySells() pnl.ZeroQuantitySellPolicy {
	if cfg.EstimateZeroQuantity {
		return pnl.ZeroQuantityEstimate
	}
	return pnl.ZeroQuantityAsIncome
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return defaultValue
	}
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
