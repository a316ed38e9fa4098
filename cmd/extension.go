package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Environ returns the configuration as environment variables, as read by
// LoadConfig.
func (cfg *Config) Environ() []string {
	return []string{
		"PNL_LEDGER_FILE=" + cfg.LedgerFile,
		"PNL_HOLDINGS_FILE=" + cfg.HoldingsFile,
		"PNL_RATES_FILE=" + cfg.RatesFile,
		"PNL_CURRENCY=" + cfg.Currency,
		"PNL_RSU_ASSETS=" + strings.Join(cfg.RSUAssets, ","),
		"PNL_LOG_LEVEL=" + cfg.LogLevel,
		"PNL_LOG_JSON=" + strconv.FormatBool(cfg.LogJSON),
		"PNL_ESTIMATE_ZERO_QUANTITY=" + strconv.FormatBool(cfg.EstimateZeroQuantity),
	}
}

// RunExtension attempts to find and execute an external folio-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The extension receives the global flags as environment variables, so that
// it reads the same files as folio.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "folio-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		log.Debug().Str("extension", name).Err(err).Msg("extension not found")
		return false, 0
	}

	c := exec.Command(lp, args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Env = append(os.Environ(), cfg.Environ()...)

	if err := c.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
