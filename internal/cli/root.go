// Package cli implements the timebill command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	timebill "github.com/solobill/timebill"
	"github.com/solobill/timebill/internal/config"
	"github.com/solobill/timebill/internal/logger"
	"github.com/solobill/timebill/store"
	"github.com/solobill/timebill/store/file"
	"github.com/solobill/timebill/store/memory"
	"github.com/solobill/timebill/store/sqlite"
)

var version = "0.1.0"

// cfg is populated by Execute before any command runs.
var cfg config.Config

var (
	flagBackend string
	flagData    string
)

var rootCmd = &cobra.Command{
	Use:   "timebill",
	Short: "Track billable hours and generate invoices",
	Long: `timebill tracks billable time entries and turns them into invoices.

Logged entries stay in the unbilled pool until you create an invoice
from them; each entry can be billed exactly once. Invoices are frozen
snapshots and can be exported as PDF.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree with the given configuration.
func Execute(c config.Config) {
	cfg = c

	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cli")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "store", "", "storage backend: file, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "data file path")
}

// openStore builds the configured storage backend.
func openStore() (store.Store, error) {
	backend := cfg.Store.Backend
	if flagBackend != "" {
		backend = flagBackend
	}

	if backend == "memory" {
		return memory.New(), nil
	}

	path := cfg.Store.Path
	if flagData != "" {
		path = flagData
	} else if backend == "sqlite" && path == config.Default().Store.Path {
		// The file backend default would leave sqlite writing a .json
		// name; give it its own default instead.
		path = "~/.timebill/timebill.db"
	}
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	switch backend {
	case "file":
		return file.New(path), nil
	case "sqlite":
		return sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want file, sqlite or memory)", backend)
	}
}

// openLedger builds the ledger on the configured store. Callers must
// Stop the returned ledger.
func openLedger(cmd *cobra.Command) (*timebill.Ledger, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}

	l := timebill.New(s, timebill.WithLogger(logger.Slog()))
	if err := l.Start(cmd.Context()); err != nil {
		s.Close()
		return nil, err
	}
	return l, nil
}

// currency returns the configured invoice currency.
func currency() string {
	return strings.ToLower(cfg.Invoice.Currency)
}
