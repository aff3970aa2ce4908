// Package commands implements the budgetctl command line.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tinoosan/budget/internal/config"
	"github.com/tinoosan/budget/internal/events"
	"github.com/tinoosan/budget/internal/service/account"
	"github.com/tinoosan/budget/internal/service/budget"
	"github.com/tinoosan/budget/internal/service/report"
	"github.com/tinoosan/budget/internal/service/transaction"
	"github.com/tinoosan/budget/internal/storage"
)

// app carries what every subcommand needs. The backend is opened lazily so
// commands that never touch storage do not pay for it.
type app struct {
	cfg    *config.Config
	output string
}

// services bundles the services built over one opened backend.
type services struct {
	accounts     account.Service
	budget       budget.Service
	transactions transaction.Service
	reports      report.Service
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// Configuration comes from the environment, the same as the server.
func NewRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "budgetctl",
		Short: "Inspect and load a personal budget book",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch a.output {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q: must be text, json or yaml", a.output)
			}
			a.cfg = config.Load()
			return a.cfg.Validate()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(
		newSummaryCommand(a),
		newLedgerCommand(a),
		newStatisticsCommand(a),
		newClassifyCommand(a),
		newSeedCommand(a),
		newMigrateCommand(a),
	)
	return rootCmd
}

// withServices opens the configured backend for the duration of fn.
func (a *app) withServices(ctx context.Context, fn func(services) error) error {
	store, closeStore, err := storage.Open(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	pub := events.Publisher(events.Nop{})
	return fn(services{
		accounts:     account.New(store, store, pub),
		budget:       budget.New(store, store, pub),
		transactions: transaction.New(store, store, pub),
		reports:      report.New(store),
	})
}

// render writes v as JSON or YAML, or calls text for the text format.
func (a *app) render(w io.Writer, v any, text func(io.Writer) error) error {
	switch a.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}
