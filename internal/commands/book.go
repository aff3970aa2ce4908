package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tinoosan/budget/internal/config"
	"github.com/tinoosan/budget/internal/seed"
	"github.com/tinoosan/budget/internal/storage"
)

func newClassifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify FROM TO",
		Short: "Print the flow a transaction between two endpoint tags would have",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd.Context(), func(svc services) error {
				flow, err := svc.transactions.Classify(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				v := map[string]string{"from": args[0], "to": args[1], "flow": string(flow)}
				return a.render(cmd.OutOrStdout(), v, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, flow)
					return err
				})
			})
		},
	}
}

func newSeedCommand(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import accounts, budget lines and transactions from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.StorageBackend == config.BackendMemory {
				return fmt.Errorf("seed needs a persistent backend: set STORAGE_BACKEND=sqlite or DATABASE_URL")
			}
			f, err := seed.Load(file)
			if err != nil {
				return err
			}
			return a.withServices(cmd.Context(), func(svc services) error {
				res, err := seed.Apply(cmd.Context(), f, seed.Services{Accounts: svc.accounts, Budget: svc.budget, Transactions: svc.transactions})
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), res, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "seeded %d accounts, %d income sources, %d expense categories, %d transactions\n",
						res.Accounts, res.IncomeSources, res.ExpenseCategories, res.Transactions)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "path to the seed file")
	return cmd
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.Migrate(a.cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", a.cfg.StorageBackend)
			return err
		},
	}
}
