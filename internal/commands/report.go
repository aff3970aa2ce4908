package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tinoosan/budget/internal/ledger"
)

type balanceRow struct {
	Name    string `json:"name" yaml:"name"`
	Initial string `json:"initial" yaml:"initial"`
	Current string `json:"current" yaml:"current"`
}

type lineRow struct {
	Name   string `json:"name" yaml:"name"`
	Target string `json:"target" yaml:"target"`
	Actual string `json:"actual" yaml:"actual"`
}

type summaryView struct {
	Currency      string            `json:"currency" yaml:"currency"`
	Accounts      []balanceRow      `json:"accounts" yaml:"accounts"`
	IncomeSources []lineRow         `json:"income_sources" yaml:"income_sources"`
	Categories    []lineRow         `json:"expense_categories" yaml:"expense_categories"`
	Totals        map[string]string `json:"totals" yaml:"totals"`
}

func toSummaryView(currency string, agg ledger.Aggregates) summaryView {
	v := summaryView{
		Currency:      currency,
		Accounts:      make([]balanceRow, 0, len(agg.Accounts)),
		IncomeSources: make([]lineRow, 0, len(agg.IncomeSources)),
		Categories:    make([]lineRow, 0, len(agg.Categories)),
		Totals: map[string]string{
			"total_balance":             agg.Totals.TotalBalance.String(),
			"total_spent_from_accounts": agg.Totals.TotalSpentFromAccounts.String(),
			"total_income_expected":     agg.Totals.TotalIncomeExpected.String(),
			"total_income_received":     agg.Totals.TotalIncomeReceived.String(),
			"total_budgeted":            agg.Totals.TotalBudgeted.String(),
			"net_change":                agg.Totals.NetChange.String(),
		},
	}
	for _, a := range agg.Accounts {
		v.Accounts = append(v.Accounts, balanceRow{Name: a.Name, Initial: a.Initial.String(), Current: a.Current.String()})
	}
	for _, src := range agg.IncomeSources {
		v.IncomeSources = append(v.IncomeSources, lineRow{Name: src.Name, Target: src.Expected.String(), Actual: src.Received.String()})
	}
	for _, c := range agg.Categories {
		v.Categories = append(v.Categories, lineRow{Name: c.Name, Target: c.Budgeted.String(), Actual: c.Spent.String()})
	}
	return v
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show account balances, budget lines and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd.Context(), func(svc services) error {
				agg, err := svc.reports.Summary(cmd.Context())
				if err != nil {
					return err
				}
				v := toSummaryView(a.cfg.Currency, agg)
				return a.render(cmd.OutOrStdout(), v, func(w io.Writer) error { return writeSummaryText(w, v) })
			})
		},
	}
}

func writeSummaryText(w io.Writer, v summaryView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ACCOUNT\tINITIAL\tCURRENT\n")
	for _, r := range v.Accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Initial, r.Current)
	}
	fmt.Fprintf(tw, "\nINCOME\tEXPECTED\tRECEIVED\n")
	for _, r := range v.IncomeSources {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Target, r.Actual)
	}
	fmt.Fprintf(tw, "\nEXPENSE\tBUDGETED\tSPENT\n")
	for _, r := range v.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Target, r.Actual)
	}
	fmt.Fprintf(tw, "\nTotal balance\t%s %s\t\n", v.Totals["total_balance"], v.Currency)
	fmt.Fprintf(tw, "Income received\t%s %s\t\n", v.Totals["total_income_received"], v.Currency)
	fmt.Fprintf(tw, "Spent from accounts\t%s %s\t\n", v.Totals["total_spent_from_accounts"], v.Currency)
	fmt.Fprintf(tw, "Net change\t%s %s\t\n", v.Totals["net_change"], v.Currency)
	return tw.Flush()
}

type ledgerRow struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Flow   string `json:"flow" yaml:"flow"`
	Amount string `json:"amount" yaml:"amount"`
}

type dayView struct {
	Date         string      `json:"date" yaml:"date"`
	NetChange    string      `json:"net_change" yaml:"net_change"`
	Transactions []ledgerRow `json:"transactions" yaml:"transactions"`
}

func newLedgerCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "List transactions grouped by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd.Context(), func(svc services) error {
				snap, err := svc.reports.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				days := make([]dayView, 0)
				for _, d := range snap.Days() {
					dv := dayView{Date: d.Date, NetChange: d.NetChange.String(), Transactions: make([]ledgerRow, 0, len(d.Transactions))}
					for _, t := range d.Transactions {
						dv.Transactions = append(dv.Transactions, ledgerRow{
							From:   snap.DisplayName(t.From),
							To:     snap.DisplayName(t.To),
							Flow:   string(t.Flow()),
							Amount: t.Amount.String(),
						})
					}
					days = append(days, dv)
				}
				return a.render(cmd.OutOrStdout(), days, func(w io.Writer) error {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					for _, d := range days {
						fmt.Fprintf(tw, "%s\t\t\tnet %s\n", d.Date, d.NetChange)
						for _, t := range d.Transactions {
							fmt.Fprintf(tw, "  %s -> %s\t%s\t%s\t\n", t.From, t.To, t.Flow, t.Amount)
						}
					}
					return tw.Flush()
				})
			})
		},
	}
}

type statisticsView struct {
	From         string            `json:"from,omitempty" yaml:"from,omitempty"`
	To           string            `json:"to,omitempty" yaml:"to,omitempty"`
	Income       map[string]string `json:"income" yaml:"income"`
	Expense      map[string]string `json:"expense" yaml:"expense"`
	TotalIncome  string            `json:"total_income" yaml:"total_income"`
	TotalExpense string            `json:"total_expense" yaml:"total_expense"`
}

func newStatisticsCommand(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize income by source and spending by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd.Context(), func(svc services) error {
				st, err := svc.reports.Statistics(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				v := statisticsView{From: st.From, To: st.To, Income: map[string]string{}, Expense: map[string]string{},
					TotalIncome: st.TotalIncome.String(), TotalExpense: st.TotalExpense.String()}
				for _, na := range st.IncomeBySource {
					v.Income[na.Name] = na.Amount.String()
				}
				for _, na := range st.ExpenseByCategory {
					v.Expense[na.Name] = na.Amount.String()
				}
				return a.render(cmd.OutOrStdout(), v, func(w io.Writer) error {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintf(tw, "INCOME\tAMOUNT\n")
					for _, na := range st.IncomeBySource {
						fmt.Fprintf(tw, "%s\t%s\n", na.Name, na.Amount)
					}
					fmt.Fprintf(tw, "\nEXPENSE\tAMOUNT\n")
					for _, na := range st.ExpenseByCategory {
						fmt.Fprintf(tw, "%s\t%s\n", na.Name, na.Amount)
					}
					fmt.Fprintf(tw, "\nTotal income\t%s\nTotal expense\t%s\n", v.TotalIncome, v.TotalExpense)
					return tw.Flush()
				})
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date to include (YYYY-MM-DD)")
	return cmd
}
