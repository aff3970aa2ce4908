package postgres

import (
	"github.com/tinoosan/budget/internal/service/account"
	"github.com/tinoosan/budget/internal/service/budget"
	"github.com/tinoosan/budget/internal/service/report"
	"github.com/tinoosan/budget/internal/service/transaction"
)

// Compile-time interface assertions documenting which interfaces Store satisfies.
var (
	_ account.Repo       = (*Store)(nil)
	_ account.Writer     = (*Store)(nil)
	_ budget.Repo        = (*Store)(nil)
	_ budget.Writer      = (*Store)(nil)
	_ transaction.Repo   = (*Store)(nil)
	_ transaction.Writer = (*Store)(nil)
	_ report.Repo        = (*Store)(nil)
)
