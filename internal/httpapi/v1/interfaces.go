package v1

import (
	"context"

	"github.com/tinoosan/budget/internal/service/account"
	"github.com/tinoosan/budget/internal/service/budget"
	"github.com/tinoosan/budget/internal/service/report"
	"github.com/tinoosan/budget/internal/service/transaction"
)

// Store composes the read and write operations the services need.
// It is satisfied by every storage backend.
type Store interface {
	account.Repo
	account.Writer
	budget.Repo
	budget.Writer
	transaction.Repo
	transaction.Writer
	report.Repo
}

// ReadyChecker is optionally implemented by stores and publishers to indicate readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}
