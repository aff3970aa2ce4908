// Package account implements the account rules: trimmed unique names, a
// non-negative starting balance, and deletes refused while transactions still
// reference the account.
package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/events"
	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/slug"
)

type Repo interface {
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error)
	ListTransactions(ctx context.Context) ([]ledger.Transaction, error)
}

type Writer interface {
	CreateAccount(ctx context.Context, a ledger.Account) (ledger.Account, error)
	ReplaceAccount(ctx context.Context, a ledger.Account) (ledger.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	ValidateCreate(a ledger.Account) error
	Create(ctx context.Context, a ledger.Account) (ledger.Account, error)
	List(ctx context.Context) ([]ledger.Account, error)
	Get(ctx context.Context, id uuid.UUID) (ledger.Account, error)
	Replace(ctx context.Context, a ledger.Account) (ledger.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repo
	writer Writer
	pub    events.Publisher
}

func New(repo Repo, writer Writer, pub events.Publisher) Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &service{repo: repo, writer: writer, pub: pub}
}

func (s *service) ValidateCreate(a ledger.Account) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalid)
	}
	if a.InitialBalance.IsNeg() {
		return fmt.Errorf("%w: initial balance cannot be negative", errs.ErrInvalid)
	}
	return nil
}

func (s *service) Create(ctx context.Context, a ledger.Account) (ledger.Account, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.ID = uuid.Nil
	if err := s.ValidateCreate(a); err != nil {
		return ledger.Account{}, err
	}
	if err := s.ensureUniqueName(ctx, a); err != nil {
		return ledger.Account{}, err
	}
	created, err := s.writer.CreateAccount(ctx, a)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("create account: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionAccounts, events.OpCreate, created.ID))
	return created, nil
}

func (s *service) List(ctx context.Context) ([]ledger.Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// Replace overwrites name and initial balance. Transactions holding id tags
// follow the rename; legacy name tags keep the old name.
func (s *service) Replace(ctx context.Context, a ledger.Account) (ledger.Account, error) {
	if a.ID == uuid.Nil {
		return ledger.Account{}, errs.ErrInvalid
	}
	a.Name = strings.TrimSpace(a.Name)
	if err := s.ValidateCreate(a); err != nil {
		return ledger.Account{}, err
	}
	if _, err := s.repo.GetAccount(ctx, a.ID); err != nil {
		return ledger.Account{}, err
	}
	if err := s.ensureUniqueName(ctx, a); err != nil {
		return ledger.Account{}, err
	}
	updated, err := s.writer.ReplaceAccount(ctx, a)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("replace account: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionAccounts, events.OpReplace, updated.ID))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	if (ledger.Snapshot{Transactions: txs}).References(ledger.KindAccount, a.ID, a.Name) {
		return fmt.Errorf("account %q: %w", a.Name, errs.ErrInUse)
	}
	if err := s.writer.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionAccounts, events.OpDelete, id))
	return nil
}

func (s *service) ensureUniqueName(ctx context.Context, a ledger.Account) error {
	existing, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	for _, e := range existing {
		if e.ID != a.ID && slug.Same(e.Name, a.Name) {
			return fmt.Errorf("account %q: %w", a.Name, errs.ErrNameExists)
		}
	}
	return nil
}
