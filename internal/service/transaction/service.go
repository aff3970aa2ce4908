// Package transaction validates and records money movements between endpoints.
//
// Name-form endpoint tags that resolve to a live entity are rewritten to the
// id form before validation, so stored transactions survive entity renames.
package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/budget/internal/errs"
	"github.com/tinoosan/budget/internal/events"
	"github.com/tinoosan/budget/internal/ledger"
	"github.com/tinoosan/budget/internal/meta"
)

// Repo defines read operations needed by the service.
type Repo interface {
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
	ListIncomeSources(ctx context.Context) ([]ledger.IncomeSource, error)
	ListExpenseCategories(ctx context.Context) ([]ledger.ExpenseCategory, error)
	ListTransactions(ctx context.Context) ([]ledger.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	CreateTransaction(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error)
	ReplaceTransaction(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// Input is an unvalidated transaction as submitted by a user.
type Input struct {
	From     string
	To       string
	Amount   string
	Date     string
	Metadata meta.Metadata
}

// Service validates and persists transactions.
type Service interface {
	Validate(ctx context.Context, in Input) (ledger.Transaction, error)
	Create(ctx context.Context, in Input) (ledger.Transaction, error)
	List(ctx context.Context) ([]ledger.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (ledger.Transaction, error)
	Replace(ctx context.Context, id uuid.UUID, in Input) (ledger.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Classify(ctx context.Context, from, to string) (ledger.Flow, error)
}

type Option func(*service)

// WithClock overrides the clock used to default empty dates.
func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

type service struct {
	repo   Repo
	writer Writer
	pub    events.Publisher
	now    func() time.Time
}

func New(repo Repo, writer Writer, pub events.Publisher, opts ...Option) Service {
	s := &service{repo: repo, writer: writer, pub: pub, now: time.Now}
	if s.pub == nil {
		s.pub = events.Nop{}
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Validate canonicalizes endpoint tags, then checks amount, endpoints, kind
// pairing and date in that order. The returned transaction has no ID.
func (s *service) Validate(ctx context.Context, in Input) (ledger.Transaction, error) {
	snap, err := s.entities(ctx)
	if err != nil {
		return ledger.Transaction{}, err
	}
	from := snap.Canonical(strings.TrimSpace(in.From))
	to := snap.Canonical(strings.TrimSpace(in.To))
	amount, _, err := ledger.Validate(from, to, in.Amount)
	if err != nil {
		return ledger.Transaction{}, err
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = s.now().Format(ledger.DateLayout)
	}
	if !ledger.ValidDate(date) {
		return ledger.Transaction{}, fmt.Errorf("%w: %q", errs.ErrInvalidDate, in.Date)
	}
	md := meta.New(in.Metadata)
	if err := md.Validate(); err != nil {
		return ledger.Transaction{}, fmt.Errorf("%w: %v", errs.ErrInvalid, err)
	}
	return ledger.Transaction{From: from, To: to, Amount: amount, Date: date, Metadata: md}, nil
}

func (s *service) Create(ctx context.Context, in Input) (ledger.Transaction, error) {
	t, err := s.Validate(ctx, in)
	if err != nil {
		return ledger.Transaction{}, err
	}
	created, err := s.writer.CreateTransaction(ctx, t)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionTransactions, events.OpCreate, created.ID))
	return created, nil
}

func (s *service) List(ctx context.Context) ([]ledger.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Replace re-validates the edited transaction and keeps its id.
func (s *service) Replace(ctx context.Context, id uuid.UUID, in Input) (ledger.Transaction, error) {
	if _, err := s.repo.GetTransaction(ctx, id); err != nil {
		return ledger.Transaction{}, err
	}
	t, err := s.Validate(ctx, in)
	if err != nil {
		return ledger.Transaction{}, err
	}
	t.ID = id
	updated, err := s.writer.ReplaceTransaction(ctx, t)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("replace transaction: %w", err)
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionTransactions, events.OpReplace, id))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.writer.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	events.Notify(ctx, s.pub, events.NewChange(events.CollectionTransactions, events.OpDelete, id))
	return nil
}

// Classify canonicalizes both tags first so a name tag and an id tag for the
// same entity compare equal.
func (s *service) Classify(ctx context.Context, from, to string) (ledger.Flow, error) {
	snap, err := s.entities(ctx)
	if err != nil {
		return ledger.FlowInvalid, err
	}
	return ledger.Classify(snap.Canonical(strings.TrimSpace(from)), snap.Canonical(strings.TrimSpace(to))), nil
}

// entities loads the three named collections used to resolve endpoint tags.
func (s *service) entities(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	var err error
	if snap.Accounts, err = s.repo.ListAccounts(ctx); err != nil {
		return snap, fmt.Errorf("list accounts: %w", err)
	}
	if snap.IncomeSources, err = s.repo.ListIncomeSources(ctx); err != nil {
		return snap, fmt.Errorf("list income sources: %w", err)
	}
	if snap.ExpenseCategories, err = s.repo.ListExpenseCategories(ctx); err != nil {
		return snap, fmt.Errorf("list expense categories: %w", err)
	}
	return snap, nil
}
