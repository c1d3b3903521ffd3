package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, owner, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, owner uuid.UUID, filter ListFilter) ([]*Invoice, error)
	// ReplaceInvoice overwrites the header and swaps the whole item set
	// atomically.
	ReplaceInvoice(ctx context.Context, inv *Invoice) error
	DeleteInvoice(ctx context.Context, owner, id uuid.UUID) error
}

type Service struct {
	repo   Repository
	engine *Engine
}

func NewService(repo Repository, engine *Engine) *Service {
	return &Service{repo: repo, engine: engine}
}

func (s *Service) Engine() *Engine {
	return s.engine
}

func (s *Service) Create(ctx context.Context, owner uuid.UUID, payload Payload) (*Result, error) {
	draft, err := s.engine.Build(payload)
	if err != nil {
		return nil, err
	}

	inv := draft.Invoice
	inv.UserID = owner

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, GuardDuplicate(err, "number")
	}

	return &Result{Invoice: inv, Computed: draft.Computed}, nil
}

func (s *Service) Update(ctx context.Context, owner, id uuid.UUID, payload Payload) (*Result, error) {
	draft, err := s.engine.Build(payload)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetInvoice(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	inv := draft.Invoice
	inv.ID = existing.ID
	inv.UserID = existing.UserID
	inv.CreatedAt = existing.CreatedAt

	if err := s.repo.ReplaceInvoice(ctx, inv); err != nil {
		return nil, GuardDuplicate(err, "number")
	}

	return &Result{Invoice: inv, Computed: draft.Computed}, nil
}

func (s *Service) Get(ctx context.Context, owner, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, owner, id)
}

func (s *Service) List(ctx context.Context, owner uuid.UUID, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, owner, filter)
}

func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	return s.repo.DeleteInvoice(ctx, owner, id)
}

func (s *Service) Summary(ctx context.Context, owner uuid.UUID) (*Summary, error) {
	invoices, err := s.repo.ListInvoices(ctx, owner, ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	return Summarize(invoices), nil
}
