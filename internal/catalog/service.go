// Package catalog manages the reference data movements point at: payees,
// categories and forms of payment. The wallet core only ever sees their ids.
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/operation"
)

// ErrNotFound is returned when an entry id resolves to nothing.
var ErrNotFound = errors.New("catalog entry not found")

// Kind selects one of the three reference tables.
type Kind string

const (
	KindPayee         Kind = "payee"
	KindCategory      Kind = "category"
	KindFormOfPayment Kind = "form_of_payment"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindPayee || k == KindCategory || k == KindFormOfPayment
}

// Entry is one reference record.
type Entry struct {
	ID   uuid.UUID
	Name string
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateEntry(ctx context.Context, kind Kind, e *Entry) error
	ListEntries(ctx context.Context, kind Kind) ([]*Entry, error)
	DeleteEntry(ctx context.Context, kind Kind, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the name (same size rule as every other named record)
// and stores a new entry of the given kind.
func (s *Service) Create(ctx context.Context, kind Kind, name string) (*Entry, error) {
	if !kind.Valid() {
		return nil, errors.New("unknown catalog kind")
	}

	if err := operation.ValidateName(name); err != nil {
		return nil, err
	}

	e := &Entry{Name: name}
	if err := s.repo.CreateEntry(ctx, kind, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) List(ctx context.Context, kind Kind) ([]*Entry, error) {
	if !kind.Valid() {
		return nil, errors.New("unknown catalog kind")
	}

	return s.repo.ListEntries(ctx, kind)
}

func (s *Service) Delete(ctx context.Context, kind Kind, id uuid.UUID) error {
	if !kind.Valid() {
		return errors.New("unknown catalog kind")
	}

	return s.repo.DeleteEntry(ctx, kind, id)
}
