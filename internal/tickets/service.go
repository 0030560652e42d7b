package tickets

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotConfirmed = errors.New("ticket is not confirmed")

// Dispatcher delivers a rendered ticket document to its holder.
type Dispatcher interface {
	SendTicketConfirmation(ctx context.Context, ticket *Ticket, document []byte) error
}

// Service exposes the operator-facing ticket operations.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]Ticket, int64, error)
	GetByOrderID(ctx context.Context, orderID string) (*Ticket, error)
	GetByEmail(ctx context.Context, email string) ([]Ticket, error)
	Resend(ctx context.Context, orderID string) (*Ticket, error)
}

type service struct {
	repo       Repository
	generator  DocumentGenerator
	dispatcher Dispatcher
}

func NewService(repo Repository, generator DocumentGenerator, dispatcher Dispatcher) Service {
	return &service{
		repo:       repo,
		generator:  generator,
		dispatcher: dispatcher,
	}
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Ticket, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *service) GetByOrderID(ctx context.Context, orderID string) (*Ticket, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

func (s *service) GetByEmail(ctx context.Context, email string) ([]Ticket, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Resend regenerates the ticket document and sends it to the holder's
// email again. Only confirmed tickets can be resent.
func (s *service) Resend(ctx context.Context, orderID string) (*Ticket, error) {
	ticket, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != StatusConfirmed {
		return nil, ErrNotConfirmed
	}

	document, err := s.generator.Render(ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to render ticket document: %w", err)
	}

	if err := s.dispatcher.SendTicketConfirmation(ctx, ticket, document); err != nil {
		return nil, fmt.Errorf("failed to dispatch ticket: %w", err)
	}

	return ticket, nil
}
