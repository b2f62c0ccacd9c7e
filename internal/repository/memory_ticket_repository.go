package repository

import (
	"context"
	"sync"
	"time"

	"event-checkin/internal/model"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

// MemoryTicketRepository 開發與測試用的記憶體實作，依建立順序保存票券
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	tickets []*model.Ticket
}

func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{}
}

func clone(t *model.Ticket) *model.Ticket {
	c := *t
	return &c
}

func (r *MemoryTicketRepository) indexOf(id uuid.UUID) int {
	for i, t := range r.tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (r *MemoryTicketRepository) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	created := clone(ticket)
	created.ID = uuid.New()

	r.mu.Lock()
	r.tickets = append(r.tickets, created)
	r.mu.Unlock()

	return clone(created), nil
}

func (r *MemoryTicketRepository) List(ctx context.Context) ([]*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tickets := make([]*model.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		tickets = append(tickets, clone(t))
	}
	return tickets, nil
}

func (r *MemoryTicketRepository) FindByIdentity(ctx context.Context, name, email, phone string) (*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tickets {
		if t.MatchesAnyIdentityField(name, email, phone) {
			return clone(t), nil
		}
	}
	return nil, apperrors.ErrTicketNotFound
}

func (r *MemoryTicketRepository) FindByCode(ctx context.Context, code string) (*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tickets {
		if t.TicketCode == code {
			return clone(t), nil
		}
	}
	return nil, apperrors.ErrTicketNotFound
}

func (r *MemoryTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperrors.ErrTicketNotFound
	}
	return clone(r.tickets[i]), nil
}

func (r *MemoryTicketRepository) UpdatePresence(ctx context.Context, id uuid.UUID, isPresent bool, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}

	t := r.tickets[i]
	if !isPresent {
		if !t.IsPresent {
			return false, nil
		}
		t.IsPresent = false
		t.PresentAt = null.Time{}
		return true, nil
	}

	at = at.UTC()
	if at.Before(t.CreatedAt) {
		at = t.CreatedAt
	}
	t.IsPresent = true
	t.PresentAt = null.TimeFrom(at)
	return true, nil
}

func (r *MemoryTicketRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperrors.ErrTicketNotFound
	}
	deleted := r.tickets[i]
	r.tickets = append(r.tickets[:i], r.tickets[i+1:]...)
	return deleted, nil
}

func (r *MemoryTicketRepository) Ping(ctx context.Context) error {
	return nil
}
