package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"event-checkin/internal/model"
	"event-checkin/internal/repository"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
)

var baseTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// stepClock 每次呼叫 Now 前進一分鐘
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: baseTime}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

// sequenceCodes 依序回傳指定票號，用完後重複最後一個
func sequenceCodes(codes ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return code
	}
}

// busyLock 永遠拿不到鎖
type busyLock struct{}

func (busyLock) Acquire(ctx context.Context, name, email, phone string) (func(), error) {
	return nil, apperrors.ErrRegistrationBusy
}

var errConnRefused = errors.New("connection refused")

// unavailableRepo 模擬儲存層連不上
type unavailableRepo struct{}

var _ repository.TicketRepository = unavailableRepo{}

func unavailable(op string) error {
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStorageUnavailable, errConnRefused)
}

func (unavailableRepo) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	return nil, unavailable("create ticket")
}

func (unavailableRepo) List(ctx context.Context) ([]*model.Ticket, error) {
	return nil, unavailable("list tickets")
}

func (unavailableRepo) FindByIdentity(ctx context.Context, name, email, phone string) (*model.Ticket, error) {
	return nil, unavailable("find ticket by identity")
}

func (unavailableRepo) FindByCode(ctx context.Context, code string) (*model.Ticket, error) {
	return nil, unavailable("find ticket by code")
}

func (unavailableRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	return nil, unavailable("find ticket by id")
}

func (unavailableRepo) UpdatePresence(ctx context.Context, id uuid.UUID, isPresent bool, at time.Time) (bool, error) {
	return false, unavailable("update presence")
}

func (unavailableRepo) Delete(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	return nil, unavailable("delete ticket")
}

func (unavailableRepo) Ping(ctx context.Context) error {
	return unavailable("ping")
}

func registerRequest(name, email, phone string, ticketType model.TicketType) model.RegisterTicketRequest {
	return model.RegisterTicketRequest{
		Name:  name,
		Email: email,
		Phone: phone,
		Type:  string(ticketType),
	}
}
