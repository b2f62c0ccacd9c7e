package mocks

import (
	"context"

	"event-checkin/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RegistrationServiceMock struct {
	mock.Mock
}

func NewRegistrationServiceMock() *RegistrationServiceMock {
	return &RegistrationServiceMock{}
}

func (m *RegistrationServiceMock) Register(ctx context.Context, req model.RegisterTicketRequest) (*model.Ticket, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Ticket), args.Bool(1), args.Error(2)
}

type CheckInServiceMock struct {
	mock.Mock
}

func NewCheckInServiceMock() *CheckInServiceMock {
	return &CheckInServiceMock{}
}

func (m *CheckInServiceMock) CheckIn(ctx context.Context, code string) (*model.Ticket, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

type AdminServiceMock struct {
	mock.Mock
}

func NewAdminServiceMock() *AdminServiceMock {
	return &AdminServiceMock{}
}

func (m *AdminServiceMock) ListAll(ctx context.Context) ([]*model.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *AdminServiceMock) List(ctx context.Context, query model.ListTicketsQuery) ([]*model.Ticket, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *AdminServiceMock) SetPresence(ctx context.Context, id uuid.UUID, isPresent bool) error {
	args := m.Called(ctx, id, isPresent)
	return args.Error(0)
}

func (m *AdminServiceMock) Remove(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *AdminServiceMock) Stats(ctx context.Context) (*model.TicketStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketStats), args.Error(1)
}
