package service

import (
	"context"
	"fmt"
	"strings"

	"event-checkin/internal/clock"
	"event-checkin/internal/model"
	"event-checkin/internal/repository"
	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"go.uber.org/zap"
)

type CheckInService interface {
	// CheckIn 以票號報到，重複報到仍會寫入並回傳成功
	CheckIn(ctx context.Context, code string) (*model.Ticket, error)
}

type CheckInServiceImpl struct {
	repo  repository.TicketRepository
	clock clock.Clock
}

func NewCheckInService(repo repository.TicketRepository, clk clock.Clock) CheckInService {
	return &CheckInServiceImpl{repo: repo, clock: clk}
}

func (s *CheckInServiceImpl) CheckIn(ctx context.Context, code string) (*model.Ticket, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: ticket code is required", apperrors.ErrInvalidInput)
	}

	ticket, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	changed, err := s.repo.UpdatePresence(ctx, ticket.ID, true, s.clock.Now())
	if err != nil {
		return nil, err
	}
	// 查到之後被刪除
	if !changed {
		return nil, apperrors.ErrTicketNotFound
	}

	updated, err := s.repo.FindByID(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	logger.WithComponent("service").Info("guest checked in", zap.String("ticket_id", updated.ID.String()))
	return updated, nil
}
