package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"event-checkin/internal/cache"
	"event-checkin/internal/clock"
	"event-checkin/internal/model"
	"event-checkin/internal/repository"
	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"go.uber.org/zap"
)

type RegistrationService interface {
	// Register 已有相同身分的票券時直接回傳該票券 (created=false)，不會更新任何欄位
	Register(ctx context.Context, req model.RegisterTicketRequest) (ticket *model.Ticket, created bool, err error)
}

// RegistrationSettings 票號產生方式；CodeAttempts 大於 1 時會避開已使用的票號
type RegistrationSettings struct {
	CodeAttempts int
	GenerateCode CodeGenerator
}

type RegistrationServiceImpl struct {
	repo         repository.TicketRepository
	lock         cache.RegistrationLock
	clock        clock.Clock
	codeAttempts int
	generateCode CodeGenerator
}

func NewRegistrationService(
	repo repository.TicketRepository,
	lock cache.RegistrationLock,
	clk clock.Clock,
	settings RegistrationSettings,
) RegistrationService {
	if lock == nil {
		lock = cache.NewNoopRegistrationLock()
	}
	if settings.CodeAttempts < 1 {
		settings.CodeAttempts = 1
	}
	if settings.GenerateCode == nil {
		settings.GenerateCode = GenerateTicketCode
	}
	return &RegistrationServiceImpl{
		repo:         repo,
		lock:         lock,
		clock:        clk,
		codeAttempts: settings.CodeAttempts,
		generateCode: settings.GenerateCode,
	}
}

func normalizeRegistration(req model.RegisterTicketRequest) (model.RegisterTicketRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Type == "" {
		return req, fmt.Errorf("%w: name, email, phone and type are required", apperrors.ErrInvalidInput)
	}
	if !model.TicketType(req.Type).IsValid() {
		return req, fmt.Errorf("%w: unknown ticket type %q", apperrors.ErrInvalidInput, req.Type)
	}
	return req, nil
}

func (s *RegistrationServiceImpl) Register(ctx context.Context, req model.RegisterTicketRequest) (*model.Ticket, bool, error) {
	req, err := normalizeRegistration(req)
	if err != nil {
		return nil, false, err
	}

	release, err := s.lock.Acquire(ctx, req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, false, err
	}
	defer release()

	// 1. 姓名、email、電話任一相同就回傳既有票券
	existing, err := s.repo.FindByIdentity(ctx, req.Name, req.Email, req.Phone)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrTicketNotFound) {
		return nil, false, err
	}

	// 2. 產生票號並建立新票券
	code, err := s.nextCode(ctx)
	if err != nil {
		return nil, false, err
	}

	ticket := &model.Ticket{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Type:       model.TicketType(req.Type),
		TicketCode: code,
		IsPresent:  false,
		CreatedAt:  s.clock.Now(),
	}

	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return nil, false, err
	}

	logger.WithComponent("service").Info("ticket registered",
		zap.String("ticket_id", created.ID.String()),
		zap.String("type", string(created.Type)),
	)
	return created, true, nil
}

func (s *RegistrationServiceImpl) nextCode(ctx context.Context) (string, error) {
	if s.codeAttempts <= 1 {
		return s.generateCode(), nil
	}

	for i := 0; i < s.codeAttempts; i++ {
		code := s.generateCode()
		_, err := s.repo.FindByCode(ctx, code)
		if errors.Is(err, apperrors.ErrTicketNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", apperrors.ErrTicketCodeExhausted
}
