package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"event-checkin/internal/clock"
	"event-checkin/internal/model"
	"event-checkin/internal/repository"
	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type AdminService interface {
	// ListAll 回傳所有票券，不排序
	ListAll(ctx context.Context) ([]*model.Ticket, error)
	// List 先篩選再排序，不會寫入任何資料
	List(ctx context.Context, query model.ListTicketsQuery) ([]*model.Ticket, error)
	SetPresence(ctx context.Context, id uuid.UUID, isPresent bool) error
	Remove(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	Stats(ctx context.Context) (*model.TicketStats, error)
}

type AdminServiceImpl struct {
	repo  repository.TicketRepository
	clock clock.Clock
}

func NewAdminService(repo repository.TicketRepository, clk clock.Clock) AdminService {
	return &AdminServiceImpl{repo: repo, clock: clk}
}

func (s *AdminServiceImpl) ListAll(ctx context.Context) ([]*model.Ticket, error) {
	return s.repo.List(ctx)
}

func (s *AdminServiceImpl) List(ctx context.Context, query model.ListTicketsQuery) ([]*model.Ticket, error) {
	sortBy, ok := model.ParseSortBy(query.SortBy)
	if !ok {
		return nil, fmt.Errorf("%w: unknown sortBy %q", apperrors.ErrInvalidInput, query.SortBy)
	}
	filterBy, ok := model.ParseFilterBy(query.FilterBy)
	if !ok {
		return nil, fmt.Errorf("%w: unknown filterBy %q", apperrors.ErrInvalidInput, query.FilterBy)
	}

	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.TrimSpace(query.Search)
	filtered := make([]*model.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.MatchesSearch(search) && filterBy.Accepts(t) {
			filtered = append(filtered, t)
		}
	}

	sortTickets(filtered, sortBy)
	return filtered, nil
}

// sortTickets createdAt 由新到舊；name、type 依語系排序由小到大
func sortTickets(tickets []*model.Ticket, sortBy model.SortBy) {
	switch sortBy {
	case model.SortByName, model.SortByType:
		// Collator 不能併發使用，每次排序各自建立
		col := collate.New(language.Und)
		key := func(t *model.Ticket) string {
			if sortBy == model.SortByType {
				return string(t.Type)
			}
			return t.Name
		}
		slices.SortStableFunc(tickets, func(a, b *model.Ticket) int {
			return col.CompareString(key(a), key(b))
		})
	default:
		slices.SortStableFunc(tickets, func(a, b *model.Ticket) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}

func (s *AdminServiceImpl) SetPresence(ctx context.Context, id uuid.UUID, isPresent bool) error {
	changed, err := s.repo.UpdatePresence(ctx, id, isPresent, s.clock.Now())
	if err != nil {
		return err
	}
	if !changed {
		return apperrors.ErrTicketNotFound
	}

	logger.WithComponent("service").Info("presence updated",
		zap.String("ticket_id", id.String()),
		zap.Bool("is_present", isPresent),
	)
	return nil
}

func (s *AdminServiceImpl) Remove(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.WithComponent("service").Info("ticket deleted", zap.String("ticket_id", id.String()))
	return deleted, nil
}

func (s *AdminServiceImpl) Stats(ctx context.Context) (*model.TicketStats, error) {
	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.TicketStats{ByType: make(map[model.TicketType]int, len(model.TicketTypes))}
	for _, tt := range model.TicketTypes {
		stats.ByType[tt] = 0
	}
	for _, t := range tickets {
		stats.Total++
		if t.IsPresent {
			stats.Present++
		} else {
			stats.Absent++
		}
		stats.ByType[t.Type]++
	}
	return stats, nil
}
