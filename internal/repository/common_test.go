package repository_test

import (
	"context"
	"testing"
	"time"

	"event-checkin/internal/model"
	"event-checkin/internal/repository"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestTicket(name, email, phone, code string, createdAt time.Time) *model.Ticket {
	return &model.Ticket{
		Name:       name,
		Email:      email,
		Phone:      phone,
		Type:       model.TicketTypeStudent,
		TicketCode: code,
		CreatedAt:  createdAt,
	}
}

func mustCreate(t *testing.T, repo repository.TicketRepository, ticket *model.Ticket) *model.Ticket {
	t.Helper()
	created, err := repo.Create(context.Background(), ticket)
	require.NoError(t, err)
	return created
}

// runTicketRepositoryTests 每個儲存後端都要通過的行為
func runTicketRepositoryTests(t *testing.T, newRepo func(t *testing.T) repository.TicketRepository) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := newRepo(t)
		created := mustCreate(t, repo, newTestTicket("Ann", "ann@x.com", "555", "1234", baseTime))

		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "Ann", created.Name)
		assert.Equal(t, "ann@x.com", created.Email)
		assert.Equal(t, "555", created.Phone)
		assert.Equal(t, model.TicketTypeStudent, created.Type)
		assert.Equal(t, "1234", created.TicketCode)
		assert.False(t, created.IsPresent)
		assert.False(t, created.PresentAt.Valid)
		assert.True(t, baseTime.Equal(created.CreatedAt))

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("Create - duplicate codes are allowed", func(t *testing.T) {
		repo := newRepo(t)
		first := mustCreate(t, repo, newTestTicket("Ann", "ann@x.com", "555", "4321", baseTime))
		second := mustCreate(t, repo, newTestTicket("Bob", "bob@x.com", "556", "4321", baseTime.Add(time.Minute)))
		assert.NotEqual(t, first.ID, second.ID)

		// 票號重複時回傳最早建立的票券
		found, err := repo.FindByCode(ctx, "4321")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
	})

	t.Run("List", func(t *testing.T) {
		repo := newRepo(t)
		tickets, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, tickets)

		mustCreate(t, repo, newTestTicket("Ann", "ann@x.com", "555", "1111", baseTime))
		mustCreate(t, repo, newTestTicket("Bob", "bob@x.com", "556", "2222", baseTime.Add(time.Minute)))

		tickets, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, tickets, 2)
	})

	t.Run("FindByIdentity", func(t *testing.T) {
		repo := newRepo(t)
		ann := mustCreate(t, repo, newTestTicket("Ann", "ann@x.com", "555", "1111", baseTime))
		bob := mustCreate(t, repo, newTestTicket("Bob", "bob@x.com", "556", "2222", baseTime.Add(time.Minute)))

		found, err := repo.FindByIdentity(ctx, "Ann", "other@x.com", "000")
		require.NoError(t, err)
		assert.Equal(t, ann.ID, found.ID)

		found, err = repo.FindByIdentity(ctx, "Nobody", "BOB@X.COM", "000")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, found.ID)

		found, err = repo.FindByIdentity(ctx, "Nobody", "other@x.com", "556")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, found.ID)

		// 同時符合兩筆時回傳最早建立的
		found, err = repo.FindByIdentity(ctx, "Bob", "ann@x.com", "000")
		require.NoError(t, err)
		assert.Equal(t, ann.ID, found.ID)

		_, err = repo.FindByIdentity(ctx, "Nobody", "other@x.com", "000")
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})

	t.Run("FindByCode - NotFound", func(t *testing.T) {
		repo := newRepo(t)
		mustCreate(t, repo, newTestTicket("Ann", "ann@x.com", "555", "1111", baseTime))

		_, err := repo.FindByCode(ctx, "9999")
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})

	t.Run("FindByID - NotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})

	t.Run("UpdatePresence", func(t *testing.T) {
		repo := newRepo(t)
		ticket := mustCreate(t, repo, newTestTicket("Ann", "ann@x.com", "555", "1111", baseTime))
		checkInAt := baseTime.Add(time.Hour)

		changed, err := repo.UpdatePresence(ctx, ticket.ID, true, checkInAt)
		require.NoError(t, err)
		assert.True(t, changed)

		found, err := repo.FindByID(ctx, ticket.ID)
		require.NoError(t, err)
		assert.True(t, found.IsPresent)
		require.True(t, found.PresentAt.Valid)
		assert.True(t, checkInAt.Equal(found.PresentAt.Time))

		// 重複設為出席仍然會寫入
		changed, err = repo.UpdatePresence(ctx, ticket.ID, true, checkInAt.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = repo.UpdatePresence(ctx, ticket.ID, false, checkInAt)
		require.NoError(t, err)
		assert.True(t, changed)

		found, err = repo.FindByID(ctx, ticket.ID)
		require.NoError(t, err)
		assert.False(t, found.IsPresent)
		assert.False(t, found.PresentAt.Valid)

		// 已經缺席再設缺席不算修改
		changed, err = repo.UpdatePresence(ctx, ticket.ID, false, checkInAt)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("UpdatePresence - presentAt never before createdAt", func(t *testing.T) {
		repo := newRepo(t)
		ticket := mustCreate(t, repo, newTestTicket("Ann", "ann@x.com", "555", "1111", baseTime))

		changed, err := repo.UpdatePresence(ctx, ticket.ID, true, baseTime.Add(-time.Hour))
		require.NoError(t, err)
		assert.True(t, changed)

		found, err := repo.FindByID(ctx, ticket.ID)
		require.NoError(t, err)
		require.True(t, found.PresentAt.Valid)
		assert.True(t, baseTime.Equal(found.PresentAt.Time))
	})

	t.Run("UpdatePresence - unknown id", func(t *testing.T) {
		repo := newRepo(t)
		changed, err := repo.UpdatePresence(ctx, uuid.New(), true, baseTime)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		ticket := mustCreate(t, repo, newTestTicket("Ann", "ann@x.com", "555", "1111", baseTime))
		_, err := repo.UpdatePresence(ctx, ticket.ID, true, baseTime.Add(time.Hour))
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, ticket.ID, deleted.ID)
		assert.True(t, deleted.IsPresent)

		_, err = repo.FindByID(ctx, ticket.ID)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)

		_, err = repo.Delete(ctx, ticket.ID)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})

	t.Run("Ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(ctx))
	})
}
