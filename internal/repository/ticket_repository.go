package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-checkin/internal/model"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketRepository 票券儲存層。查無資料一律回傳 apperrors.ErrTicketNotFound，
// 連線或資料庫錯誤一律包裝成 apperrors.ErrStorageUnavailable。
type TicketRepository interface {
	// Create 新增票券並指派 ID，不會覆寫既有資料
	Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	// List 回傳所有票券，順序不保證
	List(ctx context.Context) ([]*model.Ticket, error)
	// FindByIdentity 姓名、email (不分大小寫)、電話任一相符即回傳，多筆時回傳最早建立者
	FindByIdentity(ctx context.Context, name, email, phone string) (*model.Ticket, error)
	FindByCode(ctx context.Context, code string) (*model.Ticket, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	// UpdatePresence 設定出席狀態，回傳資料是否真的被修改
	UpdatePresence(ctx context.Context, id uuid.UUID, isPresent bool, at time.Time) (bool, error)
	// Delete 刪除票券並回傳刪除前的資料
	Delete(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	Ping(ctx context.Context) error
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStorageUnavailable, err)
}

const ticketColumns = `id, name, email, phone, type, ticket_code, is_present, created_at, present_at`

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.Name,
		&ticket.Email,
		&ticket.Phone,
		&ticket.Type,
		&ticket.TicketCode,
		&ticket.IsPresent,
		&ticket.CreatedAt,
		&ticket.PresentAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) findOne(ctx context.Context, op, query string, args ...any) (*model.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, storageError(op, err)
	}
	return ticket, nil
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (
		id, name, email, phone, type, ticket_code, is_present, created_at, present_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + ticketColumns

	created := *ticket
	created.ID = uuid.New()

	return r.findOne(ctx, "create ticket", query,
		created.ID, created.Name, created.Email, created.Phone, created.Type,
		created.TicketCode, created.IsPresent, created.CreatedAt, created.PresentAt,
	)
}

func (r *TicketRepositoryImpl) List(ctx context.Context) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storageError("list tickets", err)
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, storageError("scan ticket", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("list tickets", err)
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) FindByIdentity(ctx context.Context, name, email, phone string) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE name = $1 OR lower(email) = lower($2) OR phone = $3
		ORDER BY created_at, id
		LIMIT 1
	`
	return r.findOne(ctx, "find ticket by identity", query, name, email, phone)
}

func (r *TicketRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE ticket_code = $1
		ORDER BY created_at, id
		LIMIT 1
	`
	return r.findOne(ctx, "find ticket by code", query, code)
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return r.findOne(ctx, "find ticket by id", query, id)
}

func (r *TicketRepositoryImpl) UpdatePresence(ctx context.Context, id uuid.UUID, isPresent bool, at time.Time) (bool, error) {
	// 設為出席一定會更新 present_at；設為缺席且原本就缺席時不算修改
	query := `
		UPDATE tickets
		SET is_present = $2::boolean,
			present_at = CASE WHEN $2::boolean THEN GREATEST($3::timestamptz, created_at) ELSE NULL END
		WHERE id = $1 AND (is_present <> $2::boolean OR $2::boolean)
	`

	result, err := r.pool.Exec(ctx, query, id, isPresent, at.UTC())
	if err != nil {
		return false, storageError("update presence", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *TicketRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	query := `DELETE FROM tickets WHERE id = $1 RETURNING ` + ticketColumns
	return r.findOne(ctx, "delete ticket", query, id)
}

func (r *TicketRepositoryImpl) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}
