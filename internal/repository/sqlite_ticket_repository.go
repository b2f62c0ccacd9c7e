package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"event-checkin/internal/model"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

// SQLiteTicketRepository 單機部署用的 SQLite 實作。
// 時間以 UTC unix nanoseconds 儲存，才能在 SQL 裡直接比較大小。
type SQLiteTicketRepository struct {
	db *sql.DB
}

func NewSQLiteTicketRepository(db *sql.DB) TicketRepository {
	return &SQLiteTicketRepository{db: db}
}

type sqliteScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTicket(row sqliteScanner) (*model.Ticket, error) {
	var (
		ticket    model.Ticket
		id        string
		createdAt int64
		presentAt sql.NullInt64
	)
	err := row.Scan(
		&id,
		&ticket.Name,
		&ticket.Email,
		&ticket.Phone,
		&ticket.Type,
		&ticket.TicketCode,
		&ticket.IsPresent,
		&createdAt,
		&presentAt,
	)
	if err != nil {
		return nil, err
	}

	ticket.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse ticket id %q: %w", id, err)
	}
	ticket.CreatedAt = time.Unix(0, createdAt).UTC()
	if presentAt.Valid {
		ticket.PresentAt = null.TimeFrom(time.Unix(0, presentAt.Int64).UTC())
	}
	return &ticket, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableUnixNano(t null.Time) sql.NullInt64 {
	if !t.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Time.UTC().UnixNano(), Valid: true}
}

func (r *SQLiteTicketRepository) findOne(ctx context.Context, op, query string, args ...any) (*model.Ticket, error) {
	ticket, err := scanSQLiteTicket(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, storageError(op, err)
	}
	return ticket, nil
}

func (r *SQLiteTicketRepository) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (
		id, name, email, phone, type, ticket_code, is_present, created_at, present_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + ticketColumns

	return r.findOne(ctx, "create ticket", query,
		uuid.New().String(), ticket.Name, ticket.Email, ticket.Phone, string(ticket.Type),
		ticket.TicketCode, boolToInt(ticket.IsPresent), ticket.CreatedAt.UTC().UnixNano(),
		nullableUnixNano(ticket.PresentAt),
	)
}

func (r *SQLiteTicketRepository) List(ctx context.Context) ([]*model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ticketColumns+` FROM tickets`)
	if err != nil {
		return nil, storageError("list tickets", err)
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanSQLiteTicket(rows)
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

func (r *SQLiteTicketRepository) FindByIdentity(ctx context.Context, name, email, phone string) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE name = ? OR lower(email) = lower(?) OR phone = ?
		ORDER BY created_at, id
		LIMIT 1
	`
	return r.findOne(ctx, "find ticket by identity", query, name, email, phone)
}

func (r *SQLiteTicketRepository) FindByCode(ctx context.Context, code string) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE ticket_code = ?
		ORDER BY created_at, id
		LIMIT 1
	`
	return r.findOne(ctx, "find ticket by code", query, code)
}

func (r *SQLiteTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	return r.findOne(ctx, "find ticket by id", query, id.String())
}

func (r *SQLiteTicketRepository) UpdatePresence(ctx context.Context, id uuid.UUID, isPresent bool, at time.Time) (bool, error) {
	query := `
		UPDATE tickets
		SET is_present = ?,
			present_at = CASE WHEN ? = 1 THEN MAX(?, created_at) ELSE NULL END
		WHERE id = ? AND (is_present <> ? OR ? = 1)
	`

	present := boolToInt(isPresent)
	result, err := r.db.ExecContext(ctx, query,
		present, present, at.UTC().UnixNano(), id.String(), present, present,
	)
	if err != nil {
		return false, storageError("update presence", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, storageError("update presence", err)
	}
	return n > 0, nil
}

func (r *SQLiteTicketRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	query := `DELETE FROM tickets WHERE id = ? RETURNING ` + ticketColumns
	return r.findOne(ctx, "delete ticket", query, id.String())
}

func (r *SQLiteTicketRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}
