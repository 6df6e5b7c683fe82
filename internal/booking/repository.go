package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. Declaring it here
// lets tests substitute a pgxmock pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	// Create persists the booking and claims every requested slot in one
	// transaction. A concurrent claim on any slot surfaces as ErrSlotTaken
	// and nothing is persisted.
	Create(ctx context.Context, b *Booking) error

	// BookedSlotIDs returns the slot IDs already claimed for a court on a date.
	BookedSlotIDs(ctx context.Context, courtID, date string) ([]string, error)

	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByEmail(ctx context.Context, email string) ([]*Booking, error)
	List(ctx context.Context, page, pageSize int) ([]*Booking, int, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	db DB
}

func NewPgxRepository(db DB) Repository {
	return &pgxRepository{db: db}
}

const bookingColumns = `id, court_id, court_name, court_type, date, slot_ids, times, price,
		customer_name, email, phone, payment_method, status, created_at, updated_at`

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"court_id", "court_name", "court_type", "date", "slot_ids", "times",
			"price", "customer_name", "email", "phone", "payment_method", "status",
		).
		Values(
			b.CourtID, b.CourtName, b.CourtType, b.Date, b.SlotIDs, b.Times,
			b.Price, b.CustomerName, b.Email, b.Phone, b.PaymentMethod, b.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}

	// One claim row per slot. The UNIQUE (court_id, date, slot_id) constraint
	// is what makes concurrent double-booking impossible: whichever
	// transaction commits first owns the slot, the other rolls back whole.
	const claimQuery = `
		INSERT INTO public.slot_claims (booking_id, court_id, date, slot_id)
		VALUES ($1, $2, $3, $4)
	`
	for _, slotID := range b.SlotIDs {
		if _, err := tx.Exec(ctx, claimQuery, b.ID, b.CourtID, b.Date, slotID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrSlotTaken
			}
			return fmt.Errorf("claim slot %s failed: %w", slotID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) BookedSlotIDs(ctx context.Context, courtID, date string) ([]string, error) {
	const query = `
		SELECT slot_id FROM public.slot_claims
		WHERE court_id = $1 AND date = $2
	`
	rows, err := r.db.Query(ctx, query, courtID, date)
	if err != nil {
		return nil, fmt.Errorf("list booked slots failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan booked slot failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := "SELECT " + bookingColumns + " FROM public.bookings WHERE id = $1"

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	query := "SELECT " + bookingColumns + ` FROM public.bookings
		WHERE email = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings by email failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// DefaultPageSize applies when a caller passes a non-positive page size.
const DefaultPageSize = 50

func (r *pgxRepository) List(ctx context.Context, page, pageSize int) ([]*Booking, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	offset := (page - 1) * pageSize

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "court_id", "court_name", "court_type", "date", "slot_ids", "times",
		"price", "customer_name", "email", "phone", "payment_method", "status",
		"created_at", "updated_at", "count(*) OVER() as total_count",
	).
		From("public.bookings").
		OrderBy("created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.CourtID, &b.CourtName, &b.CourtType, &b.Date, &b.SlotIDs, &b.Times,
			&b.Price, &b.CustomerName, &b.Email, &b.Phone, &b.PaymentMethod, &b.Status,
			&b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, total, rows.Err()
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	// Claim rows go with the booking via ON DELETE CASCADE, which is what
	// frees the slots immediately.
	const query = `DELETE FROM public.bookings WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.CourtID, &b.CourtName, &b.CourtType, &b.Date, &b.SlotIDs, &b.Times,
		&b.Price, &b.CustomerName, &b.Email, &b.Phone, &b.PaymentMethod, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
