package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omegaopinmthechat/highwaydelite/internal/model"
	apperrors "github.com/omegaopinmthechat/highwaydelite/pkg/app_errors"
)

type BookingRepository interface {
	List(ctx context.Context) ([]*model.Booking, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error)
	FindByExperienceID(ctx context.Context, experienceID int) ([]*model.Booking, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error)
	UpdateStatusWithLock(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, status model.BookingStatus) (*model.Booking, error)
}

type BookingRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &BookingRepositoryImpl{
		pool: pool,
	}
}

const bookingSelect = `
	SELECT b.id, b.booking_id, b.experience_id, e.experience_id,
	       b.experience_title, b.date_label, b.time_label, b.quantity,
	       b.subtotal, b.taxes, b.total, b.full_name, b.email,
	       b.status, b.created_at, b.updated_at
	FROM bookings b
	JOIN experiences e ON e.id = b.experience_id
`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.BookingID,
		&b.ExperienceID,
		&b.ExperienceUUID,
		&b.ExperienceTitle,
		&b.DateLabel,
		&b.TimeLabel,
		&b.Quantity,
		&b.Subtotal,
		&b.Taxes,
		&b.Total,
		&b.CustomerInfo.FullName,
		&b.CustomerInfo.Email,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error) {
	query := `
		INSERT INTO bookings (
			booking_id, experience_id, experience_title, date_label, time_label,
			quantity, subtotal, taxes, total, full_name, email, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	if booking.BookingID == uuid.Nil {
		booking.BookingID = uuid.New()
	}

	err := tx.QueryRow(ctx, query,
		booking.BookingID, booking.ExperienceID, booking.ExperienceTitle,
		booking.DateLabel, booking.TimeLabel, booking.Quantity,
		booking.Subtotal, booking.Taxes, booking.Total,
		booking.CustomerInfo.FullName, booking.CustomerInfo.Email, booking.Status,
	).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) List(ctx context.Context) ([]*model.Booking, error) {
	query := bookingSelect + `
		ORDER BY b.created_at DESC
	`
	return r.queryBookings(ctx, query)
}

func (r *BookingRepositoryImpl) FindByExperienceID(ctx context.Context, experienceID int) ([]*model.Booking, error) {
	query := bookingSelect + `
		WHERE b.experience_id = $1
		ORDER BY b.created_at DESC
	`
	return r.queryBookings(ctx, query, experienceID)
}

func (r *BookingRepositoryImpl) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*model.Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*model.Booking

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingRepositoryImpl) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	query := bookingSelect + `
		WHERE b.booking_id = $1
	`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	return b, nil
}

func (r *BookingRepositoryImpl) UpdateStatusWithLock(
	ctx context.Context,
	tx pgx.Tx,
	bookingID uuid.UUID,
	status model.BookingStatus,
) (*model.Booking, error) {
	// lock first so the transition check and the write are one unit
	current, err := scanBooking(tx.QueryRow(ctx, bookingSelect+`
		WHERE b.booking_id = $1
		FOR UPDATE OF b
	`, bookingID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}

	if !current.Status.CanTransitionTo(status) {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE booking_id = $3
		RETURNING status, updated_at
	`

	err = tx.QueryRow(ctx, query, status, time.Now().UTC(), bookingID).Scan(
		&current.Status,
		&current.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return current, nil
}
