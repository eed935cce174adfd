package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omegaopinmthechat/highwaydelite/internal/cache"
	"github.com/omegaopinmthechat/highwaydelite/internal/model"
	"github.com/omegaopinmthechat/highwaydelite/internal/pricing"
	"github.com/omegaopinmthechat/highwaydelite/internal/queue"
	"github.com/omegaopinmthechat/highwaydelite/internal/repository"
	apperrors "github.com/omegaopinmthechat/highwaydelite/pkg/app_errors"
	"github.com/omegaopinmthechat/highwaydelite/pkg/logger"
	"go.uber.org/zap"
)

type BookingService interface {
	// CreateBooking admits a booking request: checks the slot, decrements its
	// availability and persists the booking in one transaction.
	CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error)
	ListBookings(ctx context.Context) ([]*model.Booking, error)
	GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error)
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error)
}

type BookingServiceImpl struct {
	pool           *pgxpool.Pool
	repository     repository.BookingRepository
	experienceRepo repository.ExperienceRepository
	availability   cache.AvailabilityCache
	bookingQueue   queue.BookingQueue
}

func NewBookingService(
	pool *pgxpool.Pool,
	bookingRepository repository.BookingRepository,
	experienceRepository repository.ExperienceRepository,
	availability cache.AvailabilityCache,
	bookingQueue queue.BookingQueue,
) BookingService {
	return &BookingServiceImpl{
		pool:           pool,
		repository:     bookingRepository,
		experienceRepo: experienceRepository,
		availability:   availability,
		bookingQueue:   bookingQueue,
	}
}

func (s *BookingServiceImpl) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	exp, err := s.experienceRepo.FindByExperienceID(ctx, req.ExperienceID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// FOR UPDATE serializes admissions per slot; once locked the availability
	// check and decrement cannot interleave with another admission
	slot, err := s.experienceRepo.FindSlotForUpdate(ctx, tx, exp.ID, req.Time)
	if err != nil {
		return nil, err
	}

	if slot.Available < req.Quantity {
		return nil, apperrors.ErrInsufficientAvailability
	}

	err = s.experienceRepo.DecrementAvailability(ctx, tx, exp.ID, req.Time, req.Quantity)
	if err != nil {
		return nil, err
	}

	// stored amounts come from the catalog, never from the request body
	quote := pricing.Compute(exp.EffectiveUnitPrice(), req.Quantity, exp.TaxRate)

	booking := &model.Booking{
		ExperienceID:    exp.ID,
		ExperienceUUID:  exp.ExperienceID,
		ExperienceTitle: exp.Title,
		DateLabel:       req.Date,
		TimeLabel:       req.Time,
		Quantity:        req.Quantity,
		Subtotal:        quote.Subtotal,
		Taxes:           quote.Taxes,
		Total:           quote.Total,
		CustomerInfo: model.CustomerInfo{
			FullName: req.CustomerInfo.FullName,
			Email:    req.CustomerInfo.Email,
		},
		Status: model.BookingStatusConfirmed,
	}

	created, err := s.repository.Create(ctx, tx, booking)
	if err != nil {
		return nil, err
	}

	// commit covers both the decrement and the booking; a failed insert rolls
	// the inventory back with it
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// best-effort side effects; the admission already succeeded, so these use
	// a background context and only log on failure
	s.afterAdmission(exp.ExperienceID, created)

	return created, nil
}

func (s *BookingServiceImpl) afterAdmission(experienceID uuid.UUID, booking *model.Booking) {
	ctx := context.Background()
	log := logger.WithComponent("booking-service")

	s.refreshAvailability(ctx, experienceID, booking.ExperienceID)

	event := &queue.BookingConfirmedEvent{
		BookingID:       booking.BookingID,
		ExperienceID:    experienceID,
		ExperienceTitle: booking.ExperienceTitle,
		Date:            booking.DateLabel,
		Time:            booking.TimeLabel,
		Quantity:        booking.Quantity,
		Total:           booking.Total,
		CustomerName:    booking.CustomerInfo.FullName,
		CustomerEmail:   booking.CustomerInfo.Email,
		ConfirmedAt:     time.Now().UTC(),
	}
	if err := s.bookingQueue.Publish(ctx, event); err != nil {
		log.Warn("failed to publish booking event",
			zap.String("booking_id", booking.BookingID.String()), zap.Error(err))
	}
}

func (s *BookingServiceImpl) refreshAvailability(ctx context.Context, experienceID uuid.UUID, internalID int) {
	slots, err := s.experienceRepo.ListTimeSlots(ctx, internalID)
	if err != nil {
		logger.WithComponent("booking-service").Warn("failed to load slots for cache refresh",
			zap.String("experience_id", experienceID.String()), zap.Error(err))
		return
	}
	if err := s.availability.Warm(ctx, experienceID, slots); err != nil {
		logger.WithComponent("booking-service").Warn("failed to refresh availability cache",
			zap.String("experience_id", experienceID.String()), zap.Error(err))
	}
}

func (s *BookingServiceImpl) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	return s.repository.List(ctx)
}

func (s *BookingServiceImpl) GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	return s.repository.FindByBookingID(ctx, bookingID)
}

func (s *BookingServiceImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking, err := s.repository.UpdateStatusWithLock(ctx, tx, bookingID, model.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}

	// hand the reserved quantity back to the slot
	err = s.experienceRepo.IncrementAvailability(ctx, tx, booking.ExperienceID, booking.TimeLabel, booking.Quantity)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.refreshAvailability(context.Background(), booking.ExperienceUUID, booking.ExperienceID)

	return booking, nil
}

func (s *BookingServiceImpl) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking, err := s.repository.UpdateStatusWithLock(ctx, tx, bookingID, model.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return booking, nil
}
