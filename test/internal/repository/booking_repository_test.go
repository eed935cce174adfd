package repository

import (
	"context"
	"testing"

	"github.com/omegaopinmthechat/highwaydelite/internal/model"
	"github.com/omegaopinmthechat/highwaydelite/internal/repository"
	apperrors "github.com/omegaopinmthechat/highwaydelite/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingRepositoryCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ctx := context.Background()
		repo := repository.NewBookingRepository(getTestDB())

		expID, _ := createTestExperience(t, "Kayak Tour", 100)

		tx, err := getTestDB().Begin(ctx)
		require.NoError(t, err)

		booking := &model.Booking{
			ExperienceID:    expID,
			ExperienceTitle: "Kayak Tour",
			DateLabel:       "2025-07-12",
			TimeLabel:       "10:00",
			Quantity:        2,
			Subtotal:        200,
			Taxes:           10,
			Total:           210,
			CustomerInfo:    model.CustomerInfo{FullName: "Asha Rao", Email: "asha@test.com"},
			Status:          model.BookingStatusConfirmed,
		}

		created, err := repo.Create(ctx, tx, booking)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		assert.NotZero(t, created.ID)
		assert.NotEqual(t, uuid.Nil, created.BookingID)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("KeepsProvidedBookingID", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ctx := context.Background()
		repo := repository.NewBookingRepository(getTestDB())

		expID, _ := createTestExperience(t, "Kayak Tour", 100)

		tx, err := getTestDB().Begin(ctx)
		require.NoError(t, err)

		wanted := uuid.New()
		booking := &model.Booking{
			BookingID:       wanted,
			ExperienceID:    expID,
			ExperienceTitle: "Kayak Tour",
			DateLabel:       "2025-07-12",
			TimeLabel:       "10:00",
			Quantity:        1,
			Subtotal:        100,
			Taxes:           5,
			Total:           105,
			CustomerInfo:    model.CustomerInfo{FullName: "Asha Rao", Email: "asha@test.com"},
			Status:          model.BookingStatusConfirmed,
		}

		created, err := repo.Create(ctx, tx, booking)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		assert.Equal(t, wanted, created.BookingID)
	})
}

func TestBookingRepositoryFind(t *testing.T) {
	t.Run("FindByBookingID", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ctx := context.Background()
		repo := repository.NewBookingRepository(getTestDB())

		expID, expUUID := createTestExperience(t, "Kayak Tour", 100)
		bookingID := createTestBooking(t, expID, "Kayak Tour", "10:00", 2, model.BookingStatusConfirmed)

		found, err := repo.FindByBookingID(ctx, bookingID)
		require.NoError(t, err)

		assert.Equal(t, bookingID, found.BookingID)
		// the public experience id is joined in, the serial id stays internal
		assert.Equal(t, expUUID, found.ExperienceUUID)
		assert.Equal(t, "Test Customer", found.CustomerInfo.FullName)
	})

	t.Run("FindByBookingID - NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		repo := repository.NewBookingRepository(getTestDB())

		_, err := repo.FindByBookingID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	})

	t.Run("List", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ctx := context.Background()
		repo := repository.NewBookingRepository(getTestDB())

		expID, _ := createTestExperience(t, "Kayak Tour", 100)
		createTestBooking(t, expID, "Kayak Tour", "10:00", 1, model.BookingStatusConfirmed)
		createTestBooking(t, expID, "Kayak Tour", "17:00", 2, model.BookingStatusCancelled)

		bookings, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
	})

	t.Run("FindByExperienceID", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ctx := context.Background()
		repo := repository.NewBookingRepository(getTestDB())

		firstID, _ := createTestExperience(t, "First", 100)
		secondID, _ := createTestExperience(t, "Second", 100)
		createTestBooking(t, firstID, "First", "10:00", 1, model.BookingStatusConfirmed)
		createTestBooking(t, secondID, "Second", "10:00", 1, model.BookingStatusConfirmed)

		bookings, err := repo.FindByExperienceID(ctx, firstID)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, "First", bookings[0].ExperienceTitle)
	})
}

func TestBookingRepositoryUpdateStatus(t *testing.T) {
	t.Run("Success - ConfirmedToCancelled", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ctx := context.Background()
		repo := repository.NewBookingRepository(getTestDB())

		expID, _ := createTestExperience(t, "Kayak Tour", 100)
		bookingID := createTestBooking(t, expID, "Kayak Tour", "10:00", 1, model.BookingStatusConfirmed)

		tx, err := getTestDB().Begin(ctx)
		require.NoError(t, err)

		updated, err := repo.UpdateStatusWithLock(ctx, tx, bookingID, model.BookingStatusCancelled)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		assert.Equal(t, model.BookingStatusCancelled, updated.Status)
	})

	t.Run("Failed - CancelledIsTerminal", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		ctx := context.Background()
		repo := repository.NewBookingRepository(getTestDB())

		expID, _ := createTestExperience(t, "Kayak Tour", 100)
		bookingID := createTestBooking(t, expID, "Kayak Tour", "10:00", 1, model.BookingStatusCancelled)

		tx, rollback := setupTestWithTransaction(t)
		defer rollback()

		_, err := repo.UpdateStatusWithLock(ctx, tx, bookingID, model.BookingStatusCompleted)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		repo := repository.NewBookingRepository(getTestDB())

		tx, rollback := setupTestWithTransaction(t)
		defer rollback()

		_, err := repo.UpdateStatusWithLock(context.Background(), tx, uuid.New(), model.BookingStatusCancelled)
		assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	})
}
