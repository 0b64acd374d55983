package usecase

import (
	"context"
	"testing"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completedBooking drives a booking to completed through the admin path.
func completedBooking(t *testing.T, env *testEnv, owner Actor, hotelID uuid.UUID, inDays, outDays int) *response.BookingResponse {
	t.Helper()
	ctx := context.Background()
	admin := Actor{UserID: uuid.NewString(), Role: entity.RoleAdmin}

	booking, err := env.svc.Booking.CreateBooking(ctx, owner, validBookingRequest(hotelID.String(), inDays, outDays))
	require.NoError(t, err)

	_, err = env.svc.Booking.UpdateBookingStatus(ctx, admin, booking.ID, &request.UpdateBookingStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	done, err := env.svc.Booking.UpdateBookingStatus(ctx, admin, booking.ID, &request.UpdateBookingStatusRequest{Status: "completed"})
	require.NoError(t, err)

	return done
}

func TestCreateReview(t *testing.T) {
	env := newTestEnv()
	hotel := env.seedHotel()
	owner := Actor{UserID: uuid.NewString(), Role: entity.RoleUser}
	ctx := context.Background()

	booking := completedBooking(t, env, owner, hotel.ID, 10, 13)

	review, err := env.svc.Review.CreateReview(ctx, owner, &request.CreateReviewRequest{
		BookingID: booking.ID,
		Rating:    4,
		Title:     "Great stay",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, hotel.ID.String(), review.HotelID)

	// The hotel's running average was recomputed from the store.
	assert.Equal(t, 4.0, env.hotels.ratings[hotel.ID])
}

func TestCreateReviewOncePerBooking(t *testing.T) {
	env := newTestEnv()
	hotel := env.seedHotel()
	owner := Actor{UserID: uuid.NewString(), Role: entity.RoleUser}
	ctx := context.Background()

	booking := completedBooking(t, env, owner, hotel.ID, 10, 13)

	_, err := env.svc.Review.CreateReview(ctx, owner, &request.CreateReviewRequest{
		BookingID: booking.ID,
		Rating:    5,
		Title:     "First",
	})
	require.NoError(t, err)

	_, err = env.svc.Review.CreateReview(ctx, owner, &request.CreateReviewRequest{
		BookingID: booking.ID,
		Rating:    1,
		Title:     "Second",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateReviewRequiresCompletedStay(t *testing.T) {
	env := newTestEnv()
	hotel := env.seedHotel()
	owner := Actor{UserID: uuid.NewString(), Role: entity.RoleUser}
	ctx := context.Background()

	booking, err := env.svc.Booking.CreateBooking(ctx, owner, validBookingRequest(hotel.ID.String(), 10, 13))
	require.NoError(t, err)

	_, err = env.svc.Review.CreateReview(ctx, owner, &request.CreateReviewRequest{
		BookingID: booking.ID,
		Rating:    5,
		Title:     "Too early",
	})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCreateReviewOwnerOnly(t *testing.T) {
	env := newTestEnv()
	hotel := env.seedHotel()
	owner := Actor{UserID: uuid.NewString(), Role: entity.RoleUser}
	ctx := context.Background()

	booking := completedBooking(t, env, owner, hotel.ID, 10, 13)

	stranger := Actor{UserID: uuid.NewString(), Role: entity.RoleUser}
	_, err := env.svc.Review.CreateReview(ctx, stranger, &request.CreateReviewRequest{
		BookingID: booking.ID,
		Rating:    5,
		Title:     "Not my stay",
	})
	assert.ErrorIs(t, err, ErrPermission)
}

func TestHotelReviewStats(t *testing.T) {
	env := newTestEnv()
	hotel := env.seedHotel()
	ctx := context.Background()

	ratings := []int{5, 3}
	for i, rating := range ratings {
		owner := Actor{UserID: uuid.NewString(), Role: entity.RoleUser}
		booking := completedBooking(t, env, owner, hotel.ID, 10+i*10, 13+i*10)

		_, err := env.svc.Review.CreateReview(ctx, owner, &request.CreateReviewRequest{
			BookingID: booking.ID,
			Rating:    rating,
			Title:     "Stay",
		})
		require.NoError(t, err)
	}

	stats, err := env.svc.Review.GetHotelReviewStats(ctx, hotel.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 4.0, stats.AverageRating)
	assert.Equal(t, int64(2), stats.ReviewCount)

	reviews, err := env.svc.Review.GetHotelReviews(ctx, hotel.ID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, reviews.Data, 2)
	assert.Equal(t, int64(2), reviews.Pagination.Total)
}
