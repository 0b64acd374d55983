package usecase

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, actor Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetHotelReviews(ctx context.Context, hotelID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetHotelReviewStats(ctx context.Context, hotelID string) (*response.HotelReviewStats, error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger

	now func() time.Time
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
		now:  time.Now,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, actor Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, NewValidationError("booking_id", "invalid booking ID format")
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, ErrNotFound)
	}
	if booking.UserID.String() != actor.UserID {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, ErrPermission)
	}

	// Only a completed stay or a confirmed booking past its checkout may
	// be reviewed.
	now := s.now()
	reviewable := booking.Status == entity.BookingStatusCompleted ||
		(booking.Status == entity.BookingStatusConfirmed && !booking.CheckOut.After(now))
	if !reviewable {
		return nil, fmt.Errorf("booking %s is not completed: %w", req.BookingID, ErrIllegalTransition)
	}

	existing, err := s.repo.Review.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("booking %s already reviewed: %w", req.BookingID, ErrConflict)
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    booking.UserID,
		HotelID:   booking.HotelID,
		BookingID: booking.ID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	// Recompute the hotel's average from the store rather than adjusting
	// incrementally, so a concurrent insert cannot skew it.
	avg, count, err := s.repo.Review.GetHotelAverageRating(ctx, booking.HotelID)
	if err != nil {
		s.log.Warn("Failed to recompute hotel rating",
			zap.Error(err),
			zap.String("hotel_id", booking.HotelID.String()),
		)
	} else if err := s.repo.Hotel.UpdateRating(ctx, booking.HotelID, avg); err != nil {
		s.log.Warn("Failed to update hotel rating",
			zap.Error(err),
			zap.String("hotel_id", booking.HotelID.String()),
		)
	} else {
		s.log.Info("Hotel rating updated",
			zap.String("hotel_id", booking.HotelID.String()),
			zap.Float64("average_rating", avg),
			zap.Int64("review_count", count),
		)
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetHotelReviews(ctx context.Context, hotelID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	id, err := uuid.Parse(hotelID)
	if err != nil {
		return nil, NewValidationError("hotel_id", "invalid hotel ID format")
	}

	reviews, err := s.repo.Review.FindByHotelID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get hotel reviews: %w", err)
	}

	total, err := s.repo.Review.CountByHotelID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count hotel reviews: %w", err)
	}

	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		reviewResponses[i] = response.ReviewToResponse(review)
	}

	return response.NewPaginatedResponse(reviewResponses, req.Page, req.PerPage, total), nil
}

func (s *reviewService) GetHotelReviewStats(ctx context.Context, hotelID string) (*response.HotelReviewStats, error) {
	id, err := uuid.Parse(hotelID)
	if err != nil {
		return nil, NewValidationError("hotel_id", "invalid hotel ID format")
	}

	avg, count, err := s.repo.Review.GetHotelAverageRating(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get hotel review stats: %w", err)
	}

	return &response.HotelReviewStats{
		HotelID:       hotelID,
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}
