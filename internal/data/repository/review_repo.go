package repository

import (
	"context"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error)
	FindByHotelID(ctx context.Context, hotelID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountByHotelID(ctx context.Context, hotelID uuid.UUID) (int64, error)

	// GetHotelAverageRating returns the running average and review count.
	GetHotelAverageRating(ctx context.Context, hotelID uuid.UUID) (float64, int64, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, hotel_id, booking_id, rating, title, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.HotelID,
		review.BookingID,
		review.Rating,
		review.Title,
		review.Comment,
		review.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("hotel_id", review.HotelID.String()),
		)
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, user_id, hotel_id, booking_id, rating, title, comment, created_at
		FROM reviews
		WHERE booking_id = $1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&review.ID,
		&review.UserID,
		&review.HotelID,
		&review.BookingID,
		&review.Rating,
		&review.Title,
		&review.Comment,
		&review.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find review by booking ID %s: %w", bookingID.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) FindByHotelID(ctx context.Context, hotelID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT id, user_id, hotel_id, booking_id, rating, title, comment, created_at
		FROM reviews
		WHERE hotel_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, hotelID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by hotel ID",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return nil, fmt.Errorf("find reviews by hotel ID %s: %w", hotelID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		var review entity.Review
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.HotelID,
			&review.BookingID,
			&review.Rating,
			&review.Title,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}

func (r *reviewRepository) CountByHotelID(ctx context.Context, hotelID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE hotel_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, hotelID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews by hotel ID",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return 0, fmt.Errorf("count reviews by hotel ID %s: %w", hotelID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) GetHotelAverageRating(ctx context.Context, hotelID uuid.UUID) (float64, int64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE hotel_id = $1
	`

	var avg float64
	var count int64
	if err := r.db.QueryRow(ctx, query, hotelID).Scan(&avg, &count); err != nil {
		r.log.Error("Failed to get hotel average rating",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return 0, 0, fmt.Errorf("get hotel %s average rating: %w", hotelID.String(), err)
	}

	return avg, count, nil
}
