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

type HotelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hotel, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Hotel, error)
	CountAll(ctx context.Context) (int64, error)
	UpdateRating(ctx context.Context, hotelID uuid.UUID, rating float64) error
}

type hotelRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHotelRepository(db database.PgxIface, log *zap.Logger) HotelRepository {
	return &hotelRepository{
		db:  db,
		log: log.With(zap.String("repository", "hotel")),
	}
}

const hotelColumns = `
	id, name, description, street, city, state, country, zip_code,
	rating, contact_phone, contact_email, check_in_time, check_out_time,
	is_active, created_at, updated_at`

func scanHotel(row pgx.Row) (*entity.Hotel, error) {
	var h entity.Hotel
	err := row.Scan(
		&h.ID, &h.Name, &h.Description,
		&h.Address.Street, &h.Address.City, &h.Address.State, &h.Address.Country, &h.Address.ZipCode,
		&h.Rating, &h.ContactPhone, &h.ContactEmail, &h.CheckInTime, &h.CheckOutTime,
		&h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *hotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hotel, error) {
	query := `SELECT` + hotelColumns + ` FROM hotels WHERE id = $1`

	hotel, err := scanHotel(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hotel by ID",
			zap.Error(err),
			zap.String("hotel_id", id.String()),
		)
		return nil, fmt.Errorf("find hotel by ID %s: %w", id.String(), err)
	}

	rooms, err := r.findRooms(ctx, id)
	if err != nil {
		return nil, err
	}
	hotel.Rooms = rooms

	return hotel, nil
}

func (r *hotelRepository) findRooms(ctx context.Context, hotelID uuid.UUID) ([]entity.Room, error) {
	query := `
		SELECT id, hotel_id, room_type, price, capacity, available
		FROM rooms
		WHERE hotel_id = $1
		ORDER BY price
	`

	rows, err := r.db.Query(ctx, query, hotelID)
	if err != nil {
		r.log.Error("Failed to find rooms",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return nil, fmt.Errorf("find rooms for hotel %s: %w", hotelID.String(), err)
	}
	defer rows.Close()

	var rooms []entity.Room
	for rows.Next() {
		var room entity.Room
		if err := rows.Scan(&room.ID, &room.HotelID, &room.Type, &room.Price, &room.Capacity, &room.Available); err != nil {
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func (r *hotelRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Hotel, error) {
	query := `
		SELECT` + hotelColumns + `
		FROM hotels
		WHERE is_active = true
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find hotels", zap.Error(err))
		return nil, fmt.Errorf("find hotels: %w", err)
	}
	defer rows.Close()

	var hotels []*entity.Hotel
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hotel row: %w", err)
		}
		hotels = append(hotels, hotel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hotel rows: %w", err)
	}

	for _, hotel := range hotels {
		rooms, err := r.findRooms(ctx, hotel.ID)
		if err != nil {
			return nil, err
		}
		hotel.Rooms = rooms
	}

	return hotels, nil
}

func (r *hotelRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM hotels WHERE is_active = true`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count hotels", zap.Error(err))
		return 0, fmt.Errorf("count hotels: %w", err)
	}

	return count, nil
}

func (r *hotelRepository) UpdateRating(ctx context.Context, hotelID uuid.UUID, rating float64) error {
	query := `UPDATE hotels SET rating = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, hotelID, rating)
	if err != nil {
		r.log.Error("Failed to update hotel rating",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
			zap.Float64("rating", rating),
		)
		return fmt.Errorf("update hotel %s rating: %w", hotelID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("hotel %s not found", hotelID.String())
	}

	return nil
}
