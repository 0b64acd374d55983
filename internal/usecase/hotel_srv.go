package usecase

import (
	"context"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HotelService is the thin catalog collaborator. Search and filtering
// live elsewhere; the booking core only needs rate lookups and listings.
type HotelService interface {
	GetHotels(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.HotelResponse], error)
	GetHotelByID(ctx context.Context, hotelID string) (*response.HotelResponse, error)

	// GetRoomRate returns the priced room category of an active hotel.
	GetRoomRate(ctx context.Context, hotelID uuid.UUID, roomType entity.RoomType) (*entity.Room, error)
}

type hotelService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewHotelService(repo *repository.Repository, log *zap.Logger) HotelService {
	return &hotelService{
		repo: repo,
		log:  log.With(zap.String("service", "hotel")),
	}
}

func (s *hotelService) GetHotels(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.HotelResponse], error) {
	hotels, err := s.repo.Hotel.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get hotels", zap.Error(err))
		return nil, fmt.Errorf("get hotels: %w", err)
	}

	total, err := s.repo.Hotel.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count hotels", zap.Error(err))
		return nil, fmt.Errorf("count hotels: %w", err)
	}

	hotelResponses := make([]response.HotelResponse, len(hotels))
	for i, hotel := range hotels {
		hotelResponses[i] = response.HotelToResponse(hotel)
	}

	return response.NewPaginatedResponse(hotelResponses, req.Page, req.PerPage, total), nil
}

func (s *hotelService) GetHotelByID(ctx context.Context, hotelID string) (*response.HotelResponse, error) {
	id, err := uuid.Parse(hotelID)
	if err != nil {
		return nil, NewValidationError("hotel_id", "invalid hotel ID format")
	}

	hotel, err := s.repo.Hotel.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get hotel: %w", err)
	}
	if hotel == nil || !hotel.IsActive {
		return nil, fmt.Errorf("hotel %s: %w", hotelID, ErrNotFound)
	}

	resp := response.HotelToResponse(hotel)
	return &resp, nil
}

func (s *hotelService) GetRoomRate(ctx context.Context, hotelID uuid.UUID, roomType entity.RoomType) (*entity.Room, error) {
	hotel, err := s.repo.Hotel.FindByID(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("get hotel: %w", err)
	}
	if hotel == nil || !hotel.IsActive {
		return nil, fmt.Errorf("hotel %s: %w", hotelID.String(), ErrNotFound)
	}

	room := hotel.RoomByType(roomType)
	if room == nil || !room.Available {
		return nil, fmt.Errorf("room type %s not available at hotel %s: %w", roomType, hotelID.String(), ErrNotFound)
	}

	return room, nil
}
