package adaptor

import (
	"net/http"

	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type HotelHandler struct {
	service usecase.HotelService
	log     *zap.Logger
}

func NewHotelHandler(service usecase.HotelService, log *zap.Logger) *HotelHandler {
	return &HotelHandler{
		service: service,
		log:     log.With(zap.String("handler", "hotel")),
	}
}

// GetHotels handles GET /api/hotels (public)
func (h *HotelHandler) GetHotels(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	hotels, err := h.service.GetHotels(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get hotels")
		return
	}

	utils.ResponseSuccess(w, "success", hotels)
}

// GetHotelByID handles GET /api/hotels/{id} (public)
func (h *HotelHandler) GetHotelByID(w http.ResponseWriter, r *http.Request) {
	hotelID := chi.URLParam(r, "id")
	if hotelID == "" {
		utils.ResponseBadRequest(w, "Hotel ID is required", nil)
		return
	}

	hotel, err := h.service.GetHotelByID(r.Context(), hotelID)
	if err != nil {
		handleServiceError(w, h.log, err, "get hotel by ID")
		return
	}

	utils.ResponseSuccess(w, "success", hotel)
}
