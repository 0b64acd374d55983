package adaptor

import (
	"encoding/json"
	"net/http"

	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.CreateReview(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// GetHotelReviews handles GET /api/hotels/{id}/reviews (public)
func (h *ReviewHandler) GetHotelReviews(w http.ResponseWriter, r *http.Request) {
	hotelID := chi.URLParam(r, "id")
	if hotelID == "" {
		utils.ResponseBadRequest(w, "Hotel ID is required", nil)
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	reviews, err := h.service.GetHotelReviews(r.Context(), hotelID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get hotel reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetHotelReviewStats handles GET /api/hotels/{id}/reviews/stats (public)
func (h *ReviewHandler) GetHotelReviewStats(w http.ResponseWriter, r *http.Request) {
	hotelID := chi.URLParam(r, "id")
	if hotelID == "" {
		utils.ResponseBadRequest(w, "Hotel ID is required", nil)
		return
	}

	stats, err := h.service.GetHotelReviewStats(r.Context(), hotelID)
	if err != nil {
		handleServiceError(w, h.log, err, "get hotel review stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
