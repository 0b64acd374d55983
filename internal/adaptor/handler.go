package adaptor

import (
	"errors"
	"net/http"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Hotel   *HotelHandler
	Booking *BookingHandler
	Payment *PaymentHandler
	Review  *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Hotel:   NewHotelHandler(service.Hotel, log),
		Booking: NewBookingHandler(service.Booking, log),
		Payment: NewPaymentHandler(service.Payment, log),
		Review:  NewReviewHandler(service.Review, log),
	}
}

// actorFromContext builds the acting identity from the auth middleware's
// context values.
func actorFromContext(r *http.Request) (usecase.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}

	role, _ := utils.GetRoleFromContext(r.Context())
	if role == "" {
		role = "user"
	}

	return usecase.Actor{
		UserID: userID.String(),
		Role:   entity.UserRole(role),
	}, true
}

// handleServiceError maps service error kinds to HTTP responses. All
// services share one taxonomy, so one mapper serves every handler.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrPermission):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrIllegalTransition):
		log.Warn(operation+" failed - invalid state", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrSecurity):
		log.Warn(operation+" failed - signature rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrTransientProvider):
		log.Warn(operation+" failed - provider unavailable", zap.Error(err))
		utils.ResponseBadGateway(w, err.Error())

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
