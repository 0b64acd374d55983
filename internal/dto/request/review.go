package request

type CreateReviewRequest struct {
	BookingID string  `json:"booking_id" validate:"required,uuid4"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Title     string  `json:"title" validate:"required,max=100"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}
