package request

type GuestDetailsRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,max=30"`
}

type GuestsRequest struct {
	Adults   int `json:"adults" validate:"required,min=1"`
	Children int `json:"children" validate:"min=0"`
}

type CreateBookingRequest struct {
	HotelID         string              `json:"hotel_id" validate:"required,uuid4"`
	RoomType        string              `json:"room_type" validate:"required,oneof=single double suite deluxe"`
	CheckIn         string              `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string              `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests          GuestsRequest       `json:"guests"`
	GuestDetails    GuestDetailsRequest `json:"guest_details"`
	SpecialRequests *string             `json:"special_requests,omitempty" validate:"omitempty,max=500"`
}

type UpdateBookingStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=confirmed cancelled completed"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}
