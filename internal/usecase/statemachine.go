package usecase

import (
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
)

// Actor identifies who is requesting a booking mutation.
type Actor struct {
	UserID string
	Role   entity.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// CanTransition is the pure guard for booking status changes.
//
//	pending   -> confirmed  admin only (the ordinary path to confirmed is
//	                        payment success, applied by reconciliation)
//	pending   -> cancelled  owner or admin
//	confirmed -> cancelled  owner or admin
//	confirmed -> completed  admin (scheduled job runs as admin)
//
// completed and cancelled are terminal.
func CanTransition(current, requested entity.BookingStatus, actor Actor, isOwner bool) error {
	if current.IsTerminal() {
		return fmt.Errorf("cannot modify %s booking: %w", current, ErrIllegalTransition)
	}

	switch requested {
	case entity.BookingStatusConfirmed:
		if current != entity.BookingStatusPending {
			return fmt.Errorf("cannot confirm %s booking: %w", current, ErrIllegalTransition)
		}
		if !actor.IsAdmin() {
			return fmt.Errorf("only admin can confirm bookings: %w", ErrPermission)
		}
		return nil

	case entity.BookingStatusCancelled:
		if !isOwner && !actor.IsAdmin() {
			return fmt.Errorf("cancel booking: %w", ErrPermission)
		}
		return nil

	case entity.BookingStatusCompleted:
		if current != entity.BookingStatusConfirmed {
			return fmt.Errorf("cannot complete %s booking: %w", current, ErrIllegalTransition)
		}
		if !actor.IsAdmin() {
			return fmt.Errorf("only admin can complete bookings: %w", ErrPermission)
		}
		return nil

	default:
		return fmt.Errorf("unknown status %q: %w", requested, ErrIllegalTransition)
	}
}

// ApplyTransition mutates the booking status after the guard has passed,
// stamping the cancellation fields when entering cancelled.
func ApplyTransition(b *entity.Booking, requested entity.BookingStatus, reason string, now time.Time) {
	b.Status = requested
	b.UpdatedAt = now

	if requested == entity.BookingStatusCancelled {
		if reason == "" {
			reason = "Cancelled by user"
		}
		b.CancellationReason = &reason
		b.CancellationDate = &now
	}
}
