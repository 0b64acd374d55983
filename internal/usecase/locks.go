package usecase

import (
	"sync"

	"github.com/google/uuid"
	"hotel-booking/internal/data/entity"
)

// keyedMutex serializes work per key. Create uses it keyed by
// (hotel, room type) around the conflict-check-then-insert step;
// reconciliation and status changes use it keyed by booking id.
// Entries are never evicted; the key space is bounded by the number of
// room categories and live bookings handled by one process.
type keyedMutex struct {
	mu sync.Map // key -> *sync.Mutex
}

// lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) lock(key string) func() {
	v, _ := k.mu.LoadOrStore(key, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func roomKey(hotelID uuid.UUID, roomType entity.RoomType) string {
	return hotelID.String() + "|" + string(roomType)
}

func bookingKey(id uuid.UUID) string {
	return "booking|" + id.String()
}
