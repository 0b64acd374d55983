package usecase

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := &keyedMutex{}

	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.lock("same")
			counter++
			unlock()
		}()
	}

	wg.Wait()
	assert.Equal(t, 100, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := &keyedMutex{}

	// Holding one key must not block another.
	unlockA := km.lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.lock("b")
		unlockB()
		close(done)
	}()

	<-done
}

func TestLockKeys(t *testing.T) {
	hotelID := uuid.New()
	bookingID := uuid.New()

	assert.NotEqual(t, roomKey(hotelID, "double"), roomKey(hotelID, "suite"))
	assert.NotEqual(t, bookingKey(bookingID), bookingKey(uuid.New()))
	// Room and booking key spaces never collide even for equal ids.
	assert.NotEqual(t, roomKey(hotelID, "double"), bookingKey(hotelID))
}
