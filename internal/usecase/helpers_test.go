package usecase

import (
	"context"
	"sync"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/payment"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repositories backing the service tests. All of them copy
// entities on the way in and out so tests observe the same re-read
// semantics as the SQL implementations.

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func copyBooking(b *entity.Booking) *entity.Booking {
	cp := *b
	return &cp
}

func (r *memBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(b), nil
}

func (r *memBookingRepo) FindByIntentID(_ context.Context, intentID string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.PaymentIntentID != nil && *b.PaymentIntentID == intentID {
			return copyBooking(b), nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, copyBooking(b))
		}
	}
	return out, nil
}

func (r *memBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *memBookingRepo) FindAll(_ context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.HotelID != nil && b.HotelID != *filter.HotelID {
			continue
		}
		out = append(out, copyBooking(b))
	}
	return out, nil
}

func (r *memBookingRepo) CountAll(ctx context.Context, filter repository.BookingFilter) (int64, error) {
	all, _ := r.FindAll(ctx, filter, 0, 0)
	return int64(len(all)), nil
}

func (r *memBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (r *memBookingRepo) ExistsOverlapping(_ context.Context, hotelID uuid.UUID, roomType entity.RoomType, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.HotelID != hotelID || b.RoomType != roomType {
			continue
		}
		if b.Status != entity.BookingStatusPending && b.Status != entity.BookingStatusConfirmed {
			continue
		}
		if overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			return true, nil
		}
	}
	return false, nil
}

type memHotelRepo struct {
	mu      sync.Mutex
	hotels  map[uuid.UUID]*entity.Hotel
	ratings map[uuid.UUID]float64
}

func newMemHotelRepo() *memHotelRepo {
	return &memHotelRepo{
		hotels:  make(map[uuid.UUID]*entity.Hotel),
		ratings: make(map[uuid.UUID]float64),
	}
}

func (r *memHotelRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hotels[id]
	if !ok {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

func (r *memHotelRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Hotel
	for _, h := range r.hotels {
		cp := *h
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memHotelRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.hotels)), nil
}

func (r *memHotelRepo) UpdateRating(_ context.Context, hotelID uuid.UUID, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratings[hotelID] = rating
	return nil
}

type memReviewRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*entity.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[uuid.UUID]*entity.Review)}
}

func (r *memReviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *memReviewRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.BookingID == bookingID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memReviewRepo) FindByHotelID(_ context.Context, hotelID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for _, rv := range r.reviews {
		if rv.HotelID == hotelID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memReviewRepo) CountByHotelID(ctx context.Context, hotelID uuid.UUID) (int64, error) {
	all, _ := r.FindByHotelID(ctx, hotelID, 0, 0)
	return int64(len(all)), nil
}

func (r *memReviewRepo) GetHotelAverageRating(ctx context.Context, hotelID uuid.UUID) (float64, int64, error) {
	all, _ := r.FindByHotelID(ctx, hotelID, 0, 0)
	if len(all) == 0 {
		return 0, 0, nil
	}
	var sum int
	for _, rv := range all {
		sum += rv.Rating
	}
	return float64(sum) / float64(len(all)), int64(len(all)), nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// fakeProvider is a scriptable payment provider.
type fakeProvider struct {
	mu      sync.Mutex
	intents map[string]*payment.Intent
	refunds []string

	createCalls int
	failAll     bool
	event       *payment.Event
	badSig      bool

	// Hooks run while the provider call is in flight, before it
	// returns, to interleave racing mutations.
	createHook func()
	refundHook func()
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{intents: make(map[string]*payment.Intent)}
}

func (p *fakeProvider) CreateIntent(_ context.Context, amount float64, currency string, _ map[string]string) (*payment.Intent, error) {
	p.mu.Lock()
	if p.failAll {
		p.mu.Unlock()
		return nil, payment.ErrUnavailable
	}
	p.createCalls++
	intent := &payment.Intent{
		ID:           "pi_" + uuid.NewString()[:8],
		Status:       payment.IntentStatusPending,
		Amount:       amount,
		Currency:     currency,
		ClientSecret: "secret",
	}
	p.intents[intent.ID] = intent
	hook := p.createHook
	p.mu.Unlock()

	if hook != nil {
		hook()
	}
	return intent, nil
}

func (p *fakeProvider) GetIntent(_ context.Context, intentID string) (*payment.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAll {
		return nil, payment.ErrUnavailable
	}
	intent, ok := p.intents[intentID]
	if !ok {
		return nil, payment.ErrUnavailable
	}
	cp := *intent
	return &cp, nil
}

func (p *fakeProvider) CreateRefund(_ context.Context, intentID string, _ *float64) (*payment.Refund, error) {
	p.mu.Lock()
	if p.failAll {
		p.mu.Unlock()
		return nil, payment.ErrUnavailable
	}
	p.refunds = append(p.refunds, intentID)
	hook := p.refundHook
	p.mu.Unlock()

	if hook != nil {
		hook()
	}
	return &payment.Refund{ID: "re_" + uuid.NewString()[:8], Status: "succeeded"}, nil
}

func (p *fakeProvider) VerifyWebhookSignature(_ []byte, _ string) (*payment.Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.badSig || p.event == nil {
		return nil, payment.ErrSignature
	}
	cp := *p.event
	return &cp, nil
}

// setIntentStatus scripts the provider's answer for GetIntent.
func (p *fakeProvider) setIntentStatus(intentID string, status payment.IntentStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if intent, ok := p.intents[intentID]; ok {
		intent.Status = status
	}
}

// countingNotifier records every dispatched notification.
type countingNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (n *countingNotifier) Notify(_ context.Context, kind, _ string, _ map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	return nil
}

func (n *countingNotifier) count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	var c int
	for _, k := range n.kinds {
		if k == kind {
			c++
		}
	}
	return c
}

// testEnv bundles the fakes and services under test.
type testEnv struct {
	repo     *repository.Repository
	bookings *memBookingRepo
	hotels   *memHotelRepo
	reviews  *memReviewRepo
	provider *fakeProvider
	notifier *countingNotifier
	svc      *Service
}

func testConfig() *utils.Config {
	return &utils.Config{
		Payment: utils.PaymentConfig{
			Timeout:  time.Second,
			Currency: "USD",
		},
		Pricing: utils.PricingConfig{
			TaxRate:           0.10,
			ServiceChargeRate: 0.05,
		},
	}
}

func newTestEnv() *testEnv {
	bookings := newMemBookingRepo()
	hotels := newMemHotelRepo()
	reviews := newMemReviewRepo()
	users := newMemUserRepo()

	repo := &repository.Repository{
		User:    users,
		Hotel:   hotels,
		Booking: bookings,
		Review:  reviews,
	}

	provider := newFakeProvider()
	notifier := &countingNotifier{}

	return &testEnv{
		repo:     repo,
		bookings: bookings,
		hotels:   hotels,
		reviews:  reviews,
		provider: provider,
		notifier: notifier,
		svc:      NewService(repo, provider, notifier, testConfig(), zap.NewNop()),
	}
}

// seedHotel registers an active hotel with one double room at 100.00/night.
func (e *testEnv) seedHotel() *entity.Hotel {
	hotel := &entity.Hotel{
		Base:     entity.Base{ID: uuid.New()},
		Name:     "Harbor View",
		IsActive: true,
		Rooms: []entity.Room{
			{Type: entity.RoomTypeDouble, Price: 100.00, Capacity: 3, Available: true},
			{Type: entity.RoomTypeSuite, Price: 250.00, Capacity: 5, Available: true},
		},
	}
	e.hotels.hotels[hotel.ID] = hotel
	return hotel
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}
