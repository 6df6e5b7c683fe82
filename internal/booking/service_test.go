package booking_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/padelpoint/booking-backend/internal/booking"
	"github.com/padelpoint/booking-backend/internal/court"
	"github.com/padelpoint/booking-backend/internal/notify"
	"github.com/padelpoint/booking-backend/internal/pkg/cache"
	"github.com/padelpoint/booking-backend/internal/slot"
)

// fakeRepo is an in-memory Repository that mirrors the claim-table
// semantics: a create either claims every slot or nothing.
type fakeRepo struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*booking.Booking
	claims   map[string]string // court|date|slot -> booking ID
	failWith error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: make(map[string]*booking.Booking),
		claims:   make(map[string]string),
	}
}

func claimKey(courtID, date, slotID string) string {
	return courtID + "|" + date + "|" + slotID
}

func (r *fakeRepo) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}
	for _, slotID := range b.SlotIDs {
		if _, taken := r.claims[claimKey(b.CourtID, b.Date, slotID)]; taken {
			return booking.ErrSlotTaken
		}
	}

	r.seq++
	b.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", r.seq)
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	r.bookings[b.ID] = b

	for _, slotID := range b.SlotIDs {
		r.claims[claimKey(b.CourtID, b.Date, slotID)] = b.ID
	}
	return nil
}

func (r *fakeRepo) BookedSlotIDs(_ context.Context, courtID, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}
	var ids []string
	prefix := courtID + "|" + date + "|"
	for key := range r.claims {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			ids = append(ids, key[len(prefix):])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return b, nil
}

func (r *fakeRepo) ListByEmail(_ context.Context, email string) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.Email == email {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) List(_ context.Context, _, _ int) ([]*booking.Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*booking.Booking
	for _, b := range r.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return booking.ErrNotFound
	}
	delete(r.bookings, id)
	for _, slotID := range b.SlotIDs {
		delete(r.claims, claimKey(b.CourtID, b.Date, slotID))
	}
	return nil
}

// recordingMailer captures sends and signals each one on a channel so tests
// can wait for the fire-and-forget goroutine.
type recordingMailer struct {
	mu     sync.Mutex
	sent   []notify.BookingParams
	failed error
	done   chan struct{}
}

func newRecordingMailer(failWith error) *recordingMailer {
	return &recordingMailer{failed: failWith, done: make(chan struct{}, 4)}
}

func (m *recordingMailer) SendBookingConfirmation(p notify.BookingParams) error {
	m.mu.Lock()
	m.sent = append(m.sent, p)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.failed
}

func (m *recordingMailer) SendAdminAlert(p notify.BookingParams) error {
	m.done <- struct{}{}
	return m.failed
}

func (m *recordingMailer) SendContactMessage(notify.ContactMessage) error { return m.failed }

func (m *recordingMailer) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for mail send %d", i+1)
		}
	}
}

// fakeCache is an in-memory Cache that records deletions and can fail reads.
type fakeCache struct {
	mu      sync.Mutex
	store   map[string][]byte
	deleted []string
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, value any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, value)
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.store[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.store, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func newTestService(repo booking.Repository, mailer notify.Mailer) booking.Service {
	return newCachedTestService(repo, mailer, nil)
}

func newCachedTestService(repo booking.Repository, mailer notify.Mailer, c cache.Cache) booking.Service {
	return booking.NewService(
		repo,
		court.NewCatalog(court.DefaultCourts),
		slot.DefaultWindow,
		mailer,
		c,
		zerolog.Nop(),
	)
}

func validRequest() booking.CreateRequest {
	return booking.CreateRequest{
		CourtID:       "court-1",
		CourtName:     "Singles Court",
		CourtType:     "Singles",
		Date:          "2025-06-01",
		SlotIDs:       []string{"slot-10", "slot-11"},
		Times:         []string{"15:00 - 16:00", "16:00 - 17:00"},
		Price:         2400,
		Name:          "A",
		Phone:         "9991112222",
		PaymentMethod: "cash",
	}
}

func TestCreateBooking(t *testing.T) {
	repo := newFakeRepo()
	mailer := newRecordingMailer(nil)
	svc := newTestService(repo, mailer)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotEmpty(t, b.ID)
	require.Equal(t, booking.StatusConfirmed, b.Status)
	require.Equal(t, []string{"slot-10", "slot-11"}, b.SlotIDs)

	saved, err := svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, saved.ID)

	mailer.wait(t, 2)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*booking.CreateRequest)
		wantErr error
	}{
		{"missing court id", func(r *booking.CreateRequest) { r.CourtID = "" }, booking.ErrInvalidInput},
		{"missing court name", func(r *booking.CreateRequest) { r.CourtName = "" }, booking.ErrInvalidInput},
		{"missing court type", func(r *booking.CreateRequest) { r.CourtType = "" }, booking.ErrInvalidInput},
		{"missing date", func(r *booking.CreateRequest) { r.Date = "" }, booking.ErrInvalidInput},
		{"blank name", func(r *booking.CreateRequest) { r.Name = "   " }, booking.ErrInvalidInput},
		{"blank phone", func(r *booking.CreateRequest) { r.Phone = "" }, booking.ErrInvalidInput},
		{"empty slots", func(r *booking.CreateRequest) { r.SlotIDs = nil; r.Times = nil }, booking.ErrInvalidInput},
		{"times shorter than slots", func(r *booking.CreateRequest) { r.Times = r.Times[:1] }, booking.ErrTimesMismatch},
		{"times longer than slots", func(r *booking.CreateRequest) {
			r.Times = append(r.Times, "17:00 - 18:00")
		}, booking.ErrTimesMismatch},
		{"bad payment method", func(r *booking.CreateRequest) { r.PaymentMethod = "crypto" }, booking.ErrInvalidPayment},
		{"bad email", func(r *booking.CreateRequest) { r.Email = "not-an-email" }, booking.ErrInvalidInput},
		{"unknown court", func(r *booking.CreateRequest) { r.CourtID = "court-99" }, booking.ErrCourtNotFound},
		{"unknown slot", func(r *booking.CreateRequest) {
			r.SlotIDs = []string{"slot-99"}
			r.Times = []string{"16:00 - 17:00"}
		}, booking.ErrUnknownSlot},
		{"duplicate slot", func(r *booking.CreateRequest) {
			r.SlotIDs = []string{"slot-10", "slot-10"}
			r.Times = []string{"15:00 - 16:00", "15:00 - 16:00"}
		}, booking.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(repo, notify.NoopMailer{})

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)
			require.Empty(t, repo.bookings, "nothing may be persisted on validation failure")
		})
	}
}

func TestCreateClashIsAllOrNothing(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, notify.NoopMailer{})
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	// slot-11 is taken; the whole request including free slot-12 must fail.
	second := validRequest()
	second.SlotIDs = []string{"slot-11", "slot-12"}
	second.Times = []string{"16:00 - 17:00", "17:00 - 18:00"}

	_, err = svc.Create(ctx, second)
	require.ErrorIs(t, err, booking.ErrSlotTaken)

	slots, err := svc.Availability(ctx, "court-1", "2025-06-01")
	require.NoError(t, err)
	require.True(t, slotAvailable(slots, "slot-12"), "slot-12 must remain unbooked after a rejected request")
}

func TestAvailabilityReflectsLedger(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, notify.NoopMailer{})
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	slots, err := svc.Availability(ctx, "court-1", "2025-06-01")
	require.NoError(t, err)
	require.Len(t, slots, 17)
	for _, s := range slots {
		if s.ID == "slot-10" || s.ID == "slot-11" {
			require.False(t, s.Available, "%s must be unavailable", s.ID)
		} else {
			require.True(t, s.Available, "%s must be available", s.ID)
		}
	}

	// A different date is untouched.
	otherDate, err := svc.Availability(ctx, "court-1", "2025-06-02")
	require.NoError(t, err)
	for _, s := range otherDate {
		require.True(t, s.Available)
	}

	// A different court on the same date is untouched.
	otherCourt, err := svc.Availability(ctx, "court-2", "2025-06-01")
	require.NoError(t, err)
	for _, s := range otherCourt {
		require.True(t, s.Available)
	}
}

func TestAvailabilityIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, notify.NoopMailer{})
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	first, err := svc.Availability(ctx, "court-1", "2025-06-01")
	require.NoError(t, err)
	second, err := svc.Availability(ctx, "court-1", "2025-06-01")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAvailabilityRequiresCourtAndDate(t *testing.T) {
	svc := newTestService(newFakeRepo(), notify.NoopMailer{})

	_, err := svc.Availability(context.Background(), "", "2025-06-01")
	require.ErrorIs(t, err, booking.ErrMissingCourtOrDate)

	_, err = svc.Availability(context.Background(), "court-1", "")
	require.ErrorIs(t, err, booking.ErrMissingCourtOrDate)
}

func TestDeleteFreesSlots(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, notify.NoopMailer{})
	ctx := context.Background()

	b, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, b.ID))

	slots, err := svc.Availability(ctx, "court-1", "2025-06-01")
	require.NoError(t, err)
	require.True(t, slotAvailable(slots, "slot-10"))
	require.True(t, slotAvailable(slots, "slot-11"))

	// Re-booking the freed slots works.
	_, err = svc.Create(ctx, validRequest())
	require.NoError(t, err)
}

func TestDeleteNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), notify.NoopMailer{})

	err := svc.Delete(context.Background(), "00000000-0000-0000-0000-000000000099")
	require.ErrorIs(t, err, booking.ErrNotFound)
}

func TestMailFailureDoesNotFailBooking(t *testing.T) {
	repo := newFakeRepo()
	mailer := newRecordingMailer(fmt.Errorf("smtp down"))
	svc := newTestService(repo, mailer)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	mailer.wait(t, 2)

	// The booking stays committed even though both sends failed.
	saved, err := svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	require.Equal(t, booking.StatusConfirmed, saved.Status)
}

func TestListByEmailNewestFirst(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, notify.NoopMailer{})
	ctx := context.Background()

	first := validRequest()
	first.Email = "a@example.com"
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	second := validRequest()
	second.Email = "a@example.com"
	second.Date = "2025-06-02"
	createdSecond, err := svc.Create(ctx, second)
	require.NoError(t, err)

	// Force distinct timestamps in the fake.
	repo.mu.Lock()
	repo.bookings[createdSecond.ID].CreatedAt = repo.bookings[createdSecond.ID].CreatedAt.Add(time.Second)
	repo.mu.Unlock()

	list, err := svc.ListByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, createdSecond.ID, list[0].ID)
}

func slotAvailable(slots []slot.Slot, id string) bool {
	for _, s := range slots {
		if s.ID == id {
			return s.Available
		}
	}
	return false
}

func TestCreateInvalidatesAvailabilityCache(t *testing.T) {
	repo := newFakeRepo()
	cached := newFakeCache()
	svc := newCachedTestService(repo, notify.NoopMailer{}, cached)
	ctx := context.Background()

	// Warm the cache with the untouched catalog.
	_, err := svc.Availability(ctx, "court-1", "2025-06-01")
	require.NoError(t, err)

	_, err = svc.Create(ctx, validRequest())
	require.NoError(t, err)
	require.Contains(t, cached.deleted, "availability:court-1:2025-06-01")

	// The next read misses the cache and reflects the new booking.
	slots, err := svc.Availability(ctx, "court-1", "2025-06-01")
	require.NoError(t, err)
	require.False(t, slotAvailable(slots, "slot-10"))
	require.False(t, slotAvailable(slots, "slot-11"))
}

func TestDeleteInvalidatesAvailabilityCache(t *testing.T) {
	repo := newFakeRepo()
	cached := newFakeCache()
	svc := newCachedTestService(repo, notify.NoopMailer{}, cached)
	ctx := context.Background()

	b, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	// Warm the cache with the booked state.
	_, err = svc.Availability(ctx, "court-1", "2025-06-01")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, b.ID))
	require.Contains(t, cached.deleted, "availability:court-1:2025-06-01")

	slots, err := svc.Availability(ctx, "court-1", "2025-06-01")
	require.NoError(t, err)
	require.True(t, slotAvailable(slots, "slot-10"))
	require.True(t, slotAvailable(slots, "slot-11"))
}

func TestAvailabilityCacheReadErrorFallsThrough(t *testing.T) {
	repo := newFakeRepo()
	cached := newFakeCache()
	cached.getErr = fmt.Errorf("redis down")
	svc := newCachedTestService(repo, notify.NoopMailer{}, cached)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	slots, err := svc.Availability(ctx, "court-1", "2025-06-01")
	require.NoError(t, err)
	require.Len(t, slots, 17)
	require.False(t, slotAvailable(slots, "slot-10"))
}
