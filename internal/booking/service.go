package booking

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/padelpoint/booking-backend/internal/court"
	"github.com/padelpoint/booking-backend/internal/notify"
	"github.com/padelpoint/booking-backend/internal/pkg/cache"
	"github.com/padelpoint/booking-backend/internal/slot"
)

const availabilityTTL = 30 * time.Second

type CreateRequest struct {
	CourtID       string
	CourtName     string
	CourtType     string
	Date          string
	SlotIDs       []string
	Times         []string
	Price         int
	Name          string
	Email         string
	Phone         string
	PaymentMethod string
}

type Service interface {
	// Availability returns the full slot catalog for a court and date, each
	// slot marked available or not. Read-only and idempotent.
	Availability(ctx context.Context, courtID, date string) ([]slot.Slot, error)

	// Create validates the request, checks for clashes and commits the
	// booking. The whole request is accepted or rejected; no partial slots.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)

	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByEmail(ctx context.Context, email string) ([]*Booking, error)
	List(ctx context.Context, page, pageSize int) ([]*Booking, int, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo    Repository
	catalog *court.Catalog
	window  slot.Window
	mailer  notify.Mailer
	cache   cache.Cache // optional; nil disables availability caching
	logger  zerolog.Logger
}

func NewService(
	repo Repository,
	catalog *court.Catalog,
	window slot.Window,
	mailer notify.Mailer,
	availabilityCache cache.Cache,
	logger zerolog.Logger,
) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		window:  window,
		mailer:  mailer,
		cache:   availabilityCache,
		logger:  logger,
	}
}

func availabilityKey(courtID, date string) string {
	return "availability:" + courtID + ":" + date
}

func (s *service) Availability(ctx context.Context, courtID, date string) ([]slot.Slot, error) {
	if courtID == "" || date == "" {
		return nil, ErrMissingCourtOrDate
	}

	key := availabilityKey(courtID, date)
	if s.cache != nil {
		var cached []slot.Slot
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn().Err(err).Msg("availability cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	booked, err := s.repo.BookedSlotIDs(ctx, courtID, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(booked))
	for _, id := range booked {
		taken[id] = struct{}{}
	}

	slots := slot.Generate(s.window)
	for i := range slots {
		if _, ok := taken[slots[i].ID]; ok {
			slots[i].Available = false
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, slots, availabilityTTL); err != nil {
			s.logger.Warn().Err(err).Msg("availability cache write failed")
		}
	}
	return slots, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	// Pre-check for a friendly conflict error. Correctness does not depend
	// on it: the claim rows' unique constraint decides races at commit time.
	booked, err := s.repo.BookedSlotIDs(ctx, req.CourtID, req.Date)
	if err != nil {
		return nil, err
	}
	for _, taken := range booked {
		for _, requested := range req.SlotIDs {
			if taken == requested {
				return nil, ErrSlotTaken
			}
		}
	}

	b := &Booking{
		CourtID:       req.CourtID,
		CourtName:     req.CourtName,
		CourtType:     req.CourtType,
		Date:          req.Date,
		SlotIDs:       req.SlotIDs,
		Times:         req.Times,
		Price:         req.Price,
		CustomerName:  req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		PaymentMethod: PaymentMethod(req.PaymentMethod),
		Status:        StatusConfirmed,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, b.CourtID, b.Date)

	// Fire-and-forget: mail failures are logged, never surfaced, and never
	// undo the booking.
	go s.sendConfirmations(b)

	return b, nil
}

func (s *service) validate(req CreateRequest) error {
	if req.CourtID == "" || req.CourtName == "" || req.CourtType == "" || req.Date == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return ErrInvalidInput
	}
	if len(req.SlotIDs) == 0 {
		return ErrInvalidInput
	}
	if len(req.Times) != len(req.SlotIDs) {
		return ErrTimesMismatch
	}

	pm := PaymentMethod(req.PaymentMethod)
	if pm != PaymentCard && pm != PaymentCash {
		return ErrInvalidPayment
	}

	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return ErrInvalidInput
		}
	}

	if _, err := s.catalog.Get(req.CourtID); err != nil {
		return ErrCourtNotFound
	}

	seen := make(map[string]struct{}, len(req.SlotIDs))
	for _, id := range req.SlotIDs {
		if !s.window.Contains(id) {
			return ErrUnknownSlot
		}
		if _, dup := seen[id]; dup {
			return ErrInvalidInput
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (s *service) sendConfirmations(b *Booking) {
	params := notify.BookingParams{
		BookingID: b.ID,
		CourtName: b.CourtName,
		CourtType: b.CourtType,
		Date:      b.Date,
		Times:     b.Times,
		SlotIDs:   b.SlotIDs,
		Price:     b.Price,
		Name:      b.CustomerName,
		Email:     b.Email,
		Phone:     b.Phone,
	}

	if err := s.mailer.SendAdminAlert(params); err != nil {
		s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("admin booking alert failed")
	}
	if err := s.mailer.SendBookingConfirmation(params); err != nil {
		s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("customer confirmation failed")
	}
}

func (s *service) invalidateAvailability(ctx context.Context, courtID, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, availabilityKey(courtID, date)); err != nil {
		s.logger.Warn().Err(err).Msg("availability cache invalidation failed")
	}
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	return s.repo.ListByEmail(ctx, email)
}

func (s *service) List(ctx context.Context, page, pageSize int) ([]*Booking, int, error) {
	return s.repo.List(ctx, page, pageSize)
}

func (s *service) Delete(ctx context.Context, id string) error {
	// Fetch first so the right availability entry can be invalidated.
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateAvailability(ctx, b.CourtID, b.Date)
	return nil
}
