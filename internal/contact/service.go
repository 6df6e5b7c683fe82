package contact

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/padelpoint/booking-backend/internal/notify"
	"github.com/padelpoint/booking-backend/internal/pkg/apperror"
)

var ErrMissingFields = apperror.New(http.StatusBadRequest, "name, email and message are required")

type Message struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Service relays contact-form submissions to the admin inbox. Unlike
// booking confirmations, the send here is the whole operation, so failures
// are surfaced to the caller.
type Service interface {
	Send(ctx context.Context, msg Message) error
}

type service struct {
	mailer notify.Mailer
}

func NewService(mailer notify.Mailer) Service {
	return &service{mailer: mailer}
}

func (s *service) Send(_ context.Context, msg Message) error {
	if strings.TrimSpace(msg.Name) == "" || strings.TrimSpace(msg.Email) == "" || strings.TrimSpace(msg.Message) == "" {
		return ErrMissingFields
	}

	err := s.mailer.SendContactMessage(notify.ContactMessage{
		Name:    msg.Name,
		Email:   msg.Email,
		Phone:   msg.Phone,
		Message: msg.Message,
	})
	if err != nil {
		return fmt.Errorf("relay contact message failed: %w", err)
	}
	return nil
}
