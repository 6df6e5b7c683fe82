package notify

// NoopMailer discards all mail. Used when no SMTP host is configured and in
// tests.
type NoopMailer struct{}

func (NoopMailer) SendBookingConfirmation(BookingParams) error { return nil }
func (NoopMailer) SendAdminAlert(BookingParams) error          { return nil }
func (NoopMailer) SendContactMessage(ContactMessage) error     { return nil }
