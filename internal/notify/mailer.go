package notify

// Mailer sends the outbound mail this service produces. Booking
// confirmations are fire-and-forget from the caller's point of view;
// contact relays are not, the send is the whole operation there.
type Mailer interface {
	SendBookingConfirmation(p BookingParams) error
	SendAdminAlert(p BookingParams) error
	SendContactMessage(m ContactMessage) error
}

// BookingParams carries everything the booking mail templates need.
type BookingParams struct {
	BookingID string
	CourtName string
	CourtType string
	Date      string
	Times     []string
	SlotIDs   []string
	Price     int
	Name      string
	Email     string // may be empty; the customer mail is skipped then
	Phone     string
}

// ContactMessage is a contact-form submission relayed to the admin inbox.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}
