package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings plus the addresses the venue mails from and to.
type Config struct {
	Host         string
	Port         int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	AdminEmail   string
	SupportPhone string
}

type smtpMailer struct {
	cfg             Config
	bookingTemplate *template.Template
	contactTemplate *template.Template
}

// NewSMTPMailer builds a Mailer that delivers over SMTP.
func NewSMTPMailer(cfg Config) (Mailer, error) {
	bookingTmpl, err := template.New("booking").Parse(bookingBody)
	if err != nil {
		return nil, fmt.Errorf("parse booking mail template failed: %w", err)
	}
	contactTmpl, err := template.New("contact").Parse(contactBody)
	if err != nil {
		return nil, fmt.Errorf("parse contact mail template failed: %w", err)
	}

	return &smtpMailer{
		cfg:             cfg,
		bookingTemplate: bookingTmpl,
		contactTemplate: contactTmpl,
	}, nil
}

type bookingMailData struct {
	IsAdmin      bool
	BookingID    string
	CourtName    string
	CourtType    string
	Date         string
	Times        string
	Slots        string
	Price        int
	Name         string
	SupportPhone string
}

func (m *smtpMailer) SendBookingConfirmation(p BookingParams) error {
	if p.Email == "" {
		// Email is optional on bookings; nothing to send.
		return nil
	}

	subject := fmt.Sprintf("Your booking is confirmed: %s on %s", p.CourtName, p.Date)
	body, err := m.renderBooking(false, p)
	if err != nil {
		return err
	}
	return m.send(p.Email, subject, body)
}

func (m *smtpMailer) SendAdminAlert(p BookingParams) error {
	subject := fmt.Sprintf("New booking: %s on %s", p.CourtName, p.Date)
	body, err := m.renderBooking(true, p)
	if err != nil {
		return err
	}
	return m.send(m.cfg.AdminEmail, subject, body)
}

func (m *smtpMailer) SendContactMessage(msg ContactMessage) error {
	subject := fmt.Sprintf("New contact form submission from %s", msg.Name)

	var body bytes.Buffer
	if err := m.contactTemplate.Execute(&body, msg); err != nil {
		return fmt.Errorf("render contact mail failed: %w", err)
	}
	return m.send(m.cfg.AdminEmail, subject, body.String())
}

func (m *smtpMailer) renderBooking(isAdmin bool, p BookingParams) (string, error) {
	data := bookingMailData{
		IsAdmin:      isAdmin,
		BookingID:    p.BookingID,
		CourtName:    p.CourtName,
		CourtType:    p.CourtType,
		Date:         p.Date,
		Times:        strings.Join(p.Times, ", "),
		Slots:        strings.Join(p.SlotIDs, ", "),
		Price:        p.Price,
		Name:         p.Name,
		SupportPhone: m.cfg.SupportPhone,
	}

	var body bytes.Buffer
	if err := m.bookingTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render booking mail failed: %w", err)
	}
	return body.String(), nil
}

func (m *smtpMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s failed: %w", to, err)
	}
	return nil
}

const bookingBody = `<!DOCTYPE html>
<html>
<body style="background:#f4f4f7;margin:0;padding:20px;font-family:Arial,sans-serif;">
  <table align="center" width="600" bgcolor="#ffffff" cellpadding="0" cellspacing="0" style="border-radius:8px;">
    <tr><td style="padding:30px;">
      <h1 style="color:#333;margin-top:0;">{{if .IsAdmin}}New Booking Received{{else}}Booking Confirmed!{{end}}</h1>
      <p style="color:#555;">
        {{if .IsAdmin}}A new booking was made on <strong>{{.Date}}</strong>.{{else}}Hi <strong>{{.Name}}</strong>, your booking on <strong>{{.Date}}</strong> is confirmed!{{end}}
      </p>
      <table width="100%" cellpadding="0" cellspacing="0" style="color:#555;border:1px solid #ddd;border-radius:4px;margin-top:20px;">
        <tr style="background:#f9f9f9;">
          <th align="left" style="padding:12px;border-bottom:1px solid #ddd;">Reference</th>
          <td style="padding:12px;border-bottom:1px solid #ddd;">{{.BookingID}}</td>
        </tr>
        <tr>
          <th align="left" style="padding:12px;border-bottom:1px solid #ddd;">Court</th>
          <td style="padding:12px;border-bottom:1px solid #ddd;">{{.CourtName}} ({{.CourtType}})</td>
        </tr>
        <tr style="background:#f9f9f9;">
          <th align="left" style="padding:12px;border-bottom:1px solid #ddd;">Date &amp; Time</th>
          <td style="padding:12px;border-bottom:1px solid #ddd;">{{.Date}}, {{.Times}}</td>
        </tr>
        <tr>
          <th align="left" style="padding:12px;border-bottom:1px solid #ddd;">Slots</th>
          <td style="padding:12px;border-bottom:1px solid #ddd;">{{.Slots}}</td>
        </tr>
        <tr style="background:#f9f9f9;">
          <th align="left" style="padding:12px;">Total</th>
          <td style="padding:12px;">{{.Price}}</td>
        </tr>
      </table>
      {{if not .IsAdmin}}
      <p style="color:#555;margin-top:20px;">For any questions, call us at <strong>{{.SupportPhone}}</strong>.</p>
      {{end}}
      <hr style="border:none;border-top:1px solid #eee;margin:30px 0;">
      <p style="color:#999;font-size:12px;">This is an auto-generated email; please do not reply.</p>
    </td></tr>
  </table>
</body>
</html>`

const contactBody = `<h2>New Message from Contact Form</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{if .Phone}}{{.Phone}}{{else}}N/A{{end}}</p>
<p><strong>Message:</strong><br/>{{.Message}}</p>
<hr/>
<p style="font-size:12px;color:#888;">This is an auto-generated email. Please do not reply.</p>`
