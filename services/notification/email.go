package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"silverarcade/config"
	"silverarcade/models"
)

// emailView is the data handed to the email templates.
type emailView struct {
	GuestName     string
	ReservationID string
	Kind          string
	Date          string
	ArrivalDate   string
	DepartureDate string
	TimeSlot      string
	Diners        int
	Guests        int
	Rooms         int
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func viewFor(res *models.Reservation) emailView {
	v := emailView{
		GuestName:     res.GuestInfo.Name,
		ReservationID: res.ID,
		Kind:          capitalize(string(res.Kind)),
		TimeSlot:      string(res.TimeSlot),
		Diners:        res.NoOfDiners,
		Guests:        res.NumberOfGuests,
		Rooms:         res.NumberOfRooms,
	}
	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Monday, 2 January 2006")
	}
	v.Date = format(res.Date)
	if res.Kind == models.KindMeeting {
		v.Date = format(res.ReservationDate)
	}
	v.ArrivalDate = format(res.ArrivalDate)
	v.DepartureDate = format(res.DepartureDate)
	return v
}

const emailShell = `
<div style="font-family: Arial, sans-serif; background-color:#f4f6f9; padding:20px;">
  <div style="background-color:#02008F; padding:15px; text-align:center; color:white; font-size:20px; font-weight:bold;">
    Silver Arcade Premier
  </div>
  <div style="background:white; max-width:640px; margin:20px auto; padding:30px; border-radius:12px;">
    {{template "body" .}}
    <h3 style="margin-top:20px; color:#02008F;">Booking Details</h3>
    <ul style="font-size:14px; line-height:1.8; color:#444;">
      <li><b>Booking ID:</b> {{.ReservationID}}</li>
      {{if .Date}}<li><b>Date:</b> {{.Date}}</li>{{end}}
      {{if .ArrivalDate}}<li><b>Check-in:</b> {{.ArrivalDate}}</li>{{end}}
      {{if .DepartureDate}}<li><b>Check-out:</b> {{.DepartureDate}}</li>{{end}}
      {{if .TimeSlot}}<li><b>Time:</b> {{.TimeSlot}}</li>{{end}}
      {{if .Diners}}<li><b>Diners:</b> {{.Diners}}</li>{{end}}
      {{if .Guests}}<li><b>Guests:</b> {{.Guests}}</li>{{end}}
      {{if .Rooms}}<li><b>Rooms:</b> {{.Rooms}}</li>{{end}}
    </ul>
    <p style="font-size:14px; color:#555; margin-top:20px;">
      Warm regards,<br/><b>Team Silver Arcade Premier</b>
    </p>
  </div>
</div>`

const acknowledgementBody = `{{define "body"}}
<h1 style="color:#02008F; text-align:center;">Booking Acknowledgement</h1>
<p style="font-size:15px; color:#555;">Dear {{.GuestName}},</p>
<p style="font-size:15px; line-height:1.6; color:#555;">
  Thank you for choosing <b>Silver Arcade Premier</b>. We have received your
  <b>{{.Kind}}</b> booking request.
</p>
<p style="font-size:15px; line-height:1.6; color:#555;">
  Our team will review your request shortly. A final confirmation email will be
  sent once your booking is approved.
</p>
{{end}}`

const confirmationBody = `{{define "body"}}
<h1 style="color:green; text-align:center;">Booking Confirmed</h1>
<p style="font-size:15px; color:#555;">Dear {{.GuestName}},</p>
<p style="font-size:15px; line-height:1.6; color:#555;">
  We are delighted to confirm your <b>{{.Kind}}</b> booking at
  <b>Silver Arcade Premier</b>. We look forward to welcoming you soon!
</p>
{{end}}`

var (
	acknowledgementTmpl = template.Must(
		template.Must(template.New("ack").Parse(emailShell)).Parse(acknowledgementBody))
	confirmationTmpl = template.Must(
		template.Must(template.New("conf").Parse(emailShell)).Parse(confirmationBody))
)

func renderAcknowledgement(res *models.Reservation) (subject, body string, err error) {
	v := viewFor(res)
	var buf bytes.Buffer
	if err := acknowledgementTmpl.Execute(&buf, v); err != nil {
		return "", "", fmt.Errorf("failed to render acknowledgement email: %w", err)
	}
	return fmt.Sprintf("We Received Your %s Booking Request", v.Kind), buf.String(), nil
}

func renderConfirmation(res *models.Reservation) (subject, body string, err error) {
	v := viewFor(res)
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, v); err != nil {
		return "", "", fmt.Errorf("failed to render confirmation email: %w", err)
	}
	return fmt.Sprintf("Your %s Booking is Confirmed - Silver Arcade Premier", v.Kind), buf.String(), nil
}

// sendMail delivers one HTML email over authenticated SMTP.
func sendMail(to, subject, htmlBody string) error {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		return fmt.Errorf("smtp host not configured")
	}

	msg := strings.Join([]string{
		"From: " + cfg.EmailFrom,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, cfg.EmailFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}
