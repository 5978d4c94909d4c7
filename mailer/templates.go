package mailer

import (
	"fmt"

	"atlas/models"
)

// Render maps a notice kind to its fixed subject and HTML body. Unknown
// payload fields are simply absent from the output.
func Render(kind models.NoticeKind, p map[string]string) (subject, body string) {
	switch kind {
	case models.NoticeBookingConfirmation:
		subject = "Your booking is received"
		body = fmt.Sprintf(
			"<h2>Thank you, %s!</h2><p>We received your booking <b>%s</b> for <b>%s</b>. Our team will confirm it shortly.</p>",
			p["name"], p["bookingid"], p["tour"])
	case models.NoticePaymentConfirmation:
		subject = "Payment received"
		body = fmt.Sprintf(
			"<h2>Payment confirmed</h2><p>Your payment of %s for booking <b>%s</b> was received. Your booking is now confirmed.</p>",
			p["amount"], p["bookingId"])
	case models.NoticeApplicationStatus:
		subject = "Application status update"
		body = fmt.Sprintf(
			"<h2>Status update</h2><p>The application for <b>%s</b> on booking <b>%s</b> is now <b>%s</b>.</p>",
			p["name"], p["bookingid"], p["status"])
	case models.NoticePasswordReset:
		subject = "Reset your password"
		body = fmt.Sprintf(
			"<p>We received a request to reset your password. Use this link within one hour:</p><p><a href=\"%s\">%s</a></p><p>If you did not request this, ignore this email.</p>",
			p["resetLink"], p["resetLink"])
	case models.NoticeSignupWelcome:
		subject = "Welcome aboard"
		body = fmt.Sprintf(
			"<h2>Welcome, %s!</h2><p>Your account is ready. Browse our tours and book your next journey.</p>",
			p["name"])
	case models.NoticeAdminEnquiry:
		subject = "New enquiry: " + p["subject"]
		body = fmt.Sprintf(
			"<h3>Enquiry from %s (%s)</h3><p>%s</p>",
			p["name"], p["email"], p["message"])
	default:
		subject = "Notification"
		body = "<p>You have a new notification.</p>"
	}
	return subject, body
}
