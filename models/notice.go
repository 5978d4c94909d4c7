package models

// NoticeKind names an outbound email template.
type NoticeKind string

const (
	NoticeBookingConfirmation NoticeKind = "booking-confirmation"
	NoticePaymentConfirmation NoticeKind = "payment-confirmation"
	NoticeApplicationStatus   NoticeKind = "application-status"
	NoticePasswordReset       NoticeKind = "password-reset"
	NoticeSignupWelcome       NoticeKind = "signup-welcome"
	NoticeAdminEnquiry        NoticeKind = "admin-enquiry"
)

// Notice is the message published to the notification channel. Delivery is
// best-effort; producers never block on it.
type Notice struct {
	Kind      NoticeKind        `json:"kind"`
	Recipient string            `json:"recipient"`
	Payload   map[string]string `json:"payload,omitempty"`
}
