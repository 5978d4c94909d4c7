package mailer

import (
	"strings"
	"testing"

	"atlas/models"
)

func TestRenderKnownKinds(t *testing.T) {
	kinds := []models.NoticeKind{
		models.NoticeBookingConfirmation,
		models.NoticePaymentConfirmation,
		models.NoticeApplicationStatus,
		models.NoticePasswordReset,
		models.NoticeSignupWelcome,
		models.NoticeAdminEnquiry,
	}
	for _, kind := range kinds {
		subject, body := Render(kind, map[string]string{
			"name":      "Ayesha",
			"bookingid": "b42",
			"status":    "accepted",
			"resetURL":  "http://localhost/reset",
			"email":     "a@example.com",
			"subject":   "hello",
			"message":   "hi there",
			"amount":    "1200.00",
			"tour":      "Makkah Express",
		})
		if subject == "" || body == "" {
			t.Errorf("%s rendered empty subject or body", kind)
		}
	}
}

func TestRenderApplicationStatusMentionsStatus(t *testing.T) {
	_, body := Render(models.NoticeApplicationStatus, map[string]string{
		"name": "Ayesha", "bookingid": "b42", "status": "under_review",
	})
	if !strings.Contains(body, "under_review") {
		t.Fatalf("body should mention the new status: %s", body)
	}
}
