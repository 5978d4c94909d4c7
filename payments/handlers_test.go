package payments

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atlas/db"
	"atlas/models"
	"atlas/mq"
	"atlas/rdx"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestAmountCents(t *testing.T) {
	cases := []struct {
		total float64
		want  int64
	}{
		{19.99, 1999},
		{0.29, 29},
		{1200, 120000},
		{0, 0},
		{149.95, 14995},
	}
	for _, tc := range cases {
		if got := amountCents(tc.total); got != tc.want {
			t.Errorf("amountCents(%v) = %d, want %d", tc.total, got, tc.want)
		}
	}
}

func TestWebhookSucceededFlipsStatuses(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("payment.succeeded", func(mt *mtest.T) {
		database := mt.Client.Database("traveldb")
		store := &db.Store{
			Bookings: database.Collection("bookings"),
			Intents:  database.Collection("payment_intents"),
		}
		secret := []byte("whsec")
		h := NewHandlers(store, NewLocalProvider(store.Intents), mq.NewEmitter(rdx.New("127.0.0.1:1")), secret)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "traveldb.bookings", mtest.FirstBatch, bson.D{
				{Key: "bookingid", Value: "b1"},
				{Key: "tourid", Value: "t1"},
				{Key: "customerName", Value: "Ayesha"},
				{Key: "customerEmail", Value: "a@example.com"},
				{Key: "totalAmount", Value: 500.0},
				{Key: "paymentStatus", Value: models.PaymentPending},
				{Key: "bookingStatus", Value: models.BookingPending},
			}),
			mtest.CreateSuccessResponse(),
		)

		body := []byte(`{"type":"payment.succeeded","data":{"bookingId":"b1"}}`)
		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
		req.Header.Set(SignatureHeader, Sign(body, secret))
		rec := httptest.NewRecorder()

		h.Webhook(rec, req, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
		}

		var sawFlip bool
		for _, ev := range mt.GetAllStartedEvents() {
			if ev.CommandName != "update" {
				continue
			}
			raw := string(ev.Command)
			if strings.Contains(raw, models.PaymentPaid) && strings.Contains(raw, models.BookingConfirmed) {
				sawFlip = true
			}
		}
		if !sawFlip {
			t.Fatal("no update set paymentStatus=paid and bookingStatus=confirmed")
		}
	})
}
