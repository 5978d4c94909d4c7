package bookings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atlas/db"
	"atlas/documents"
	"atlas/lifecycle"
	"atlas/models"
	"atlas/mq"
	"atlas/rdx"
	"atlas/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func testHandlers(t *testing.T, mt *mtest.T) *Handlers {
	store := &db.Store{
		Tours:    mt.Client.Database("traveldb").Collection("tours"),
		Bookings: mt.Client.Database("traveldb").Collection("bookings"),
	}
	docs := documents.NewManager(storage.NewDiskStore(t.TempDir(), "http://localhost/uploads"))
	emitter := mq.NewEmitter(rdx.New("127.0.0.1:1"))
	return NewHandlers(store, docs, emitter, lifecycle.PolicyAny, NewHub(), "vsecret")
}

func TestCreateBookingMissingTour(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("404 and nothing persisted", func(mt *mtest.T) {
		h := testHandlers(t, mt)

		// tour lookup comes back empty
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "traveldb.tours", mtest.FirstBatch))

		body := `{"tour":"t-missing","customerName":"Ayesha","customerEmail":"a@example.com","numberOfTravelers":2}`
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.CreateBooking(rec, req, nil)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
		}
		for _, ev := range mt.GetAllStartedEvents() {
			if ev.CommandName == "insert" {
				t.Fatal("booking was persisted despite missing tour")
			}
		}
	})
}

func TestCreateBookingStartsPending(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("201 with pending statuses", func(mt *mtest.T) {
		h := testHandlers(t, mt)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "traveldb.tours", mtest.FirstBatch, bson.D{
				{Key: "tourid", Value: "t1"},
				{Key: "title", Value: "Makkah Express"},
				{Key: "price", Value: 500.0},
				{Key: "status", Value: models.TourPublished},
			}),
			mtest.CreateSuccessResponse(),
		)

		// the "tour" alias must work alongside "tourid"
		body := `{"tour":"t1","customerName":"Ayesha","customerEmail":"a@example.com","numberOfTravelers":2}`
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.CreateBooking(rec, req, nil)

		if rec.Code != http.StatusCreated {
			t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Success bool           `json:"success"`
			Data    models.Booking `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		b := resp.Data
		if b.PaymentStatus != models.PaymentPending {
			t.Errorf("paymentStatus = %q, want pending", b.PaymentStatus)
		}
		if b.BookingStatus != models.BookingPending {
			t.Errorf("bookingStatus = %q, want pending", b.BookingStatus)
		}
		if b.ApplicationStatus != lifecycle.StatusPending {
			t.Errorf("applicationStatus = %q, want pending", b.ApplicationStatus)
		}
		if b.TourID != "t1" {
			t.Errorf("tourid = %q, want t1", b.TourID)
		}
		if b.TotalAmount != 1000 {
			t.Errorf("totalAmount = %v, want 1000", b.TotalAmount)
		}
	})
}
