package payments

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"atlas/db"
	"atlas/middleware"
	"atlas/models"
	"atlas/mq"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Handlers struct {
	store         *db.Store
	provider      Provider
	emitter       *mq.Emitter
	webhookSecret []byte
	// optional hook for live booking updates; nil-safe
	Broadcast func(bookingID string, payload []byte)
}

// amountCents converts a stored decimal amount to provider cents. Rounding
// matters: truncation undercharges amounts like 19.99.
func amountCents(total float64) int64 {
	return int64(math.Round(total * 100))
}

func NewHandlers(store *db.Store, provider Provider, emitter *mq.Emitter, webhookSecret []byte) *Handlers {
	return &Handlers{
		store:         store,
		provider:      provider,
		emitter:       emitter,
		webhookSecret: webhookSecret,
	}
}

// POST /api/payments/intent
// Creates a payment intent for a booking the caller owns. Amount comes
// from the stored booking, never the request.
func (h *Handlers) CreateIntent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		BookingID string `json:"bookingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.BookingID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "bookingId is required")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var booking models.Booking
	err := h.store.Bookings.FindOne(ctx, bson.M{"bookingid": body.BookingID}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load booking")
		return
	}

	if !middleware.OwnsBooking(r.Context(), booking.UserID, booking.CustomerEmail) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	if booking.PaymentStatus == models.PaymentPaid {
		utils.RespondWithError(w, http.StatusBadRequest, "Booking is already paid")
		return
	}

	intent, err := h.provider.CreateIntent(ctx, amountCents(booking.TotalAmount), "usd", map[string]string{
		"bookingId": booking.BookingID,
		"tourId":    booking.TourID,
	})
	if err != nil {
		// intent creation failures are fatal to the request
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create payment intent")
		return
	}

	_, err = h.store.Bookings.UpdateOne(ctx,
		bson.M{"bookingid": booking.BookingID},
		bson.M{"$set": bson.M{"paymentIntentId": intent.IntentID, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save payment intent")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, map[string]string{
		"id":           intent.IntentID,
		"clientSecret": intent.ClientSecret,
	})
}

// GET /api/payments/intent/:intentId
func (h *Handlers) GetIntent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	intent, err := h.provider.RetrieveIntent(ctx, ps.ByName("intentId"))
	if err == ErrIntentNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Payment intent not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve payment intent")
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"status": intent.Status})
}

// webhookEvent is the provider's signed callback body.
type webhookEvent struct {
	Type string `json:"type"` // payment.succeeded | payment.failed
	Data struct {
		IntentID  string `json:"intentId"`
		BookingID string `json:"bookingId"`
	} `json:"data"`
}

// POST /api/payments/webhook
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, sigOK := VerifySignedBody(r, h.webhookSecret)
	if !sigOK {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid webhook signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Malformed event")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var booking models.Booking
	filter := bson.M{"bookingid": event.Data.BookingID}
	if event.Data.BookingID == "" {
		filter = bson.M{"paymentIntentId": event.Data.IntentID}
	}
	if err := h.store.Bookings.FindOne(ctx, filter).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found for event")
		return
	}

	switch event.Type {
	case "payment.succeeded":
		_, err := h.store.Bookings.UpdateOne(ctx,
			bson.M{"bookingid": booking.BookingID},
			bson.M{"$set": bson.M{
				"paymentStatus": models.PaymentPaid,
				"bookingStatus": models.BookingConfirmed,
				"updated_at":    time.Now().UTC(),
			}},
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
			return
		}
		if p, ok := h.provider.(*LocalProvider); ok && event.Data.IntentID != "" {
			if err := p.setStatus(ctx, event.Data.IntentID, models.IntentSucceeded); err != nil {
				log.Printf("[payments] intent %s status update failed: %v", event.Data.IntentID, err)
			}
		}
		h.emitter.Emit(r.Context(), models.Notice{
			Kind:      models.NoticePaymentConfirmation,
			Recipient: booking.CustomerEmail,
			Payload: map[string]string{
				"bookingId": booking.BookingID,
				"amount":    fmt.Sprintf("%.2f", booking.TotalAmount),
			},
		})
		h.broadcastStatus(booking.BookingID, models.BookingConfirmed, models.PaymentPaid)

	case "payment.failed":
		_, err := h.store.Bookings.UpdateOne(ctx,
			bson.M{"bookingid": booking.BookingID},
			bson.M{"$set": bson.M{"paymentStatus": models.PaymentFailed, "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
			return
		}
		if p, ok := h.provider.(*LocalProvider); ok && event.Data.IntentID != "" {
			if err := p.setStatus(ctx, event.Data.IntentID, models.IntentFailed); err != nil {
				log.Printf("[payments] intent %s status update failed: %v", event.Data.IntentID, err)
			}
		}
		h.broadcastStatus(booking.BookingID, booking.BookingStatus, models.PaymentFailed)

	default:
		// unknown event types are acknowledged and ignored
	}

	utils.RespondWithData(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handlers) broadcastStatus(bookingID, bookingStatus, paymentStatus string) {
	if h.Broadcast == nil {
		return
	}
	data, _ := json.Marshal(map[string]string{
		"bookingId":     bookingID,
		"bookingStatus": bookingStatus,
		"paymentStatus": paymentStatus,
	})
	h.Broadcast(bookingID, data)
}
