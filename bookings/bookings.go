package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"atlas/db"
	"atlas/documents"
	"atlas/lifecycle"
	"atlas/middleware"
	"atlas/models"
	"atlas/mq"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handlers struct {
	store         *db.Store
	docs          *documents.Manager
	emitter       *mq.Emitter
	policy        lifecycle.Policy
	hub           *Hub
	voucherSecret string
}

func NewHandlers(store *db.Store, docs *documents.Manager, emitter *mq.Emitter, policy lifecycle.Policy, hub *Hub, voucherSecret string) *Handlers {
	return &Handlers{
		store:         store,
		docs:          docs,
		emitter:       emitter,
		policy:        policy,
		hub:           hub,
		voucherSecret: voucherSecret,
	}
}

type createBookingInput struct {
	TourID string `json:"tourid"`
	// accepted alias for TourID
	Tour            string `json:"tour"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	Travelers       int    `json:"numberOfTravelers"`
	BookingDate     string `json:"bookingDate"`
	SpecialRequests string `json:"specialRequests"`
}

func (in createBookingInput) tourID() string {
	if in.TourID != "" {
		return in.TourID
	}
	return in.Tour
}

// POST /api/bookings
// Runs under OptionalAuth: logged-in users get the booking bound to their
// account, guests book with name and email only.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input createBookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.CustomerName == "" || input.CustomerEmail == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Customer name and email are required")
		return
	}
	if input.Travelers < 1 {
		input.Travelers = 1
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var tour models.Tour
	err := h.store.Tours.FindOne(ctx, bson.M{"tourid": input.tourID(), "status": models.TourPublished}).Decode(&tour)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	now := time.Now().UTC()
	booking := models.Booking{
		BookingID:         "b" + utils.GenerateID(13),
		TourID:            tour.TourID,
		UserID:            middleware.UserID(r.Context()),
		CustomerName:      input.CustomerName,
		CustomerEmail:     utils.NormalizeEmail(input.CustomerEmail),
		CustomerPhone:     input.CustomerPhone,
		Travelers:         input.Travelers,
		TotalAmount:       tour.Price * float64(input.Travelers),
		PaymentStatus:     models.PaymentPending,
		BookingStatus:     models.BookingPending,
		BookingDate:       input.BookingDate,
		SpecialRequests:   input.SpecialRequests,
		Documents:         []models.Document{},
		ApplicationStatus: lifecycle.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := h.store.Bookings.InsertOne(ctx, booking); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	h.emitter.Emit(r.Context(), models.Notice{
		Kind:      models.NoticeBookingConfirmation,
		Recipient: booking.CustomerEmail,
		Payload: map[string]string{
			"name":      booking.CustomerName,
			"bookingid": booking.BookingID,
			"tour":      tour.Title,
		},
	})

	utils.RespondWithData(w, http.StatusCreated, booking)
}

// load fetches the booking or writes a 404.
func (h *Handlers) load(w http.ResponseWriter, r *http.Request, bookingID string) (models.Booking, bool) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var booking models.Booking
	if err := h.store.Bookings.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return booking, false
	}
	return booking, true
}

// loadOwned fetches the booking and enforces owner-or-admin access.
func (h *Handlers) loadOwned(w http.ResponseWriter, r *http.Request, bookingID string) (models.Booking, bool) {
	booking, ok := h.load(w, r, bookingID)
	if !ok {
		return booking, false
	}
	if !middleware.OwnsBooking(r.Context(), booking.UserID, booking.CustomerEmail) {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have access to this booking")
		return booking, false
	}
	return booking, true
}

// GET /api/bookings/:bookingId
func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := h.loadOwned(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}
	utils.RespondWithData(w, http.StatusOK, booking)
}

// GET /api/bookings/mine
func (h *Handlers) ListMyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserID(r.Context())

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	cur, err := h.store.Bookings.Find(ctx, bson.M{"userid": userID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	defer cur.Close(ctx)

	list := []models.Booking{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode bookings")
		return
	}
	utils.RespondWithData(w, http.StatusOK, list)
}

// GET /api/admin/bookings
func (h *Handlers) AdminListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if s := r.URL.Query().Get("bookingStatus"); s != "" {
		filter["bookingStatus"] = s
	}
	if s := r.URL.Query().Get("applicationStatus"); s != "" {
		filter["userApplicationStatus"] = s
	}
	if t := r.URL.Query().Get("tourid"); t != "" {
		filter["tourid"] = t
	}

	skip, limit := utils.ParsePagination(r, 20, 200)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	cur, err := h.store.Bookings.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	defer cur.Close(ctx)

	list := []models.Booking{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode bookings")
		return
	}
	utils.RespondWithData(w, http.StatusOK, list)
}

// PUT /api/admin/bookings/:bookingId/status  (bookingStatus only)
func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		BookingStatus string `json:"bookingStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !models.ValidBookingStatus(body.BookingStatus) {
		utils.RespondWithError(w, http.StatusBadRequest, "bookingStatus must be pending, confirmed or cancelled")
		return
	}

	booking, ok := h.load(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	_, err := h.store.Bookings.UpdateOne(ctx,
		bson.M{"bookingid": booking.BookingID},
		bson.M{"$set": bson.M{"bookingStatus": body.BookingStatus, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
		return
	}

	h.hub.Broadcast(booking.BookingID, utils.M{
		"bookingid":     booking.BookingID,
		"bookingStatus": body.BookingStatus,
	})
	utils.RespondWithData(w, http.StatusOK, map[string]string{"bookingStatus": body.BookingStatus})
}

// PUT /api/admin/bookings/:bookingId/application
// Moves the application through the review pipeline. A notice goes out
// only when the status actually changes.
func (h *Handlers) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	booking, ok := h.load(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}

	change, err := h.policy.Apply(booking.ApplicationStatus, body.Status, middleware.UserID(r.Context()), time.Now().UTC())
	if err != nil {
		if errors.Is(err, lifecycle.ErrBadStatus) || errors.Is(err, lifecycle.ErrBackward) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update application")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	_, err = h.store.Bookings.UpdateOne(ctx,
		bson.M{"bookingid": booking.BookingID},
		bson.M{"$set": bson.M{
			"userApplicationStatus": change.Status,
			"reviewedAt":            change.ReviewedAt,
			"reviewedBy":            change.ReviewedBy,
			"updated_at":            change.ReviewedAt,
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update application")
		return
	}

	if change.Notify {
		h.emitter.Emit(r.Context(), models.Notice{
			Kind:      models.NoticeApplicationStatus,
			Recipient: booking.CustomerEmail,
			Payload: map[string]string{
				"name":      booking.CustomerName,
				"bookingid": booking.BookingID,
				"status":    change.Status,
			},
		})
	}
	h.hub.Broadcast(booking.BookingID, utils.M{
		"bookingid":             booking.BookingID,
		"userApplicationStatus": change.Status,
	})

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"userApplicationStatus": change.Status,
		"reviewedAt":            change.ReviewedAt,
		"reviewedBy":            change.ReviewedBy,
	})
}
