package dependants

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
)

type Handlers struct {
	store   *db.Store
	docs    *documents.Manager
	emitter *mq.Emitter
	policy  lifecycle.Policy
}

func NewHandlers(store *db.Store, docs *documents.Manager, emitter *mq.Emitter, policy lifecycle.Policy) *Handlers {
	return &Handlers{store: store, docs: docs, emitter: emitter, policy: policy}
}

// loadBooking fetches the parent booking and enforces owner-or-admin.
func (h *Handlers) loadBooking(w http.ResponseWriter, r *http.Request, bookingID string) (models.Booking, bool) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var booking models.Booking
	if err := h.store.Bookings.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return booking, false
	}
	if !middleware.OwnsBooking(r.Context(), booking.UserID, booking.CustomerEmail) {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have access to this booking")
		return booking, false
	}
	return booking, true
}

type dependantInput struct {
	Name           string `json:"name"`
	Relationship   string `json:"relationship"`
	DateOfBirth    string `json:"dateOfBirth"`
	PassportNumber string `json:"passportNumber"`
	PassportExpiry string `json:"passportExpiry"`
}

// POST /api/bookings/:bookingId/dependants
func (h *Handlers) CreateDependant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := h.loadBooking(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}

	var input dependantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	now := time.Now().UTC()
	dep := models.Dependant{
		DependantID:       "d" + utils.GenerateID(13),
		BookingID:         booking.BookingID,
		UserID:            booking.UserID,
		Name:              input.Name,
		Relationship:      input.Relationship,
		DateOfBirth:       input.DateOfBirth,
		PassportNumber:    input.PassportNumber,
		PassportExpiry:    input.PassportExpiry,
		Documents:         []models.SlottedDocument{},
		ApplicationStatus: lifecycle.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	if _, err := h.store.Dependants.InsertOne(ctx, dep); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create dependant")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, dep)
}

// GET /api/bookings/:bookingId/dependants
func (h *Handlers) ListDependants(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := h.loadBooking(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	cur, err := h.store.Dependants.Find(ctx, bson.M{"bookingid": booking.BookingID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch dependants")
		return
	}
	defer cur.Close(ctx)

	list := []models.Dependant{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode dependants")
		return
	}
	utils.RespondWithData(w, http.StatusOK, list)
}

// loadDependant fetches the dependant scoped to its booking, after the
// booking ownership check has passed.
func (h *Handlers) loadDependant(w http.ResponseWriter, r *http.Request, bookingID, dependantID string) (models.Dependant, bool) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var dep models.Dependant
	err := h.store.Dependants.FindOne(ctx, bson.M{"dependantid": dependantID, "bookingid": bookingID}).Decode(&dep)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Dependant not found")
		return dep, false
	}
	return dep, true
}

// PUT /api/bookings/:bookingId/dependants/:dependantId
func (h *Handlers) UpdateDependant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := h.loadBooking(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}
	dep, ok := h.loadDependant(w, r, booking.BookingID, ps.ByName("dependantId"))
	if !ok {
		return
	}

	var input dependantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	_, err := h.store.Dependants.UpdateOne(ctx,
		bson.M{"dependantid": dep.DependantID},
		bson.M{"$set": bson.M{
			"name":           input.Name,
			"relationship":   input.Relationship,
			"dateOfBirth":    input.DateOfBirth,
			"passportNumber": input.PassportNumber,
			"passportExpiry": input.PassportExpiry,
			"updated_at":     time.Now().UTC(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update dependant")
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Dependant updated"})
}

// DELETE /api/bookings/:bookingId/dependants/:dependantId
// Removes the dependant and, best effort, its stored documents.
func (h *Handlers) DeleteDependant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := h.loadBooking(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}
	dep, ok := h.loadDependant(w, r, booking.BookingID, ps.ByName("dependantId"))
	if !ok {
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	if _, err := h.store.Dependants.DeleteOne(ctx, bson.M{"dependantid": dep.DependantID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete dependant")
		return
	}
	docs := dep.Documents
	for len(docs) > 0 {
		var err error
		docs, _, err = h.docs.DetachSlotted(ctx, docs, docs[0].Document.DocID)
		if err != nil {
			break
		}
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Dependant removed"})
}

// PUT /api/admin/dependants/:dependantId/application
func (h *Handlers) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var dep models.Dependant
	if err := h.store.Dependants.FindOne(ctx, bson.M{"dependantid": ps.ByName("dependantId")}).Decode(&dep); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Dependant not found")
		return
	}

	change, err := h.policy.Apply(dep.ApplicationStatus, body.Status, middleware.UserID(r.Context()), time.Now().UTC())
	if err != nil {
		if errors.Is(err, lifecycle.ErrBadStatus) || errors.Is(err, lifecycle.ErrBackward) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update application")
		return
	}

	_, err = h.store.Dependants.UpdateOne(ctx,
		bson.M{"dependantid": dep.DependantID},
		bson.M{"$set": bson.M{
			"applicationStatus": change.Status,
			"reviewedAt":        change.ReviewedAt,
			"reviewedBy":        change.ReviewedBy,
			"updated_at":        change.ReviewedAt,
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update application")
		return
	}

	if change.Notify {
		var booking models.Booking
		if err := h.store.Bookings.FindOne(ctx, bson.M{"bookingid": dep.BookingID}).Decode(&booking); err == nil {
			h.emitter.Emit(r.Context(), models.Notice{
				Kind:      models.NoticeApplicationStatus,
				Recipient: booking.CustomerEmail,
				Payload: map[string]string{
					"name":      dep.Name,
					"bookingid": dep.BookingID,
					"status":    change.Status,
				},
			})
		}
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"applicationStatus": change.Status,
		"reviewedAt":        change.ReviewedAt,
		"reviewedBy":        change.ReviewedBy,
	})
}
