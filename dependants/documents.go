package dependants

import (
	"errors"
	"net/http"
	"time"

	"atlas/db"
	"atlas/documents"
	"atlas/models"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// POST /api/bookings/:bookingId/dependants/:dependantId/documents
// Multipart field "document" plus a "slot" form value. The two passport
// slots hold one document each; uploading again replaces the occupant.
func (h *Handlers) AttachDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := h.loadBooking(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}
	dep, ok := h.loadDependant(w, r, booking.BookingID, ps.ByName("dependantId"))
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	slot := models.SlotKind(r.FormValue("slot"))
	if slot == "" {
		slot = models.SlotSupporting
	}
	if !models.ValidSlot(slot) {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown document slot")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Document file is required")
		return
	}
	defer file.Close()

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	doc, err := h.docs.Attach(ctx, file, header.Filename, "dependants/"+dep.DependantID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store document")
		return
	}

	var docs []models.SlottedDocument
	switch slot {
	case models.SlotPassportPicture, models.SlotInternationalPassport:
		docs = h.docs.ReplaceSlot(ctx, dep.Documents, slot, doc)
	default:
		docs = append(dep.Documents, models.SlottedDocument{Slot: slot, Document: doc})
	}

	_, err = h.store.Dependants.UpdateOne(ctx,
		bson.M{"dependantid": dep.DependantID},
		bson.M{"$set": bson.M{"documents": docs, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to attach document")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, models.SlottedDocument{Slot: slot, Document: doc})
}

// DELETE /api/bookings/:bookingId/dependants/:dependantId/documents/:docId
func (h *Handlers) DetachDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	remaining, removed, err := h.docs.DetachSlotted(ctx, dep.Documents, ps.ByName("docId"))
	if err != nil {
		if errors.Is(err, documents.ErrNotAttached) {
			utils.RespondWithError(w, http.StatusNotFound, "Document not found on dependant")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to detach document")
		return
	}

	_, err = h.store.Dependants.UpdateOne(ctx,
		bson.M{"dependantid": dep.DependantID},
		bson.M{"$set": bson.M{"documents": remaining, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to detach document")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"removed": removed.DocID})
}
