package bookings

import (
	"errors"
	"net/http"
	"time"

	"atlas/db"
	"atlas/documents"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// POST /api/bookings/:bookingId/documents  (multipart field "document")
func (h *Handlers) AttachDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := h.loadOwned(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
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

	doc, err := h.docs.Attach(ctx, file, header.Filename, "bookings/"+booking.BookingID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store document")
		return
	}

	_, err = h.store.Bookings.UpdateOne(ctx,
		bson.M{"bookingid": booking.BookingID},
		bson.M{
			"$push": bson.M{"documents": doc},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to attach document")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, doc)
}

// DELETE /api/bookings/:bookingId/documents/:docId
// :docId matches either the document id or the object store public id.
func (h *Handlers) DetachDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := h.loadOwned(w, r, ps.ByName("bookingId"))
	if !ok {
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	remaining, removed, err := h.docs.Detach(ctx, booking.Documents, ps.ByName("docId"))
	if err != nil {
		if errors.Is(err, documents.ErrNotAttached) {
			utils.RespondWithError(w, http.StatusNotFound, "Document not found on booking")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to detach document")
		return
	}

	_, err = h.store.Bookings.UpdateOne(ctx,
		bson.M{"bookingid": booking.BookingID},
		bson.M{"$set": bson.M{"documents": remaining, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to detach document")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"removed": removed.DocID})
}
