package tours

import (
	"log"
	"net/http"
	"time"

	"atlas/db"
	"atlas/models"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// POST /api/tours/:tourId/gallery  (admin, multipart field "image")
func (h *Handlers) UploadGalleryImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tour, ok := h.ensureTour(w, r, ps.ByName("tourId"))
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	obj, err := h.files.UploadImage(ctx, file, "tours/"+tour.TourID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	img := models.GalleryImage{URL: obj.URL, ThumbURL: obj.ThumbURL, PublicID: obj.PublicID}
	_, err = h.store.Tours.UpdateOne(ctx,
		bson.M{"tourid": tour.TourID},
		bson.M{
			"$push": bson.M{"gallery": img},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update gallery")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, img)
}

// DELETE /api/tours/:tourId/gallery?publicid=...  (admin)
func (h *Handlers) DeleteGalleryImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	publicID := r.URL.Query().Get("publicid")
	if publicID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "publicid query parameter is required")
		return
	}

	tour, ok := h.ensureTour(w, r, ps.ByName("tourId"))
	if !ok {
		return
	}

	found := false
	for _, img := range tour.Gallery {
		if img.PublicID == publicID {
			found = true
			break
		}
	}
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Image not found in gallery")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	_, err := h.store.Tours.UpdateOne(ctx,
		bson.M{"tourid": tour.TourID},
		bson.M{
			"$pull": bson.M{"gallery": bson.M{"publicid": publicID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update gallery")
		return
	}
	// remote removal is best effort; record is already gone
	if err := h.files.Delete(ctx, publicID); err != nil {
		log.Printf("[tours] remote delete of %s failed: %v", publicID, err)
	}

	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Image removed"})
}
