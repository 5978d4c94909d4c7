package tours

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"atlas/db"
	"atlas/middleware"
	"atlas/models"
	"atlas/storage"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handlers struct {
	store *db.Store
	files storage.ObjectStore
}

func NewHandlers(store *db.Store, files storage.ObjectStore) *Handlers {
	return &Handlers{store: store, files: files}
}

// GET /api/tours
// Public listing: published tours only, with category/packageType filters.
func (h *Handlers) ListTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{"status": models.TourPublished}
	if c := r.URL.Query().Get("category"); c != "" {
		filter["category"] = c
	}
	if p := r.URL.Query().Get("packageType"); p != "" {
		filter["packageType"] = p
	}

	skip, limit := utils.ParsePagination(r, 10, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	cur, err := h.store.Tours.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch tours")
		return
	}
	defer cur.Close(ctx)

	tours := []models.Tour{}
	if err := cur.All(ctx, &tours); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode tours")
		return
	}
	utils.RespondWithData(w, http.StatusOK, tours)
}

// GET /api/tours/:tourId
// Unpublished tours are only visible to admins.
func (h *Handlers) GetTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var tour models.Tour
	err := h.store.Tours.FindOne(ctx, bson.M{"tourid": ps.ByName("tourId")}).Decode(&tour)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}
	if tour.Status != models.TourPublished && !middleware.IsAdmin(r.Context()) {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, tour)
}

// GET /api/admin/tours
func (h *Handlers) AdminListTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if s := r.URL.Query().Get("status"); s != "" {
		filter["status"] = s
	}

	skip, limit := utils.ParsePagination(r, 20, 200)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	cur, err := h.store.Tours.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch tours")
		return
	}
	defer cur.Close(ctx)

	tours := []models.Tour{}
	if err := cur.All(ctx, &tours); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode tours")
		return
	}
	utils.RespondWithData(w, http.StatusOK, tours)
}

func validateTour(t *models.Tour) string {
	if t.Title == "" || t.Category == "" {
		return "Title and category are required"
	}
	if !models.ValidPackageType(t.PackageType) {
		return "packageType must be umrah or standard"
	}
	if t.Price < 0 {
		return "Price may not be negative"
	}
	for i, day := range t.Itinerary {
		if day.Day == 0 {
			t.Itinerary[i].Day = i + 1
		}
	}
	return ""
}

// POST /api/tours  (admin)
func (h *Handlers) CreateTour(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var tour models.Tour
	if err := json.NewDecoder(r.Body).Decode(&tour); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := validateTour(&tour); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now().UTC()
	tour.TourID = "t" + utils.GenerateID(13)
	tour.Status = models.TourDraft
	tour.Gallery = nil
	tour.CreatedBy = middleware.UserID(r.Context())
	tour.CreatedAt = now
	tour.UpdatedAt = now

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	if _, err := h.store.Tours.InsertOne(ctx, tour); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create tour")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, tour)
}

// PUT /api/tours/:tourId  (admin)
func (h *Handlers) UpdateTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input models.Tour
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := validateTour(&input); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	set := bson.M{
		"title":         input.Title,
		"category":      input.Category,
		"packageType":   input.PackageType,
		"price":         input.Price,
		"duration":      input.Duration,
		"dates":         input.Dates,
		"accommodation": input.Accommodation,
		"description":   input.Description,
		"itinerary":     input.Itinerary,
		"inclusions":    input.Inclusions,
		"exclusions":    input.Exclusions,
		"updated_at":    time.Now().UTC(),
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	res := h.store.Tours.FindOneAndUpdate(ctx,
		bson.M{"tourid": ps.ByName("tourId")},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Tour
	if err := res.Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, updated)
}

// PUT /api/tours/:tourId/status  (admin)
func (h *Handlers) SetTourStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !models.ValidTourStatus(body.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "status must be draft, published or archived")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	res, err := h.store.Tours.UpdateOne(ctx,
		bson.M{"tourid": ps.ByName("tourId")},
		bson.M{"$set": bson.M{"status": body.Status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update tour")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"status": body.Status})
}

// DELETE /api/tours/:tourId  (admin)
func (h *Handlers) DeleteTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var tour models.Tour
	if err := h.store.Tours.FindOne(ctx, bson.M{"tourid": ps.ByName("tourId")}).Decode(&tour); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	if _, err := h.store.Tours.DeleteOne(ctx, bson.M{"tourid": tour.TourID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete tour")
		return
	}
	// gallery objects are remote; best-effort cleanup
	for _, img := range tour.Gallery {
		if err := h.files.Delete(ctx, img.PublicID); err != nil {
			log.Printf("[tours] remote delete of %s failed: %v", img.PublicID, err)
		}
	}

	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Tour deleted"})
}

func (h *Handlers) ensureTour(w http.ResponseWriter, r *http.Request, tourID string) (models.Tour, bool) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var tour models.Tour
	if err := h.store.Tours.FindOne(ctx, bson.M{"tourid": tourID}).Decode(&tour); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return tour, false
	}
	return tour, true
}
