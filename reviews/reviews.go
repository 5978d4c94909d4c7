package reviews

import (
	"encoding/json"
	"net/http"
	"time"

	"atlas/db"
	"atlas/middleware"
	"atlas/models"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handlers struct {
	store *db.Store
}

func NewHandlers(store *db.Store) *Handlers {
	return &Handlers{store: store}
}

// GET /api/tours/:tourId/reviews
// Public: approved reviews only.
func (h *Handlers) ListTourReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	cur, err := h.store.Reviews.Find(ctx,
		bson.M{"tourid": ps.ByName("tourId"), "status": models.ReviewApproved}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	defer cur.Close(ctx)

	list := []models.Review{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode reviews")
		return
	}
	utils.RespondWithData(w, http.StatusOK, list)
}

type reviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// POST /api/tours/:tourId/reviews
// New reviews start pending and only appear publicly once approved.
func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input reviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	tourID := ps.ByName("tourId")
	if err := h.store.Tours.FindOne(ctx, bson.M{"tourid": tourID}).Err(); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	userID := middleware.UserID(r.Context())
	// one review per user per tour
	existing := h.store.Reviews.FindOne(ctx, bson.M{"tourid": tourID, "userid": userID})
	if existing.Err() == nil {
		utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this tour")
		return
	}

	now := time.Now().UTC()
	review := models.Review{
		ReviewID:  "r" + utils.GenerateID(13),
		TourID:    tourID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		Status:    models.ReviewPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := h.store.Reviews.InsertOne(ctx, review); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create review")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, review)
}

// loadOwned fetches the review and enforces owner-or-admin.
func (h *Handlers) loadOwned(w http.ResponseWriter, r *http.Request, reviewID string) (models.Review, bool) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var review models.Review
	if err := h.store.Reviews.FindOne(ctx, bson.M{"reviewid": reviewID}).Decode(&review); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return review, false
	}
	if !middleware.Owns(r.Context(), review.UserID) {
		utils.RespondWithError(w, http.StatusForbidden, "You do not have access to this review")
		return review, false
	}
	return review, true
}

// PUT /api/reviews/:reviewId
// Editing sends the review back through moderation.
func (h *Handlers) UpdateReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	review, ok := h.loadOwned(w, r, ps.ByName("reviewId"))
	if !ok {
		return
	}

	var input reviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	_, err := h.store.Reviews.UpdateOne(ctx,
		bson.M{"reviewid": review.ReviewID},
		bson.M{"$set": bson.M{
			"rating":     input.Rating,
			"comment":    input.Comment,
			"status":     models.ReviewPending,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update review")
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Review updated"})
}

// DELETE /api/reviews/:reviewId
func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	review, ok := h.loadOwned(w, r, ps.ByName("reviewId"))
	if !ok {
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	if _, err := h.store.Reviews.DeleteOne(ctx, bson.M{"reviewid": review.ReviewID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Review deleted"})
}

// PUT /api/admin/reviews/:reviewId/status
func (h *Handlers) SetReviewStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !models.ValidReviewStatus(body.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "status must be pending, approved or rejected")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	res, err := h.store.Reviews.UpdateOne(ctx,
		bson.M{"reviewid": ps.ByName("reviewId")},
		bson.M{"$set": bson.M{"status": body.Status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update review")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"status": body.Status})
}
