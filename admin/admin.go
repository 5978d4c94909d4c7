// Package admin aggregates reporting endpoints that don't belong to one
// feature package.
package admin

import (
	"net/http"

	"atlas/db"
	"atlas/lifecycle"
	"atlas/models"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type Handlers struct {
	store *db.Store
}

func NewHandlers(store *db.Store) *Handlers {
	return &Handlers{store: store}
}

// GET /api/admin/stats
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	users, err := h.store.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	tours, err := h.store.Tours.CountDocuments(ctx, bson.M{"status": models.TourPublished})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	bookings, err := h.store.Bookings.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	pendingApps, err := h.store.Bookings.CountDocuments(ctx, bson.M{
		"userApplicationStatus": bson.M{"$in": []string{lifecycle.StatusSubmitted, lifecycle.StatusUnderReview}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	pendingReviews, err := h.store.Reviews.CountDocuments(ctx, bson.M{"status": models.ReviewPending})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	enquiries, err := h.store.Enquiries.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	// revenue over paid bookings
	cur, err := h.store.Bookings.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"paymentStatus": models.PaymentPaid}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	defer cur.Close(ctx)
	var revenue float64
	if cur.Next(ctx) {
		var row struct {
			Total float64 `bson:"total"`
		}
		if err := cur.Decode(&row); err == nil {
			revenue = row.Total
		}
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"users":               users,
		"publishedTours":      tours,
		"bookings":            bookings,
		"pendingApplications": pendingApps,
		"pendingReviews":      pendingReviews,
		"enquiries":           enquiries,
		"revenue":             revenue,
	})
}
