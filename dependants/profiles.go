package dependants

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
)

// Dependant profiles are account-level person templates, so travellers a
// user books for repeatedly don't have to be retyped per booking.

// POST /api/profile/dependants
func (h *Handlers) CreateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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
	profile := models.DependantProfile{
		ProfileID:      "dp" + utils.GenerateID(12),
		UserID:         middleware.UserID(r.Context()),
		Name:           input.Name,
		Relationship:   input.Relationship,
		DateOfBirth:    input.DateOfBirth,
		PassportNumber: input.PassportNumber,
		PassportExpiry: input.PassportExpiry,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	if _, err := h.store.DependantProfiles.InsertOne(ctx, profile); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, profile)
}

// GET /api/profile/dependants
func (h *Handlers) ListProfiles(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	cur, err := h.store.DependantProfiles.Find(ctx, bson.M{"userid": middleware.UserID(r.Context())})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch profiles")
		return
	}
	defer cur.Close(ctx)

	list := []models.DependantProfile{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode profiles")
		return
	}
	utils.RespondWithData(w, http.StatusOK, list)
}

// PUT /api/profile/dependants/:profileId
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	res, err := h.store.DependantProfiles.UpdateOne(ctx,
		bson.M{"profileid": ps.ByName("profileId"), "userid": middleware.UserID(r.Context())},
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
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

// DELETE /api/profile/dependants/:profileId
func (h *Handlers) DeleteProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	res, err := h.store.DependantProfiles.DeleteOne(ctx,
		bson.M{"profileid": ps.ByName("profileId"), "userid": middleware.UserID(r.Context())})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Profile removed"})
}
