package auth

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

// GET /api/profile
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var user models.PublicUser
	err := h.store.Users.FindOne(ctx, bson.M{"userid": middleware.UserID(r.Context())}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, user)
}

// PUT /api/profile
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	res, err := h.store.Users.UpdateOne(ctx,
		bson.M{"userid": middleware.UserID(r.Context())},
		bson.M{"$set": set},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}
