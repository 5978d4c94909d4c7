package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"atlas/db"
	"atlas/middleware"
	"atlas/models"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// POST /api/auth/forgot-password
// Always answers 200 so the endpoint can't be used to probe for accounts.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}
	input.Email = utils.NormalizeEmail(input.Email)

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var user models.User
	if err := h.store.Users.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err == nil {
		tokenBytes := make([]byte, 32)
		if _, err := rand.Read(tokenBytes); err == nil {
			token := hex.EncodeToString(tokenBytes)
			_, err := h.store.Users.UpdateOne(ctx,
				bson.M{"userid": user.UserID},
				bson.M{"$set": bson.M{
					"reset_token":  hashToken(token),
					"reset_expiry": time.Now().Add(resetTokenTTL),
				}},
			)
			if err == nil {
				h.emitter.Emit(r.Context(), models.Notice{
					Kind:      models.NoticePasswordReset,
					Recipient: user.Email,
					Payload: map[string]string{
						"resetLink": h.frontendURL + "/reset-password?token=" + token,
					},
				})
			}
		}
	}

	utils.RespondWithData(w, http.StatusOK, map[string]string{
		"message": "If the email exists, a reset link has been sent",
	})
}

// POST /api/auth/reset-password
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Token == "" || len(input.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "Token and a password of at least 8 characters are required")
		return
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var user models.User
	err := h.store.Users.FindOne(ctx, bson.M{
		"reset_token":  hashToken(input.Token),
		"reset_expiry": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	_, err = h.store.Users.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{
			"$set":   bson.M{"password": string(hashedPassword), "updated_at": time.Now().UTC()},
			"$unset": bson.M{"reset_token": "", "reset_expiry": "", "refresh_token": "", "refresh_expiry": ""},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

// PUT /api/profile/password
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || len(input.NewPassword) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "A new password of at least 8 characters is required")
		return
	}

	userID := middleware.UserID(r.Context())

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	var user models.User
	if err := h.store.Users.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	_, err = h.store.Users.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"password": string(hashedPassword), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	utils.RespondWithData(w, http.StatusOK, map[string]string{"message": "Password changed"})
}
