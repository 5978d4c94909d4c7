package enquiries

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"atlas/db"
	"atlas/models"
	"atlas/mq"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handlers struct {
	store   *db.Store
	emitter *mq.Emitter
	adminTo string
}

func NewHandlers(store *db.Store, emitter *mq.Emitter, adminTo string) *Handlers {
	return &Handlers{store: store, emitter: emitter, adminTo: adminTo}
}

// POST /api/contact
// Public contact form: persisted first, then a best-effort notice to the
// admin inbox.
func (h *Handlers) CreateEnquiry(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = utils.NormalizeEmail(input.Email)
	input.Message = strings.TrimSpace(input.Message)
	if input.Name == "" || input.Email == "" || input.Message == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, email and message are required")
		return
	}

	enquiry := models.Enquiry{
		EnquiryID: "q" + utils.GenerateID(13),
		Name:      input.Name,
		Email:     input.Email,
		Subject:   input.Subject,
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	if _, err := h.store.Enquiries.InsertOne(ctx, enquiry); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit enquiry")
		return
	}

	h.emitter.Emit(r.Context(), models.Notice{
		Kind:      models.NoticeAdminEnquiry,
		Recipient: h.adminTo,
		Payload: map[string]string{
			"name":    enquiry.Name,
			"email":   enquiry.Email,
			"subject": enquiry.Subject,
			"message": enquiry.Message,
		},
	})

	utils.RespondWithData(w, http.StatusCreated, map[string]string{"enquiryid": enquiry.EnquiryID})
}

// GET /api/admin/enquiries
func (h *Handlers) ListEnquiries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	skip, limit := utils.ParsePagination(r, 20, 200)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	ctx, cancel := db.Ctx(r.Context())
	defer cancel()

	cur, err := h.store.Enquiries.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch enquiries")
		return
	}
	defer cur.Close(ctx)

	list := []models.Enquiry{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode enquiries")
		return
	}
	utils.RespondWithData(w, http.StatusOK, list)
}
