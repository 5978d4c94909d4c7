package tours

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"atlas/db"
	"atlas/models"
	"atlas/storage"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// failingStore errors on every remote operation.
type failingStore struct{}

func (f failingStore) Upload(context.Context, io.Reader, string, string) (storage.Object, error) {
	return storage.Object{}, errors.New("store down")
}
func (f failingStore) UploadImage(context.Context, io.Reader, string) (storage.Object, error) {
	return storage.Object{}, errors.New("store down")
}
func (f failingStore) Delete(context.Context, string) error {
	return errors.New("store down")
}

func TestDeleteTourSurvivesRemoteDeleteFailure(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("gallery cleanup failure is non-fatal", func(mt *mtest.T) {
		store := &db.Store{Tours: mt.Client.Database("traveldb").Collection("tours")}
		h := NewHandlers(store, failingStore{})

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "traveldb.tours", mtest.FirstBatch, bson.D{
				{Key: "tourid", Value: "t1"},
				{Key: "title", Value: "Makkah Express"},
				{Key: "status", Value: models.TourPublished},
				{Key: "gallery", Value: bson.A{bson.D{
					{Key: "url", Value: "http://localhost/uploads/tours/t1/a.jpg"},
					{Key: "publicid", Value: "tours/t1/a.jpg"},
				}}},
			}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		req := httptest.NewRequest(http.MethodDelete, "/api/tours/t1", nil)
		rec := httptest.NewRecorder()

		h.DeleteTour(rec, req, httprouter.Params{{Key: "tourId", Value: "t1"}})

		if rec.Code != http.StatusOK {
			t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
		}
	})
}
