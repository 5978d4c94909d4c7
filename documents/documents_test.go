package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"atlas/models"
	"atlas/storage"
)

// fakeStore records calls; deleteErr makes Delete fail.
type fakeStore struct {
	uploaded  []string
	deleted   []string
	deleteErr error
}

func (f *fakeStore) Upload(_ context.Context, r io.Reader, fileName, folder string) (storage.Object, error) {
	io.Copy(io.Discard, r)
	id := folder + "/" + fileName
	f.uploaded = append(f.uploaded, id)
	return storage.Object{URL: "http://files.local/" + id, PublicID: id}, nil
}

func (f *fakeStore) UploadImage(ctx context.Context, r io.Reader, folder string) (storage.Object, error) {
	return f.Upload(ctx, r, "img.jpg", folder)
}

func (f *fakeStore) Delete(_ context.Context, publicID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

func TestAttachBuildsRecord(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store)

	doc, err := m.Attach(context.Background(), strings.NewReader("bytes"), "visa copy.pdf", "bookings/b1")
	if err != nil {
		t.Fatal(err)
	}
	if doc.DocID == "" || doc.PublicID == "" || doc.URL == "" {
		t.Fatalf("incomplete document: %+v", doc)
	}
	if doc.Name != "visa_copy.pdf" {
		t.Errorf("name not sanitized: %q", doc.Name)
	}
	if doc.UploadedAt.IsZero() {
		t.Error("uploadedAt not set")
	}
}

func TestDetachByDocIDAndPublicID(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store)
	docs := []models.Document{
		{DocID: "d1", PublicID: "p1"},
		{DocID: "d2", PublicID: "p2"},
	}

	rest, removed, err := m.Detach(context.Background(), docs, "d1")
	if err != nil || removed.DocID != "d1" || len(rest) != 1 {
		t.Fatalf("detach by docid: rest=%v removed=%+v err=%v", rest, removed, err)
	}

	rest, removed, err = m.Detach(context.Background(), rest, "p2")
	if err != nil || removed.DocID != "d2" || len(rest) != 0 {
		t.Fatalf("detach by publicid: rest=%v removed=%+v err=%v", rest, removed, err)
	}

	if _, _, err := m.Detach(context.Background(), rest, "p2"); !errors.Is(err, ErrNotAttached) {
		t.Errorf("want ErrNotAttached, got %v", err)
	}
}

func TestDetachSurvivesRemoteDeleteFailure(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("store down")}
	m := NewManager(store)
	docs := []models.Document{{DocID: "d1", PublicID: "p1"}}

	rest, removed, err := m.Detach(context.Background(), docs, "d1")
	if err != nil {
		t.Fatalf("local removal must not fail on remote error: %v", err)
	}
	if len(rest) != 0 || removed.DocID != "d1" {
		t.Errorf("local reference not removed: rest=%v", rest)
	}
}

func TestDetachSlottedOrder(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store)

	// same public id appears in supporting and in the passport slot; the
	// passport slot must win
	docs := []models.SlottedDocument{
		{Slot: models.SlotSupporting, Document: models.Document{DocID: "sup", PublicID: "dup"}},
		{Slot: models.SlotPassportPicture, Document: models.Document{DocID: "pic", PublicID: "dup"}},
	}

	rest, removed, err := m.DetachSlotted(context.Background(), docs, "dup")
	if err != nil {
		t.Fatal(err)
	}
	if removed.DocID != "pic" {
		t.Errorf("slot order violated: removed %q, want pic", removed.DocID)
	}
	if len(rest) != 1 || rest[0].Document.DocID != "sup" {
		t.Errorf("wrong survivor: %v", rest)
	}
}

func TestDetachSlottedLegacyLast(t *testing.T) {
	m := NewManager(&fakeStore{})
	docs := []models.SlottedDocument{
		{Slot: models.SlotLegacy, Document: models.Document{DocID: "old", PublicID: "x"}},
		{Slot: models.SlotSupporting, Document: models.Document{DocID: "new", PublicID: "x"}},
	}
	_, removed, err := m.DetachSlotted(context.Background(), docs, "x")
	if err != nil {
		t.Fatal(err)
	}
	if removed.DocID != "new" {
		t.Errorf("supporting should be searched before legacy, removed %q", removed.DocID)
	}
}

func TestReplaceSlotEvictsOccupant(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store)
	docs := []models.SlottedDocument{
		{Slot: models.SlotPassportPicture, Document: models.Document{DocID: "old", PublicID: "p-old"}},
		{Slot: models.SlotSupporting, Document: models.Document{DocID: "sup", PublicID: "p-sup"}},
	}

	out := m.ReplaceSlot(context.Background(), docs, models.SlotPassportPicture,
		models.Document{DocID: "new", PublicID: "p-new"})

	var inSlot []string
	for _, sd := range out {
		if sd.Slot == models.SlotPassportPicture {
			inSlot = append(inSlot, sd.Document.DocID)
		}
	}
	if len(inSlot) != 1 || inSlot[0] != "new" {
		t.Errorf("passport slot occupants = %v, want [new]", inSlot)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "p-old" {
		t.Errorf("old occupant not deleted remotely: %v", store.deleted)
	}
}
