// Package documents manages uploaded-file metadata attached to bookings and
// dependants, delegating the bytes to an object store.
package documents

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"atlas/models"
	"atlas/storage"
	"atlas/utils"
)

var ErrNotAttached = errors.New("document not attached to parent")

type Manager struct {
	store storage.ObjectStore
}

func NewManager(store storage.ObjectStore) *Manager {
	return &Manager{store: store}
}

// Attach uploads the bytes under the parent's folder key and returns the
// metadata record the caller appends and persists.
func (m *Manager) Attach(ctx context.Context, r io.Reader, fileName, folder string) (models.Document, error) {
	obj, err := m.store.Upload(ctx, r, utils.SanitizeFilename(fileName), folder)
	if err != nil {
		return models.Document{}, err
	}
	return models.Document{
		DocID:      utils.GenerateID(16),
		Name:       utils.SanitizeFilename(fileName),
		URL:        obj.URL,
		PublicID:   obj.PublicID,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func matches(d models.Document, key string) bool {
	return d.DocID == key || d.PublicID == key
}

// deleteRemote asks the store to drop the object. Failure leaves an
// orphaned remote object, which we accept: the local reference is removed
// regardless.
func (m *Manager) deleteRemote(ctx context.Context, d models.Document) {
	if err := m.store.Delete(ctx, d.PublicID); err != nil {
		log.Printf("[documents] remote delete of %s failed: %v", d.PublicID, err)
	}
}

// Detach removes the entry matching docid or publicid from a plain
// document list (bookings).
func (m *Manager) Detach(ctx context.Context, docs []models.Document, key string) ([]models.Document, models.Document, error) {
	for i, d := range docs {
		if matches(d, key) {
			m.deleteRemote(ctx, d)
			return append(docs[:i:i], docs[i+1:]...), d, nil
		}
	}
	return docs, models.Document{}, ErrNotAttached
}

// DetachSlotted removes the first match from a dependant's tagged slot
// list, searching slots in models.DetachOrder.
func (m *Manager) DetachSlotted(ctx context.Context, docs []models.SlottedDocument, key string) ([]models.SlottedDocument, models.Document, error) {
	for _, slot := range models.DetachOrder {
		for i, sd := range docs {
			if sd.Slot != slot || !matches(sd.Document, key) {
				continue
			}
			m.deleteRemote(ctx, sd.Document)
			return append(docs[:i:i], docs[i+1:]...), sd.Document, nil
		}
	}
	return docs, models.Document{}, ErrNotAttached
}

// ReplaceSlot attaches into a single-occupancy slot (the two passport
// slots), detaching any existing occupant first.
func (m *Manager) ReplaceSlot(ctx context.Context, docs []models.SlottedDocument, slot models.SlotKind, doc models.Document) []models.SlottedDocument {
	for i, sd := range docs {
		if sd.Slot == slot {
			m.deleteRemote(ctx, sd.Document)
			docs = append(docs[:i:i], docs[i+1:]...)
			break
		}
	}
	return append(docs, models.SlottedDocument{Slot: slot, Document: doc})
}
