package models

import "time"

// Document is file metadata embedded in a Booking or Dependant. The bytes
// themselves live in the object store under PublicID.
type Document struct {
	DocID      string    `json:"docid" bson:"docid"`
	Name       string    `json:"name" bson:"name"`
	URL        string    `json:"url" bson:"url"`
	PublicID   string    `json:"publicid" bson:"publicid"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

// SlotKind tags which dependant document slot an upload belongs to.
type SlotKind string

const (
	SlotPassportPicture       SlotKind = "passport_picture"
	SlotInternationalPassport SlotKind = "international_passport"
	SlotSupporting            SlotKind = "supporting"
	// untagged entries migrated from older records
	SlotLegacy SlotKind = "legacy"
)

// DetachOrder is the slot search order when removing by id or public id:
// first match wins.
var DetachOrder = []SlotKind{
	SlotPassportPicture,
	SlotInternationalPassport,
	SlotSupporting,
	SlotLegacy,
}

func ValidSlot(s SlotKind) bool {
	switch s {
	case SlotPassportPicture, SlotInternationalPassport, SlotSupporting, SlotLegacy:
		return true
	}
	return false
}

// SlottedDocument is one entry in a dependant's tagged document list.
type SlottedDocument struct {
	Slot     SlotKind `json:"slot" bson:"slot"`
	Document Document `json:"document" bson:"document"`
}
