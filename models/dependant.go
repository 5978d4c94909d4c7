package models

import "time"

// Dependant is a travel companion attached to one booking. Documents are a
// tagged slot list; see SlotKind.
type Dependant struct {
	DependantID    string            `json:"dependantid" bson:"dependantid"`
	BookingID      string            `json:"bookingid" bson:"bookingid"`
	UserID         string            `json:"userid" bson:"userid"`
	Name           string            `json:"name" bson:"name"`
	Relationship   string            `json:"relationship" bson:"relationship"`
	DateOfBirth    string            `json:"dateOfBirth" bson:"dateOfBirth"`
	PassportNumber string            `json:"passportNumber,omitempty" bson:"passportNumber,omitempty"`
	PassportExpiry string            `json:"passportExpiry,omitempty" bson:"passportExpiry,omitempty"`
	Documents      []SlottedDocument `json:"documents" bson:"documents"`

	ApplicationStatus string     `json:"applicationStatus" bson:"applicationStatus"`
	ReviewedAt        *time.Time `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	ReviewedBy        string     `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// DependantProfile is the reusable person template a user keeps on their
// account, distinct from a booking-scoped Dependant.
type DependantProfile struct {
	ProfileID      string    `json:"profileid" bson:"profileid"`
	UserID         string    `json:"userid" bson:"userid"`
	Name           string    `json:"name" bson:"name"`
	Relationship   string    `json:"relationship" bson:"relationship"`
	DateOfBirth    string    `json:"dateOfBirth" bson:"dateOfBirth"`
	PassportNumber string    `json:"passportNumber,omitempty" bson:"passportNumber,omitempty"`
	PassportExpiry string    `json:"passportExpiry,omitempty" bson:"passportExpiry,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}
