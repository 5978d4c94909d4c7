package models

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Booking struct {
	BookingID       string     `json:"bookingid" bson:"bookingid"`
	TourID          string     `json:"tourid" bson:"tourid"`
	UserID          string     `json:"userid,omitempty" bson:"userid,omitempty"`
	CustomerName    string     `json:"customerName" bson:"customerName"`
	CustomerEmail   string     `json:"customerEmail" bson:"customerEmail"`
	CustomerPhone   string     `json:"customerPhone,omitempty" bson:"customerPhone,omitempty"`
	Travelers       int        `json:"numberOfTravelers" bson:"numberOfTravelers"`
	TotalAmount     float64    `json:"totalAmount" bson:"totalAmount"`
	PaymentStatus   string     `json:"paymentStatus" bson:"paymentStatus"`
	PaymentIntentID string     `json:"paymentIntentId,omitempty" bson:"paymentIntentId,omitempty"`
	BookingStatus   string     `json:"bookingStatus" bson:"bookingStatus"`
	BookingDate     string     `json:"bookingDate" bson:"bookingDate"`
	SpecialRequests string     `json:"specialRequests,omitempty" bson:"specialRequests,omitempty"`
	Documents       []Document `json:"documents" bson:"documents"`

	ApplicationStatus string     `json:"userApplicationStatus" bson:"userApplicationStatus"`
	ReviewedAt        *time.Time `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	ReviewedBy        string     `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func ValidBookingStatus(s string) bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCancelled
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}
