package models

import "time"

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

type Review struct {
	ReviewID  string    `json:"reviewid" bson:"reviewid"`
	TourID    string    `json:"tourid" bson:"tourid"`
	UserID    string    `json:"userid" bson:"userid"`
	Rating    int       `json:"rating" bson:"rating"` // 1..5
	Comment   string    `json:"comment" bson:"comment"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func ValidReviewStatus(s string) bool {
	return s == ReviewPending || s == ReviewApproved || s == ReviewRejected
}
