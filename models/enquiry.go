package models

import "time"

// Enquiry is a contact-form submission; a copy is mailed to the admin
// address.
type Enquiry struct {
	EnquiryID string    `json:"enquiryid" bson:"enquiryid"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Subject   string    `json:"subject" bson:"subject"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
