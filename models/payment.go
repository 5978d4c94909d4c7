package models

import "time"

const (
	IntentRequiresPayment = "requires_payment"
	IntentSucceeded       = "succeeded"
	IntentFailed          = "failed"
)

// PaymentIntent mirrors what the payment provider stores for an intent.
type PaymentIntent struct {
	IntentID     string            `json:"id" bson:"intentid"`
	ClientSecret string            `json:"clientSecret" bson:"client_secret"`
	AmountCents  int64             `json:"amount" bson:"amount"`
	Currency     string            `json:"currency" bson:"currency"`
	Status       string            `json:"status" bson:"status"`
	Metadata     map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at" bson:"created_at"`
}

// IdempotencyRecord caches a mutating response keyed by the client's
// Idempotency-Key header.
type IdempotencyRecord struct {
	Key         string                 `bson:"key"`
	Method      string                 `bson:"method"`
	Path        string                 `bson:"path"`
	UserID      string                 `bson:"user_id,omitempty"`
	RequestHash string                 `bson:"request_hash"`
	Response    map[string]interface{} `bson:"response,omitempty"`
	CreatedAt   time.Time              `bson:"created_at"`
	ExpiresAt   time.Time              `bson:"expires_at"`
}
