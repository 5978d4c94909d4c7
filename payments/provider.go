package payments

import (
	"context"
	"errors"
	"time"

	"atlas/models"
	"atlas/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrIntentNotFound = errors.New("payment intent not found")

// Provider is the payment-gateway contract. Intent failures are fatal to
// the request, unlike mail and storage.
type Provider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (models.PaymentIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (models.PaymentIntent, error)
}

// LocalProvider keeps intents in our own collection and trusts the signed
// webhook to report their outcome. Swap in a real gateway client behind
// the same interface in production.
type LocalProvider struct {
	intents *mongo.Collection
}

func NewLocalProvider(intents *mongo.Collection) *LocalProvider {
	return &LocalProvider{intents: intents}
}

func (p *LocalProvider) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (models.PaymentIntent, error) {
	if amountCents <= 0 {
		return models.PaymentIntent{}, errors.New("amount must be positive")
	}
	intent := models.PaymentIntent{
		IntentID:     "pi_" + utils.GenerateID(24),
		ClientSecret: "cs_" + utils.GenerateID(32),
		AmountCents:  amountCents,
		Currency:     currency,
		Status:       models.IntentRequiresPayment,
		Metadata:     metadata,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := p.intents.InsertOne(ctx, intent); err != nil {
		return models.PaymentIntent{}, err
	}
	return intent, nil
}

func (p *LocalProvider) RetrieveIntent(ctx context.Context, intentID string) (models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := p.intents.FindOne(ctx, bson.M{"intentid": intentID}).Decode(&intent)
	if err == mongo.ErrNoDocuments {
		return models.PaymentIntent{}, ErrIntentNotFound
	}
	if err != nil {
		return models.PaymentIntent{}, err
	}
	return intent, nil
}

func (p *LocalProvider) setStatus(ctx context.Context, intentID, status string) error {
	_, err := p.intents.UpdateOne(ctx,
		bson.M{"intentid": intentID},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}
