package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"outbound_backend/internal/models"
	"outbound_backend/internal/payments"
	"outbound_backend/internal/repositories"
	"outbound_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

type memoryUserRepo struct {
	repositories.UserRepository
	users   map[string]*models.User
	updates map[string]map[string]interface{}
}

func newMemoryUserRepo(users ...*models.User) *memoryUserRepo {
	r := &memoryUserRepo{users: map[string]*models.User{}, updates: map[string]map[string]interface{}{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memoryUserRepo) FindByStripeCustomerID(db *gorm.DB, customerID string) (*models.User, error) {
	for _, u := range r.users {
		if u.StripeCustomerID != nil && *u.StripeCustomerID == customerID {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memoryUserRepo) UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	if r.updates[id] == nil {
		r.updates[id] = map[string]interface{}{}
	}
	for k, v := range fields {
		r.updates[id][k] = v
	}
	return nil
}

func signedEvent(t *testing.T, eventType, object string) ([]byte, string) {
	t.Helper()
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_test",
		"object": "event",
		"api_version": "2020-08-27",
		"type": %q,
		"data": {"object": %s}
	}`, eventType, object))

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func newTestBilling(users *memoryUserRepo) BillingService {
	return NewBillingService(
		users,
		payments.NewStripeGateway("sk_test_unused", testWebhookSecret),
		BillingConfig{Prices: map[string]string{
			string(models.PlanIndividual):    "price_individual",
			string(models.PlanSmallBusiness): "price_small",
		}},
		Settings{FrontendURL: "https://app.example.com"},
	)
}

func customer(id string) *string { return &id }

func TestHandleWebhook_CheckoutCompletedActivatesPlan(t *testing.T) {
	users := newMemoryUserRepo(&models.User{BaseModel: models.BaseModel{ID: "user-1"}, Email: "a@example.com"})
	svc := newTestBilling(users)

	payload, header := signedEvent(t, "checkout.session.completed", `{
		"id": "cs_test_1",
		"object": "checkout.session",
		"client_reference_id": "user-1",
		"customer": "cus_123",
		"subscription": "sub_123",
		"payment_intent": "pi_123",
		"metadata": {"userId": "user-1", "plan": "SMALL_BUSINESS"}
	}`)

	require.NoError(t, svc.HandleWebhook(context.Background(), nil, payload, header))

	fields := users.updates["user-1"]
	require.NotNil(t, fields)
	assert.Equal(t, models.PlanSmallBusiness, fields["plan"])
	assert.Equal(t, models.PlanSmallBusiness.StorageLimit(), fields["storage_limit"])
	assert.Equal(t, models.SubscriptionStatusActive, fields["subscription_status"])
	assert.Equal(t, "cus_123", fields["stripe_customer_id"])
	assert.Equal(t, "sub_123", fields["stripe_subscription_id"])
	assert.Equal(t, "pi_123", fields["last_payment_intent_id"])
}

func TestHandleWebhook_SubscriptionDeletedRevertsToFree(t *testing.T) {
	users := newMemoryUserRepo(&models.User{
		BaseModel:        models.BaseModel{ID: "user-1"},
		Plan:             models.PlanIndividual,
		StripeCustomerID: customer("cus_123"),
	})
	svc := newTestBilling(users)

	payload, header := signedEvent(t, "customer.subscription.deleted", `{
		"id": "sub_123",
		"object": "subscription",
		"customer": "cus_123",
		"status": "canceled"
	}`)

	require.NoError(t, svc.HandleWebhook(context.Background(), nil, payload, header))

	fields := users.updates["user-1"]
	assert.Equal(t, models.PlanFree, fields["plan"])
	assert.Equal(t, models.SubscriptionStatusCanceled, fields["subscription_status"])
}

func TestHandleWebhook_SubscriptionUpdatedMapsPrice(t *testing.T) {
	users := newMemoryUserRepo(&models.User{
		BaseModel:        models.BaseModel{ID: "user-1"},
		StripeCustomerID: customer("cus_123"),
	})
	svc := newTestBilling(users)

	payload, header := signedEvent(t, "customer.subscription.updated", `{
		"id": "sub_123",
		"object": "subscription",
		"customer": "cus_123",
		"status": "past_due",
		"items": {"object": "list", "data": [{"id": "si_1", "object": "subscription_item", "price": {"id": "price_individual", "object": "price"}}]}
	}`)

	require.NoError(t, svc.HandleWebhook(context.Background(), nil, payload, header))

	fields := users.updates["user-1"]
	assert.Equal(t, models.PlanIndividual, fields["plan"])
	assert.Equal(t, models.SubscriptionStatusPastDue, fields["subscription_status"])
}

func TestHandleWebhook_UnknownCustomerIsAcknowledged(t *testing.T) {
	users := newMemoryUserRepo()
	svc := newTestBilling(users)

	payload, header := signedEvent(t, "charge.refunded", `{
		"id": "ch_1",
		"object": "charge",
		"customer": "cus_gone",
		"refunded": true
	}`)

	assert.NoError(t, svc.HandleWebhook(context.Background(), nil, payload, header))
	assert.Empty(t, users.updates)
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	svc := newTestBilling(newMemoryUserRepo())

	payload, _ := signedEvent(t, "checkout.session.completed", `{"id": "cs_1", "object": "checkout.session"}`)

	err := svc.HandleWebhook(context.Background(), nil, payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, apperrors.ErrInvalidWebhookSignature)
}

func TestStripeError(t *testing.T) {
	err := stripeError(&stripe.Error{Msg: "Your card was declined."})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Equal(t, "Your card was declined.", appErr.Message)

	err = stripeError(errors.New("dial tcp: timeout"))
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 502, appErr.HTTPCode)
}
