package services

import (
	"context"
	"testing"

	"outbound_backend/internal/email"
	"outbound_backend/internal/identity"
	"outbound_backend/internal/models"
	"outbound_backend/internal/payments"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

type fakeGateway struct {
	payments.Gateway
	refund    *stripe.Refund
	refundErr error
	refunded  []string
}

func (g *fakeGateway) RefundPaymentIntent(paymentIntentID, reason string) (*stripe.Refund, error) {
	g.refunded = append(g.refunded, paymentIntentID)
	return g.refund, g.refundErr
}

type memoryRefundRepo struct {
	repositories.RefundRepository
	saved []models.RefundRequest
}

func (r *memoryRefundRepo) Create(db *gorm.DB, refund *models.RefundRequest) error {
	refund.ID = "refund-1"
	r.saved = append(r.saved, *refund)
	return nil
}

func (r *memoryRefundRepo) Update(db *gorm.DB, refund *models.RefundRequest) error {
	r.saved[len(r.saved)-1] = *refund
	return nil
}

type deletingUserService struct {
	UserService
	deleted []string
}

func (s *deletingUserService) DeleteAccount(ctx context.Context, db *gorm.DB, userID string) error {
	s.deleted = append(s.deleted, userID)
	return nil
}

type refundFixture struct {
	users    *memoryUserRepo
	refunds  *memoryRefundRepo
	accounts *deletingUserService
	gateway  *fakeGateway
	mailer   *email.MockProvider
	svc      RefundService
}

func newRefundFixture(t *testing.T, user *models.User) *refundFixture {
	t.Helper()
	tm, err := email.NewDefaultTemplateManager()
	require.NoError(t, err)

	f := &refundFixture{
		users:    newMemoryUserRepo(user),
		refunds:  &memoryRefundRepo{},
		accounts: &deletingUserService{},
		gateway:  &fakeGateway{refund: &stripe.Refund{ID: "re_1", Amount: 4900, Currency: stripe.CurrencyUSD}},
		mailer:   email.NewMockProvider(tm),
	}
	f.svc = NewRefundService(f.users, f.refunds, f.accounts, f.gateway, f.mailer)
	return f
}

func owner(id string) identity.Identity {
	return identity.Identity{CallerID: id, EffectiveUserID: id}
}

func TestRequestRefund_RefundsNotifiesAndCloses(t *testing.T) {
	f := newRefundFixture(t, &models.User{
		BaseModel:           models.BaseModel{ID: "user-1"},
		Email:               "owner@example.com",
		Name:                "Sam",
		LastPaymentIntentID: customer("pi_1"),
	})

	resp, err := f.svc.RequestRefund(context.Background(), nil, owner("user-1"), &dto.RefundRequest{Reason: " not a fit "})
	require.NoError(t, err)

	assert.Equal(t, "re_1", resp.RefundID)
	assert.Equal(t, int64(4900), resp.Amount)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, []string{"pi_1"}, f.gateway.refunded)

	require.Len(t, f.refunds.saved, 1)
	assert.Equal(t, models.RefundStatusSucceeded, f.refunds.saved[0].Status)
	assert.Equal(t, "not a fit", f.refunds.saved[0].Reason)

	sent := f.mailer.Messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTMLBody, "49.00 USD")
	assert.Equal(t, []string{"user-1"}, f.accounts.deleted)
}

func TestRequestRefund_NoPayment(t *testing.T) {
	f := newRefundFixture(t, &models.User{BaseModel: models.BaseModel{ID: "user-1"}})

	_, err := f.svc.RequestRefund(context.Background(), nil, owner("user-1"), &dto.RefundRequest{})

	assert.ErrorIs(t, err, apperrors.ErrNoRefundablePayment)
	assert.Empty(t, f.gateway.refunded)
	assert.Empty(t, f.accounts.deleted)
}

func TestRequestRefund_StripeFailureKeepsAccount(t *testing.T) {
	f := newRefundFixture(t, &models.User{
		BaseModel:           models.BaseModel{ID: "user-1"},
		LastPaymentIntentID: customer("pi_1"),
	})
	f.gateway.refund = nil
	f.gateway.refundErr = &stripe.Error{Msg: "Charge already refunded"}

	_, err := f.svc.RequestRefund(context.Background(), nil, owner("user-1"), &dto.RefundRequest{})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Equal(t, "Charge already refunded", appErr.Message)
	assert.Equal(t, models.RefundStatusFailed, f.refunds.saved[0].Status)
	assert.Empty(t, f.accounts.deleted)
	assert.Empty(t, f.mailer.Messages())
}

func TestFormatMinorUnits(t *testing.T) {
	assert.Equal(t, "49.00", formatMinorUnits(4900))
	assert.Equal(t, "0.05", formatMinorUnits(5))
	assert.Equal(t, "120.99", formatMinorUnits(12099))
}
