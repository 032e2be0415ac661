package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/payments"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

type BillingConfig struct {
	Prices    map[string]string // plan -> Stripe price ID
	ReturnURL string
}

type BillingService interface {
	CreateCheckout(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.CheckoutRequest) (*dto.SessionResponse, error)
	CreatePortal(ctx context.Context, db *gorm.DB, who identity.Identity) (*dto.SessionResponse, error)
	// HandleWebhook verifies and applies one Stripe event. Unknown event types are acknowledged and ignored.
	HandleWebhook(ctx context.Context, db *gorm.DB, payload []byte, signature string) error
}

type billingService struct {
	userRepo repositories.UserRepository
	gateway  payments.Gateway
	config   BillingConfig
	settings Settings
}

func NewBillingService(
	userRepo repositories.UserRepository,
	gateway payments.Gateway,
	config BillingConfig,
	settings Settings,
) BillingService {
	return &billingService{
		userRepo: userRepo,
		gateway:  gateway,
		config:   config,
		settings: settings,
	}
}

// ============================================
// Checkout and portal
// ============================================

func (s *billingService) CreateCheckout(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.CheckoutRequest) (*dto.SessionResponse, error) {
	priceID, ok := s.config.Prices[string(req.Plan)]
	if !ok || priceID == "" {
		return nil, apperrors.NewBadRequestError("Plan is not available for purchase")
	}

	user, err := s.findUser(db, who.EffectiveUserID)
	if err != nil {
		return nil, err
	}

	customerID := ""
	if user.StripeCustomerID != nil {
		customerID = *user.StripeCustomerID
	}
	if customerID == "" {
		customerID, err = s.gateway.CreateCustomer(user.Email, user.ID)
		if err != nil {
			return nil, stripeError(err)
		}
		if err := s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{"stripe_customer_id": customerID}); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	base := strings.TrimRight(s.returnURL(), "/")
	url, err := s.gateway.CreateCheckoutSession(payments.CheckoutParams{
		CustomerID: customerID,
		PriceID:    priceID,
		UserID:     user.ID,
		Plan:       string(req.Plan),
		SuccessURL: base + "?checkout=success",
		CancelURL:  base + "?checkout=cancelled",
	})
	if err != nil {
		return nil, stripeError(err)
	}

	logger.CtxInfo(ctx, "Checkout session created", "user_id", user.ID, "plan", req.Plan)
	return &dto.SessionResponse{URL: url}, nil
}

func (s *billingService) CreatePortal(ctx context.Context, db *gorm.DB, who identity.Identity) (*dto.SessionResponse, error) {
	user, err := s.findUser(db, who.EffectiveUserID)
	if err != nil {
		return nil, err
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		return nil, apperrors.ErrNoStripeCustomer
	}

	url, err := s.gateway.CreatePortalSession(*user.StripeCustomerID, s.returnURL())
	if err != nil {
		return nil, stripeError(err)
	}
	return &dto.SessionResponse{URL: url}, nil
}

// ============================================
// Webhook
// ============================================

func (s *billingService) HandleWebhook(ctx context.Context, db *gorm.DB, payload []byte, signature string) error {
	event, err := s.gateway.ConstructEvent(payload, signature)
	if err != nil {
		logger.CtxWarn(ctx, "Rejected Stripe webhook", "error", err.Error())
		return apperrors.ErrInvalidWebhookSignature
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return apperrors.NewBadRequestError("Malformed checkout session payload")
		}
		return s.applyCheckout(ctx, db, &sess)

	case stripe.EventTypeCustomerSubscriptionUpdated, stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return apperrors.NewBadRequestError("Malformed subscription payload")
		}
		return s.applySubscription(ctx, db, &sub, event.Type == stripe.EventTypeCustomerSubscriptionDeleted)

	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return apperrors.NewBadRequestError("Malformed charge payload")
		}
		return s.applyRefund(ctx, db, &charge)

	default:
		logger.CtxDebug(ctx, "Ignoring Stripe event", "type", string(event.Type))
		return nil
	}
}

func (s *billingService) applyCheckout(ctx context.Context, db *gorm.DB, sess *stripe.CheckoutSession) error {
	userID := sess.ClientReferenceID
	if userID == "" {
		userID = sess.Metadata["userId"]
	}
	plan := models.Plan(sess.Metadata["plan"])
	if userID == "" || !plan.IsValid() {
		logger.CtxWarn(ctx, "Checkout session without user or plan", "session_id", sess.ID)
		return nil
	}

	fields := map[string]interface{}{
		"plan":                plan,
		"storage_limit":       plan.StorageLimit(),
		"subscription_status": models.SubscriptionStatusActive,
	}
	if sess.Customer != nil && sess.Customer.ID != "" {
		fields["stripe_customer_id"] = sess.Customer.ID
	}
	if sess.Subscription != nil && sess.Subscription.ID != "" {
		fields["stripe_subscription_id"] = sess.Subscription.ID
	}
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		fields["last_payment_intent_id"] = sess.PaymentIntent.ID
	}

	if err := s.userRepo.UpdateFields(db, userID, fields); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxWarn(ctx, "Checkout completed for unknown user", "user_id", userID)
			return nil
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Plan activated", "user_id", userID, "plan", plan)
	return nil
}

func (s *billingService) applySubscription(ctx context.Context, db *gorm.DB, sub *stripe.Subscription, deleted bool) error {
	if sub.Customer == nil || sub.Customer.ID == "" {
		return nil
	}
	user, err := s.userRepo.FindByStripeCustomerID(db, sub.Customer.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxWarn(ctx, "Subscription event for unknown customer", "customer_id", sub.Customer.ID)
			return nil
		}
		return apperrors.InternalError(err)
	}

	fields := map[string]interface{}{}
	if deleted {
		fields["plan"] = models.PlanFree
		fields["storage_limit"] = models.PlanFree.StorageLimit()
		fields["subscription_status"] = models.SubscriptionStatusCanceled
		fields["stripe_subscription_id"] = nil
	} else {
		fields["subscription_status"] = subscriptionStatus(sub.Status)
		fields["stripe_subscription_id"] = sub.ID
		if plan, ok := s.planForSubscription(sub); ok {
			fields["plan"] = plan
			fields["storage_limit"] = plan.StorageLimit()
		}
	}

	if err := s.userRepo.UpdateFields(db, user.ID, fields); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Subscription synced", "user_id", user.ID, "status", string(sub.Status), "deleted", deleted)
	return nil
}

// applyRefund downgrades accounts refunded outside the in-app refund flow.
// Accounts closed by that flow are already gone and are skipped.
func (s *billingService) applyRefund(ctx context.Context, db *gorm.DB, charge *stripe.Charge) error {
	if !charge.Refunded || charge.Customer == nil || charge.Customer.ID == "" {
		return nil
	}
	user, err := s.userRepo.FindByStripeCustomerID(db, charge.Customer.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"plan":                models.PlanFree,
		"storage_limit":       models.PlanFree.StorageLimit(),
		"subscription_status": models.SubscriptionStatusCanceled,
	})
	if err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Charge refunded, account downgraded", "user_id", user.ID, "charge_id", charge.ID)
	return nil
}

// ============================================
// Helpers
// ============================================

func (s *billingService) planForSubscription(sub *stripe.Subscription) (models.Plan, bool) {
	if sub.Items == nil {
		return "", false
	}
	for _, item := range sub.Items.Data {
		if item == nil || item.Price == nil {
			continue
		}
		for plan, priceID := range s.config.Prices {
			if priceID == item.Price.ID && models.Plan(plan).IsValid() {
				return models.Plan(plan), true
			}
		}
	}
	return "", false
}

func (s *billingService) returnURL() string {
	if s.config.ReturnURL != "" {
		return s.config.ReturnURL
	}
	return strings.TrimRight(s.settings.FrontendURL, "/") + "/billing"
}

func (s *billingService) findUser(db *gorm.DB, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func subscriptionStatus(status stripe.SubscriptionStatus) models.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return models.SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid, stripe.SubscriptionStatusIncomplete:
		return models.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return models.SubscriptionStatusCanceled
	default:
		return models.SubscriptionStatusNone
	}
}

// stripeError surfaces Stripe API errors as 400 with Stripe's message.
func stripeError(err error) error {
	if msg, ok := payments.IsStripeError(err); ok {
		return apperrors.Wrap(err, apperrors.CodePaymentError, "billing", msg, http.StatusBadRequest)
	}
	return apperrors.ExternalServiceError(err, "billing", "Payment provider is unavailable")
}
