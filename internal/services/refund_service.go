package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"outbound_backend/internal/email"
	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/payments"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type RefundService interface {
	// RequestRefund refunds the last payment, notifies the owner and closes the account.
	RequestRefund(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.RefundRequest) (*dto.RefundResponse, error)
}

type refundService struct {
	userRepo    repositories.UserRepository
	refundRepo  repositories.RefundRepository
	userService UserService
	gateway     payments.Gateway
	mailer      email.Provider
}

func NewRefundService(
	userRepo repositories.UserRepository,
	refundRepo repositories.RefundRepository,
	userService UserService,
	gateway payments.Gateway,
	mailer email.Provider,
) RefundService {
	return &refundService{
		userRepo:    userRepo,
		refundRepo:  refundRepo,
		userService: userService,
		gateway:     gateway,
		mailer:      mailer,
	}
}

func (s *refundService) RequestRefund(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.RefundRequest) (*dto.RefundResponse, error) {
	user, err := s.userRepo.FindByID(db, who.EffectiveUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if user.LastPaymentIntentID == nil || *user.LastPaymentIntentID == "" {
		return nil, apperrors.ErrNoRefundablePayment
	}

	record := &models.RefundRequest{
		UserID: user.ID,
		Email:  user.Email,
		Reason: strings.TrimSpace(req.Reason),
		Status: models.RefundStatusPending,
	}
	if err := s.refundRepo.Create(db, record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	refund, err := s.gateway.RefundPaymentIntent(*user.LastPaymentIntentID, record.Reason)
	if err != nil {
		record.Status = models.RefundStatusFailed
		if updateErr := s.refundRepo.Update(db, record); updateErr != nil {
			logger.CtxWithError(ctx, "Failed to mark refund as failed", updateErr, "refund_request_id", record.ID)
		}
		return nil, stripeError(err)
	}

	record.StripeRefundID = refund.ID
	record.Amount = refund.Amount
	record.Currency = strings.ToUpper(string(refund.Currency))
	record.Status = models.RefundStatusSucceeded
	if err := s.refundRepo.Update(db, record); err != nil {
		// The money is already returned; keep closing the account.
		logger.CtxWithError(ctx, "Failed to record refund", err, "stripe_refund_id", refund.ID)
	}

	err = s.mailer.SendTemplate([]string{user.Email}, "Your Outbound Impact refund", email.TemplateRefundNotice, email.TemplateData{
		"Name":     user.Name,
		"Amount":   formatMinorUnits(refund.Amount),
		"Currency": record.Currency,
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to send refund notice", err, "user_id", user.ID)
	}

	if err := s.userService.DeleteAccount(ctx, db, user.ID); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Refund processed and account closed", "user_id", user.ID, "stripe_refund_id", refund.ID)
	return &dto.RefundResponse{
		RefundID: refund.ID,
		Amount:   refund.Amount,
		Currency: record.Currency,
	}, nil
}

// formatMinorUnits renders cents as a decimal amount.
func formatMinorUnits(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}
