package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories for wrapping repository errors
// =========================================================================

// ErrNotFound maps a repository "not found" error to a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Predefined errors
// =========================================================================

// ErrRolePermission is the static message returned for every team role violation.
var ErrRolePermission = New(
	CodeForbidden,
	"team",
	"You do not have permission to perform this action",
	http.StatusForbidden,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Auth ---

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrInvalidTwoFactorCode = New(
	CodeInvalidToken,
	"security",
	"Invalid or expired verification code",
	http.StatusUnauthorized,
)

// --- Uploads & storage ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

var ErrStorageLimitExceeded = New(
	CodeLimitExceeded,
	"storage",
	"Storage limit exceeded. Please upgrade your plan.",
	http.StatusForbidden,
)

// --- Content ---

var ErrItemNotFound = New(CodeNotFound, "item", "Item not found", http.StatusNotFound)

var ErrCampaignNotFound = New(CodeNotFound, "campaign", "Campaign not found", http.StatusNotFound)

var ErrOrganizationNotFound = New(CodeNotFound, "organization", "Organization not found", http.StatusNotFound)

var ErrCampaignPasswordRequired = New(
	CodeUnauthorized,
	"campaign",
	"This campaign is password protected",
	http.StatusUnauthorized,
)

// --- Team ---

var ErrTeamMemberNotFound = New(CodeNotFound, "team", "Team member not found", http.StatusNotFound)

var ErrAlreadyInvited = New(
	CodeAlreadyExists,
	"team",
	"This email has already been invited",
	http.StatusConflict,
)

var ErrCannotInviteSelf = New(
	CodeInvalidOperation,
	"team",
	"You cannot invite yourself",
	http.StatusBadRequest,
)

// --- Chat ---

var ErrConversationNotFound = New(CodeNotFound, "chat", "Conversation not found", http.StatusNotFound)

var ErrConversationClosed = New(
	CodeInvalidStatus,
	"chat",
	"This conversation is closed",
	http.StatusConflict,
)

// --- Billing ---

var ErrNoStripeCustomer = New(
	CodeInvalidOperation,
	"billing",
	"No billing account found for this user",
	http.StatusBadRequest,
)

var ErrNoRefundablePayment = New(
	CodeInvalidOperation,
	"refund",
	"No refundable payment found",
	http.StatusBadRequest,
)

var ErrInvalidWebhookSignature = New(
	CodeInvalidToken,
	"billing",
	"Webhook signature verification failed",
	http.StatusBadRequest,
)
