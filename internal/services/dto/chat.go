package dto

type CreateConversationRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}
