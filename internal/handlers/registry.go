package handlers

// AppHandlers holds every HTTP handler.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	TeamHandler         *TeamHandler
	ItemHandler         *ItemHandler
	UploadHandler       *UploadHandler
	CampaignHandler     *CampaignHandler
	OrganizationHandler *OrganizationHandler
	AnalyticsHandler    *AnalyticsHandler
	AccountHandler      *AccountHandler
	ChatHandler         *ChatHandler
	PublicHandler       *PublicHandler
}
