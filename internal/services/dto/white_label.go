package dto

type WhiteLabelRequest struct {
	BrandName    *string `json:"brandName" validate:"omitempty,max=255"`
	BrandLogoURL *string `json:"brandLogoUrl" validate:"omitempty,url"`
	BrandColor   *string `json:"brandColor" validate:"omitempty,is-hex-color"`
	CustomDomain *string `json:"customDomain" validate:"omitempty,fqdn"`
}

type WhiteLabelResponse struct {
	BrandName    string `json:"brandName"`
	BrandLogoURL string `json:"brandLogoUrl"`
	BrandColor   string `json:"brandColor"`
	CustomDomain string `json:"customDomain"`
}
