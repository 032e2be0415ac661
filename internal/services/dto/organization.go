package dto

type OrganizationRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
}

type AddOrganizationMemberRequest struct {
	TeamMemberID string `json:"teamMemberId" validate:"required,uuid"`
}
