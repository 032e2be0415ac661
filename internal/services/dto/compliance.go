package dto

import "outbound_backend/internal/compliance"

type ComplianceOverview struct {
	AverageScore int                 `json:"averageScore"`
	Campaigns    []compliance.Report `json:"campaigns"`
}
