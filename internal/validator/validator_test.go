package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inviteForm struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,is-team-role"`
}

type brandingForm struct {
	Plan  string `json:"plan" validate:"omitempty,is-plan"`
	Color string `json:"primaryColor" validate:"is-hex-color"`
	Type  string `json:"type" validate:"is-item-type"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&inviteForm{Email: "not-an-email", Role: "OWNER"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Must be a valid email address", verr.Errors["email"])
	assert.Equal(t, "Must be one of: VIEWER, EDITOR, ADMIN", verr.Errors["role"])
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&inviteForm{Email: "a@b.co", Role: "EDITOR"}))
	assert.NoError(t, v.Validate(&brandingForm{Plan: "ENTERPRISE", Color: "#1A2b3C", Type: "VIDEO"}))
	assert.NoError(t, v.Validate(&brandingForm{}))

	tests := []struct {
		name  string
		form  brandingForm
		field string
	}{
		{"free plan is not purchasable", brandingForm{Plan: "FREE"}, "plan"},
		{"unknown plan", brandingForm{Plan: "GOLD"}, "plan"},
		{"short hex color", brandingForm{Color: "#fff"}, "primaryColor"},
		{"unknown item type", brandingForm{Type: "PDF"}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.form)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Errors, tt.field)
		})
	}
}
