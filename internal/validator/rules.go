package validator

import (
	"log"
	"regexp"

	"outbound_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// registerCustomRules registers the enum rules built on models/statuses.go.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-team-role", validateTeamRole)
	mustRegister("is-item-type", validateItemType)
	mustRegister("is-plan", validatePlan)
	mustRegister("is-hex-color", validateHexColor)
}

// Empty values pass every rule below; 'required' handles them.

func validateTeamRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.TeamRole(value).IsValid()
}

func validateItemType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ItemType(value).IsValid()
}

func validatePlan(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Plan(value).IsValid() && models.Plan(value) != models.PlanFree
}

func validateHexColor(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return hexColorPattern.MatchString(value)
}
