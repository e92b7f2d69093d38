package validation

import (
	"maintenance-system/internal/entities"

	"github.com/go-playground/validator/v10"
)

func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"user_role": func(fl validator.FieldLevel) bool {
			return entities.UserRole(fl.Field().String()).Valid()
		},
		"request_type": func(fl validator.FieldLevel) bool {
			return entities.RequestType(fl.Field().String()).Valid()
		},
		"request_priority": func(fl validator.FieldLevel) bool {
			return entities.RequestPriority(fl.Field().String()).Valid()
		},
		"request_stage": func(fl validator.FieldLevel) bool {
			return entities.RequestStage(fl.Field().String()).Valid()
		},
		"equipment_status": func(fl validator.FieldLevel) bool {
			return entities.EquipmentStatus(fl.Field().String()).Valid()
		},
		"maintenance_for": func(fl validator.FieldLevel) bool {
			return entities.TargetKind(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
