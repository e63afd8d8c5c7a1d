package handlers

import (
	"github.com/faithledger/church_admin_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerCustomValidators attaches domain-aware rules to gin's binding
// validator so malformed payloads fail at bind time instead of in services.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("approvallevel", func(fl validator.FieldLevel) bool {
		return domain.RoleForLevel(domain.ApprovalLevel(fl.Field().String())) != ""
	})
}
