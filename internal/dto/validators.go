package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// pinValidator accepts the 5-digit numeric secret PIN PocketPay issues.
var pinValidator validator.Func = func(fl validator.FieldLevel) bool {
	pin := fl.Field().String()
	if len(pin) != 5 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RegisterCustomValidators attaches PocketPay validation rules to gin's
// binding engine. Call once at startup.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("pocketpay_pin", pinValidator)
	}
}
