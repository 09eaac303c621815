package request

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/sangkips/cafepos-api/internal/domain/attendance"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/pkg/apperror"
)

// RegisterValidators installs the custom tags on gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return Register(v)
}

// Register installs the custom tags and type handling on v.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	tags := map[string]validator.Func{
		"pin":            validPIN,
		"role":           validRole,
		"payment_method": validPaymentMethod,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func validPIN(fl validator.FieldLevel) bool {
	pin := fl.Field().String()
	if len(pin) < attendance.MinPINLength || len(pin) > 32 {
		return false
	}
	for _, r := range pin {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func validRole(fl validator.FieldLevel) bool {
	return enum.Role(fl.Field().String()).IsValid()
}

func validPaymentMethod(fl validator.FieldLevel) bool {
	return enum.PaymentMethod(fl.Field().String()).IsValid()
}

// FieldErrors converts binding failures into per-field messages. ok is false
// when err is not a validation failure (malformed JSON, wrong types).
func FieldErrors(err error) ([]apperror.FieldError, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	out := make([]apperror.FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, apperror.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out, true
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min", "gte":
		return "Must be at least " + fe.Param()
	case "max", "lte":
		return "Must be at most " + fe.Param()
	case "eqfield":
		return "Must match " + fe.Param()
	case "alphanum":
		return "Must contain only letters and digits"
	case "pin":
		return fmt.Sprintf("PIN must be at least %d characters without spaces", attendance.MinPINLength)
	case "role":
		return "Must be one of admin, manager, cashier"
	case "payment_method":
		return "Unknown payment method"
	}
	return "Invalid value"
}
