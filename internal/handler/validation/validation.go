package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	"rental-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var customRules = map[string]validator.Func{
	"calendar_date":  calendarDate,
	"payment_type":   paymentType,
	"payment_status": paymentStatus,
	"listing_type":   listingType,
	"pricing_unit":   pricingUnit,
}

// Register installs the booking tags on gin's default validator and reports
// field names by their json tag.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errs.New("gin validator engine is not go-playground/validator")
	}

	v.RegisterTagNameFunc(jsonFieldName)
	for tag, fn := range customRules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return errs.Wrap(err, "register validation "+tag)
		}
	}
	return nil
}

func calendarDate(fl validator.FieldLevel) bool {
	_, err := booking.ParseDate(fl.Field().String())
	return err == nil
}

func paymentType(fl validator.FieldLevel) bool {
	_, err := booking.NewPaymentType(fl.Field().String())
	return err == nil
}

func paymentStatus(fl validator.FieldLevel) bool {
	_, err := booking.NewPaymentStatus(fl.Field().String())
	return err == nil
}

func listingType(fl validator.FieldLevel) bool {
	return property.ListingType(fl.Field().String()).IsValid()
}

func pricingUnit(fl validator.FieldLevel) bool {
	return property.PricingUnit(fl.Field().String()).IsValid()
}

func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

// FieldErrors turns binding failures into per-field messages. It returns nil
// when err did not come from the validator (malformed JSON and the like).
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "calendar_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "payment_type":
		return fmt.Sprintf("%s must be one of: pay_full pay_deposit pay_later", fe.Field())
	case "payment_status":
		return fmt.Sprintf("%s must be one of: pending partially_paid paid", fe.Field())
	case "listing_type":
		return fmt.Sprintf("%s must be one of: rent sale", fe.Field())
	case "pricing_unit":
		return fmt.Sprintf("%s must be one of: Per Day, Per Week, Per Month", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
