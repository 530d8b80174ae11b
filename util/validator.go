package util

import (
	"errors"
	"reflect"
	"strings"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterValidation("category", validateCategory)
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func validateCategory(fl validator.FieldLevel) bool {
	var raw any
	if fl.Field().IsValid() && fl.Field().CanInterface() {
		raw = fl.Field().Interface()
	}
	_, err := category.Normalize(raw)
	return err == nil
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateRequest runs the struct tags on s and reports failures as a
// *model.ValidationError keyed by JSON field name.
func ValidateRequest(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := model.NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr.Err()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "can't be blank"
	case "max":
		return "is too long (maximum is " + fe.Param() + ")"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "category":
		return "is not a valid category"
	default:
		return "is invalid"
	}
}
