package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/models"
	"github.com/kendall-kelly/complaint-desk-api/services"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the domain enum tags to gin's validator:
// complaint_status, complaint_priority and user_role. Field errors report json names.
func RegisterValidators() error {
	registerOnce.Do(func() {
		registerErr = registerValidators()
	})
	return registerErr
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	tags := map[string]func(string) bool{
		"complaint_status":   models.IsValidStatus,
		"complaint_priority": models.IsValidPriority,
		"user_role":          models.IsValidRole,
	}
	for tag, valid := range tags {
		valid := valid
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			return fmt.Errorf("registering %s: %w", tag, err)
		}
	}
	return nil
}

var errInvalidRequest = apperror.Validation("Invalid request data", nil)

// BindingError converts a ShouldBind error into a 400 with one entry per invalid field
func BindingError(err error) *apperror.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errInvalidRequest.WithDetails([]services.FieldError{{
			Field:   "body",
			Code:    "invalid",
			Message: err.Error(),
		}})
	}

	details := make([]services.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, services.FieldError{
			Field:   fe.Field(),
			Code:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return errInvalidRequest.WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "complaint_status":
		return fe.Field() + " must be one of " + strings.Join(models.Statuses, ", ")
	case "complaint_priority":
		return fe.Field() + " must be one of " + strings.Join(models.Priorities, ", ")
	case "user_role":
		return fe.Field() + " must be one of " + strings.Join(models.Roles, ", ")
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fe.Field() + " must be a valid email address"
	case "url":
		return fe.Field() + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed the %s check", fe.Field(), fe.Tag())
	}
}
