package create_booking

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
)

var (
	// Имя и фамилия, допускается до шести слов
	fullNamePattern = regexp.MustCompile(`^[\w'.]+\s[\w'.]+\s*[\w'.]*\s*[\w'.]*\s*[\w'.]*\s*[\w'.]*$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "fullname", func(fl validator.FieldLevel) bool {
		return fullNamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("create_booking: register validation %q: %v", tag, err))
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Identity.UserID <= 0 {
		return fmt.Errorf("%w: requester is not authenticated", ErrInvalidInput)
	}
	if _, err := domain.ParseRole(string(req.Identity.Role)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}

	if err := req.Schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}

// describe превращает ошибки validator в читаемое сообщение
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "fullname":
			parts = append(parts, "please enter the full name of the event coordinator")
		case "phone":
			parts = append(parts, fmt.Sprintf("%s must be a phone number", fe.Field()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
