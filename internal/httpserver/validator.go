package httpserver

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo.Validator and reports
// fields by their JSON names.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &service.Error{Kind: service.ErrValidation, Msg: "invalid request", Err: err}
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return &service.Error{Kind: service.ErrValidation, Msg: strings.Join(parts, "; ")}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}

// bind decodes the body into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &service.Error{Kind: service.ErrValidation, Msg: "invalid body", Err: err}
	}
	return c.Validate(req)
}
