// Package render writes JSON responses and decodes validated request bodies
package render

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/zoenutrition/zoe/internal/domain/recommendation"
	"github.com/zoenutrition/zoe/pkg/errors"
)

const maxBodyBytes = 1 << 20

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("meal", func(fl validator.FieldLevel) bool {
		_, ok := recommendation.ParseMealType(fl.Field().String())
		return ok
	})
	return v
}

// JSON writes data inside the success envelope
func JSON(w http.ResponseWriter, status int, data interface{}) {
	Raw(w, status, APIResponse{Success: true, Data: data})
}

// Raw writes v as the response body without an envelope
func Raw(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as an error response. Errors that are not AppErrors
// are reported as internal errors without leaking their text.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "")
	Raw(w, appErr.StatusCode(), errors.ToErrorResponse(appErr, middleware.GetReqID(r.Context())))
}

// Decode reads a JSON body into dst and validates it. Unknown fields are
// rejected. An empty body decodes to the zero value before validation.
func Decode(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.NewBadRequestError(fmt.Sprintf("Malformed JSON body: %v", err))
	}
	return Validate(dst)
}

// Validate runs the struct validation tags on v
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(err.Error())
	}

	out := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, errors.ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return errors.NewValidationErrors(out)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "meal":
		return fmt.Sprintf("%s must be one of breakfast, lunch, dinner, snack, all", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
