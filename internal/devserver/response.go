package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// errorResponse is the failure body: message is a string or a list of strings.
type errorResponse struct {
	Message any `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Message: message})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(w, r, http.StatusBadRequest, "invalid request")
		return
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, validationMessage(fe))
	}
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorResponse{Message: msgs})
}

func validationMessage(fe validator.FieldError) string {
	field := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, jsonName(fe.Param()))
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

// jsonName maps struct field names to their wire names.
func jsonName(field string) string {
	switch field {
	case "ConfirmPassword":
		return "confirm_password"
	default:
		return strings.ToLower(field)
	}
}
