package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/moneymoney/backend/internal/models"
)

// Record mode values, re-exported for the service layer.
const (
	ModeExpense = models.ModeExpense
	ModeIncome  = models.ModeIncome
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string            `json:"error"`             // Error message
	Details map[string]string `json:"details,omitempty"` // Validation details
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// NormalizeMode lowercases a record mode and checks it against the two
// supported values. Anything else is a domain error, not a generic failure.
func NormalizeMode(mode string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(mode))
	if m != models.ModeExpense && m != models.ModeIncome {
		return "", ErrUnsupportedMode
	}
	return m, nil
}

// ParseValue parses a record value from its wire representation. The value
// is an unsigned magnitude; the sign comes from the record mode.
func ParseValue(raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidValue
	}
	return v, nil
}

// SendErrorResponse sends a JSON error response
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message}
	if validationErr != nil {
		errorResp.Details = make(map[string]string)
		for _, err := range validationErr.(validator.ValidationErrors) {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}

	json.NewEncoder(w).Encode(errorResp)
}
