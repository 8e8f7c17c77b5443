package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/moneymoney/backend/internal/models"
)

type TestStruct struct {
	Name  string `validate:"required,min=2"`
	Email string `validate:"required,email"`
	Age   int    `validate:"required,gte=18"`
}

func TestValidationHelper_ValidateStruct(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid struct", func(t *testing.T) {
		valid := TestStruct{
			Name:  "John Doe",
			Email: "john@example.com",
			Age:   25,
		}

		err := vh.ValidateStruct(&valid)
		assert.NoError(t, err)
	})

	t.Run("invalid struct - missing required fields", func(t *testing.T) {
		invalid := TestStruct{
			Name: "J", // Too short
			// Email missing
			Age: 16, // Too young
		}

		err := vh.ValidateStruct(&invalid)
		assert.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		assert.Len(t, validationErrors, 3) // Name, Email, Age errors
	})
}

func TestNormalizeMode(t *testing.T) {
	t.Run("supported modes", func(t *testing.T) {
		for input, want := range map[string]string{
			"expense":   models.ModeExpense,
			"income":    models.ModeIncome,
			"Expense":   models.ModeExpense,
			"INCOME":    models.ModeIncome,
			" expense ": models.ModeExpense,
		} {
			got, err := NormalizeMode(input)
			assert.NoError(t, err, input)
			assert.Equal(t, want, got)
		}
	})

	t.Run("unsupported modes", func(t *testing.T) {
		for _, input := range []string{"", "transfer", "expenses", "in come"} {
			_, err := NormalizeMode(input)
			assert.ErrorIs(t, err, ErrUnsupportedMode, input)
		}
	})
}

func TestParseValue(t *testing.T) {
	t.Run("valid values", func(t *testing.T) {
		for input, want := range map[string]int64{
			"0":       0,
			"90000":   90000,
			" 50000 ": 50000,
		} {
			got, err := ParseValue(input)
			assert.NoError(t, err, input)
			assert.Equal(t, want, got)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		for _, input := range []string{"abc", "", "12.5", "-100", "1e9"} {
			_, err := ParseValue(input)
			assert.ErrorIs(t, err, ErrInvalidValue, input)
		}
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("error response without validation errors", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Something went wrong", http.StatusInternalServerError, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Something went wrong", response.Error)
		assert.Nil(t, response.Details)
	})

	t.Run("error response with validation errors", func(t *testing.T) {
		vh := NewValidationHelper()
		invalid := TestStruct{
			Name:  "J",
			Email: "invalid-email",
			Age:   16,
		}

		validationErr := vh.ValidateStruct(&invalid)
		assert.Error(t, validationErr)

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, validationErr)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Validation failed", response.Error)
		assert.Contains(t, response.Details, "Name")
		assert.Contains(t, response.Details, "Email")
		assert.Contains(t, response.Details, "Age")
	})
}
