package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newCardRouter(service *CardService) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/cards", service.CreateCard)
	r.Get("/cards", service.ListCards)
	r.Get("/cards/{cardId}", service.GetCard)
	return r
}

func TestCardService_CreateCard(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCardService(db)
	router := newCardRouter(service)

	t.Run("new card starts with zero usedTotal and balance equal to start", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO cards`).
			WithArgs(sqlmock.AnyArg(), 1, "Main Visa", "4111111111111111", "123",
				"12/27", "visa", "", int64(1000000)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		body, _ := json.Marshal(map[string]any{
			"user":   1,
			"name":   "Main Visa",
			"number": "4111111111111111",
			"cvv":    "123",
			"exp":    "12/27",
			"type":   "visa",
			"start":  1000000,
		})
		req := httptest.NewRequest("POST", "/cards", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response map[string]any
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, float64(1000000), response["start"])
		assert.Equal(t, float64(1000000), response["balance"])
		assert.Equal(t, float64(0), response["used_total"])
		assert.NotContains(t, response, "cvv") // never serialized
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate card number", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO cards`).
			WithArgs(sqlmock.AnyArg(), 1, "Main Visa", "4111111111111111", "123",
				"12/27", "visa", "", int64(0)).
			WillReturnError(fmt.Errorf("pq: duplicate key value violates unique constraint"))

		body, _ := json.Marshal(map[string]any{
			"user":   1,
			"name":   "Main Visa",
			"number": "4111111111111111",
			"cvv":    "123",
			"exp":    "12/27",
			"type":   "visa",
		})
		req := httptest.NewRequest("POST", "/cards", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"user":   1,
			"name":   "Main Visa",
			"number": "411", // too short
			"cvv":    "123",
			"exp":    "12/27",
			"type":   "visa",
		})
		req := httptest.NewRequest("POST", "/cards", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCardService_GetCard(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCardService(db)
	router := newCardRouter(service)

	cardID := "7f9c24e5-2f14-4bfa-9a1d-6a8f3c5d2b10"
	now := time.Now()

	t.Run("existing card", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, card_id, user_id, name, number, exp, card_type, image`).
			WithArgs(cardID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "card_id", "user_id", "name", "number", "exp", "card_type", "image",
				"start_balance", "used_total", "balance", "created_at", "updated_at",
			}).AddRow(7, cardID, 1, "Main Visa", "4111111111111111", "12/27", "visa", "",
				int64(1000000), int64(-90000), int64(910000), now, now))

		req := httptest.NewRequest("GET", "/cards/"+cardID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]any
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, float64(910000), response["balance"])
		assert.Equal(t, float64(-90000), response["used_total"])
	})

	t.Run("missing card", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, card_id, user_id, name, number, exp, card_type, image`).
			WithArgs(cardID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		req := httptest.NewRequest("GET", "/cards/"+cardID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCardService_ListCards(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCardService(db)
	router := newCardRouter(service)
	now := time.Now()

	t.Run("lists user cards", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, card_id, user_id, name, number, exp, card_type, image`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "card_id", "user_id", "name", "number", "exp", "card_type", "image",
				"start_balance", "used_total", "balance", "created_at", "updated_at",
			}).
				AddRow(1, "card-a", 1, "Visa", "4111111111111111", "12/27", "visa", "", int64(1000000), int64(0), int64(1000000), now, now).
				AddRow(2, "card-b", 1, "Master", "5555555555554444", "01/28", "mastercard", "", int64(500000), int64(-20000), int64(480000), now, now))

		req := httptest.NewRequest("GET", "/cards?user=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var cards []map[string]any
		json.Unmarshal(w.Body.Bytes(), &cards)
		assert.Len(t, cards, 2)
	})

	t.Run("missing user parameter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/cards", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
