package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"

	"github.com/moneymoney/backend/internal/models"
)

func newReportRouter(service *ReportService) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/records/summary", service.Summary)
	r.Get("/records/detail/{mode}/{category}", service.Detail)
	return r
}

func TestReportService_Summary(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	service := NewReportService(db, redisClient)
	router := newReportRouter(service)

	t.Run("groups by category, mode and month", func(t *testing.T) {
		redisMock.ExpectGet("summary:1").RedisNil()
		mock.ExpectQuery(`SELECT category, mode`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"category", "mode", "month", "year", "sum"}).
				AddRow("Food", "expense", 7, 2017, int64(140000)).
				AddRow("Salary", "income", 7, 2017, int64(250000)))
		redisMock.Regexp().ExpectSet("summary:1", `.*`, service.cfg.SummaryCacheTTL).SetVal("OK")

		req := httptest.NewRequest("GET", "/records/summary?user=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var rows []models.SummaryRow
		json.Unmarshal(w.Body.Bytes(), &rows)
		assert.Len(t, rows, 2)
		assert.Equal(t, "Food", rows[0].Category)
		assert.Equal(t, int64(140000), rows[0].Sum)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("serves cached payload without querying", func(t *testing.T) {
		cached, _ := json.Marshal([]models.SummaryRow{
			{Category: "Food", Mode: "expense", Month: 7, Year: 2017, Sum: 140000},
		})
		redisMock.ExpectGet("summary:1").SetVal(string(cached))

		req := httptest.NewRequest("GET", "/records/summary?user=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var rows []models.SummaryRow
		json.Unmarshal(w.Body.Bytes(), &rows)
		assert.Len(t, rows, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user parameter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/records/summary", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportService_Detail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	redisClient, _ := redismock.NewClientMock()
	service := NewReportService(db, redisClient)
	router := newReportRouter(service)

	t.Run("lists records for a mode and category", func(t *testing.T) {
		datetime := time.Date(2017, 7, 24, 9, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT EXTRACT\(MONTH FROM datetime\)::int AS month`).
			WithArgs(1, "expense", "Food").
			WillReturnRows(sqlmock.NewRows([]string{
				"month", "year", "mode", "category", "card_id", "value", "note", "picture", "datetime",
			}).AddRow(7, 2017, "expense", "Food", "card-a", int64(90000), "lunch", "", datetime))

		req := httptest.NewRequest("GET", "/records/detail/expense/Food?user=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var rows []models.DetailRow
		json.Unmarshal(w.Body.Bytes(), &rows)
		assert.Len(t, rows, 1)
		assert.Equal(t, "24/07/2017 09:00:00", rows[0].Time)
		assert.Equal(t, int64(90000), rows[0].Value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mode is normalized case-insensitively", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXTRACT\(MONTH FROM datetime\)::int AS month`).
			WithArgs(1, "income", "Salary").
			WillReturnRows(sqlmock.NewRows([]string{
				"month", "year", "mode", "category", "card_id", "value", "note", "picture", "datetime",
			}))

		req := httptest.NewRequest("GET", "/records/detail/Income/Salary?user=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unsupported mode", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/records/detail/transfer/Food?user=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing user parameter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/records/detail/expense/Food", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
