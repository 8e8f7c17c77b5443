package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"

	"github.com/moneymoney/backend/internal/config"
	"github.com/moneymoney/backend/internal/models"
)

// ReportService serves the read-side aggregations over the record store.
// Reports never touch card counters.
type ReportService struct {
	db    *sql.DB
	redis *redis.Client
	cfg   *config.ReconcileConfig
}

func NewReportService(db *sql.DB, redisClient *redis.Client) *ReportService {
	return &ReportService{
		db:    db,
		redis: redisClient,
		cfg:   config.LoadReconcileConfig(),
	}
}

// Summary returns a user's records grouped by category, mode, month and year
// @Summary Record summary
// @Description Group all of a user's records by (category, mode, month, year), summing values
// @Tags reports
// @Produce json
// @Param user query int true "User ID"
// @Success 200 {array} models.SummaryRow
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records/summary [get]
func (s *ReportService) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("user"))
	if err != nil || userID <= 0 {
		SendErrorResponse(w, "Bad request.", http.StatusBadRequest, nil)
		return
	}

	if rows, ok := s.cachedSummary(r.Context(), userID); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(rows)
		return
	}

	rows, err := s.fetchSummary(r.Context(), userID)
	if err != nil {
		log.Printf("[REPORT] Summary query failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to fetch summary", http.StatusInternalServerError, nil)
		return
	}

	payload, _ := json.Marshal(rows)
	s.cacheSummary(r.Context(), userID, payload)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Detail returns a user's records filtered by mode and category
// @Summary Record detail
// @Description List a user's records for one (mode, category) pair with a formatted time string
// @Tags reports
// @Produce json
// @Param mode path string true "Record mode (expense or income)"
// @Param category path string true "Category label"
// @Param user query int true "User ID"
// @Success 200 {array} models.DetailRow
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records/detail/{mode}/{category} [get]
func (s *ReportService) Detail(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("user"))
	if err != nil || userID <= 0 {
		SendErrorResponse(w, "Bad request.", http.StatusBadRequest, nil)
		return
	}

	category := chi.URLParam(r, "category")
	if category == "" {
		SendErrorResponse(w, "Bad request.", http.StatusBadRequest, nil)
		return
	}

	mode, err := NormalizeMode(chi.URLParam(r, "mode"))
	if err != nil {
		SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	rows, err := s.fetchDetail(r.Context(), userID, mode, category)
	if err != nil {
		log.Printf("[REPORT] Detail query failed for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to fetch records", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func (s *ReportService) fetchSummary(ctx context.Context, userID int) ([]models.SummaryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, mode,
		       EXTRACT(MONTH FROM datetime)::int AS month,
		       EXTRACT(YEAR FROM datetime)::int AS year,
		       SUM(value) AS sum
		FROM records
		WHERE user_id = $1
		GROUP BY category, mode, month, year`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := []models.SummaryRow{}
	for rows.Next() {
		var row models.SummaryRow
		if err := rows.Scan(&row.Category, &row.Mode, &row.Month, &row.Year, &row.Sum); err != nil {
			return nil, err
		}
		summary = append(summary, row)
	}

	return summary, rows.Err()
}

func (s *ReportService) fetchDetail(ctx context.Context, userID int, mode, category string) ([]models.DetailRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT EXTRACT(MONTH FROM datetime)::int AS month,
		       EXTRACT(YEAR FROM datetime)::int AS year,
		       mode, category, card_id, value, note, picture, datetime
		FROM records
		WHERE user_id = $1 AND mode = $2 AND category = $3`, userID, mode, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []models.DetailRow{}
	for rows.Next() {
		var row models.DetailRow
		var datetime time.Time
		if err := rows.Scan(&row.Month, &row.Year, &row.Mode, &row.Category,
			&row.CardID, &row.Value, &row.Note, &row.Picture, &datetime); err != nil {
			return nil, err
		}
		row.Time = datetime.Format("02/01/2006 15:04:05")
		details = append(details, row)
	}

	return details, rows.Err()
}

func (s *ReportService) cachedSummary(ctx context.Context, userID int) ([]byte, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(ctx, fmt.Sprintf("summary:%d", userID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *ReportService) cacheSummary(ctx context.Context, userID int, payload []byte) {
	if s.redis == nil {
		return
	}
	key := fmt.Sprintf("summary:%d", userID)
	if err := s.redis.Set(ctx, key, payload, s.cfg.SummaryCacheTTL).Err(); err != nil {
		log.Printf("[REPORT] Failed to cache summary for user %d: %v", userID, err)
	}
}
