package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/moneymoney/backend/internal/audit"
	"github.com/moneymoney/backend/internal/config"
	"github.com/moneymoney/backend/internal/models"
)

// RecordService is the reconciliation engine. Every record mutation
// (create, edit, move, delete) and the compensating card counter update
// happen inside a single database transaction: either both land or
// neither does.
type RecordService struct {
	db        *sql.DB
	redis     *redis.Client
	ledger    *CardLedgerService
	audit     *audit.Logger
	validator *ValidationHelper
	cfg       *config.ReconcileConfig
}

// CreateRecordRequest represents the create-record payload
// @Description Create record request structure
type CreateRecordRequest struct {
	User     int    `json:"user" validate:"required,gt=0" example:"1"`           // Owning user id
	Datetime int64  `json:"datetime" validate:"required,gt=0" example:"1500879600"` // Transaction time, epoch seconds
	Mode     string `json:"mode" validate:"required" example:"expense"`          // expense or income, case-insensitive
	Category string `json:"category" validate:"required" example:"Food"`         // Category label
	Card     string `json:"card" validate:"required"`                            // Card id
	Value    string `json:"value" validate:"required" example:"90000"`           // Unsigned integer magnitude
	Note     string `json:"note,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

// EditRecordRequest represents the edit-record payload. Mode is not part
// of the payload; the stored record's mode keeps determining the sign.
type EditRecordRequest struct {
	Datetime int64  `json:"datetime" validate:"required,gt=0"`
	Category string `json:"category" validate:"required"`
	Card     string `json:"card" validate:"required"`
	Value    string `json:"value" validate:"required"`
	Note     string `json:"note,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

// recordUpdate is the validated, parsed form of an edit.
type recordUpdate struct {
	Datetime time.Time
	Category string
	CardID   string
	Value    int64
	Note     string
	Picture  string
}

// cardDelta is one pending counter adjustment of a reconciliation.
type cardDelta struct {
	CardID string
	Delta  int64
}

func NewRecordService(db *sql.DB, redisClient *redis.Client) *RecordService {
	return &RecordService{
		db:        db,
		redis:     redisClient,
		ledger:    NewCardLedgerService(db),
		audit:     audit.NewLogger(),
		validator: NewValidationHelper(),
		cfg:       config.LoadReconcileConfig(),
	}
}

// signedDelta maps a (mode, value) pair to its contribution to a card's
// usedTotal: income positive, expense negative.
func signedDelta(mode string, value int64) int64 {
	if mode == models.ModeIncome {
		return value
	}
	return -value
}

// CreateRecord handles record creation
// @Summary Create a record
// @Description Log an income or expense record against a card and update the card's counters
// @Tags records
// @Accept json
// @Produce json
// @Param record body CreateRecordRequest true "Record data"
// @Success 201 {object} models.Record
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records [post]
func (s *RecordService) CreateRecord(w http.ResponseWriter, r *http.Request) {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CreateRecordRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	mode, err := NormalizeMode(req.Mode)
	if err != nil {
		SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	value, err := ParseValue(req.Value)
	if err != nil || value > s.cfg.MaxRecordValue {
		SendErrorResponse(w, ErrInvalidValue.Error(), http.StatusBadRequest, nil)
		return
	}

	rec := &models.Record{
		RecordID: uuid.New().String(),
		UserID:   req.User,
		CardID:   req.Card,
		Mode:     mode,
		Category: req.Category,
		Value:    value,
		Datetime: time.Unix(req.Datetime, 0).UTC(),
		Note:     req.Note,
		Picture:  req.Picture,
	}

	if err := s.createRecord(r.Context(), rec); err != nil {
		s.writeReconcileError(w, "create", rec.RecordID, err)
		return
	}

	log.Printf("[RECORD] Created record %s on card %s (delta %d)", rec.RecordID, rec.CardID, rec.SignedValue())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message": "The record was created successfully.",
		"record":  rec,
	})
}

// EditRecord handles record edits, including moves between cards
// @Summary Edit a record
// @Description Update a record's value, category, card, datetime, note or picture, reconciling one or two cards' counters
// @Tags records
// @Accept json
// @Produce json
// @Param recordId path string true "Record ID"
// @Param record body EditRecordRequest true "Updated record data"
// @Success 200 {object} models.Record
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records/{recordId} [patch]
func (s *RecordService) EditRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordId")
	if recordID == "" {
		SendErrorResponse(w, "Record id is required", http.StatusBadRequest, nil)
		return
	}

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req EditRecordRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	value, err := ParseValue(req.Value)
	if err != nil || value > s.cfg.MaxRecordValue {
		SendErrorResponse(w, ErrInvalidValue.Error(), http.StatusBadRequest, nil)
		return
	}

	upd := recordUpdate{
		Datetime: time.Unix(req.Datetime, 0).UTC(),
		Category: req.Category,
		CardID:   req.Card,
		Value:    value,
		Note:     req.Note,
		Picture:  req.Picture,
	}

	rec, err := s.editRecord(r.Context(), recordID, upd)
	if err != nil {
		s.writeReconcileError(w, "edit", recordID, err)
		return
	}

	log.Printf("[RECORD] Updated record %s (card %s)", rec.RecordID, rec.CardID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "The record was updated successfully.",
		"record":  rec,
	})
}

// DeleteRecord handles record deletion
// @Summary Delete a record
// @Description Remove a record and reverse its contribution to its card's counters
// @Tags records
// @Produce json
// @Param recordId path string true "Record ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records/{recordId} [delete]
func (s *RecordService) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordId")
	if recordID == "" {
		SendErrorResponse(w, "Record id is required", http.StatusBadRequest, nil)
		return
	}

	rec, err := s.deleteRecord(r.Context(), recordID)
	if err != nil {
		s.writeReconcileError(w, "delete", recordID, err)
		return
	}

	log.Printf("[RECORD] Deleted record %s (card %s, delta %d)", rec.RecordID, rec.CardID, -rec.SignedValue())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "The record was deleted successfully.",
	})
}

// RebuildCounters triggers a counter rebuild for one card
// @Summary Rebuild card counters
// @Description Recompute a card's usedTotal and balance from its record history
// @Tags records
// @Produce json
// @Param cardId path string true "Card ID"
// @Success 200 {object} models.Card
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cards/{cardId}/rebuild [post]
func (s *RecordService) RebuildCounters(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")

	card, err := s.ledger.RebuildCardCounters(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			SendErrorResponse(w, "This card does not exist.", http.StatusNotFound, nil)
			return
		}
		log.Printf("[RECORD] Rebuild failed for card %s: %v", cardID, err)
		SendErrorResponse(w, "Failed to rebuild counters", http.StatusInternalServerError, nil)
		return
	}

	s.invalidateSummary(card.UserID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(card)
}

// createRecord validates the target card, persists the record and applies
// the card delta, all inside one transaction.
func (s *RecordService) createRecord(ctx context.Context, rec *models.Record) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.TxTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Fail fast: the card must resolve before the record is written.
	if err := s.ledger.ExistsTx(tx, rec.CardID); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO records
		(record_id, user_id, card_id, mode, category, value, datetime, note, picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
		rec.RecordID, rec.UserID, rec.CardID, rec.Mode, rec.Category,
		rec.Value, rec.Datetime, rec.Note, rec.Picture)
	if err != nil {
		return err
	}

	delta := rec.SignedValue()
	if err := s.ledger.ApplyDeltaTx(tx, rec.CardID, delta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.audit.LogReconcile("CREATE", rec.RecordID, rec.CardID, delta)
	s.invalidateSummary(rec.UserID)
	return nil
}

// editRecord replaces a record's contribution to its card(s). For a
// same-card edit the applied delta is sign * (newValue - oldValue),
// unconditionally. For a move, the old contribution is reversed on the
// old card and the new value applied on the new card, both signed by the
// record's pre-edit mode since mode is not part of the edit payload.
func (s *RecordService) editRecord(ctx context.Context, recordID string, upd recordUpdate) (*models.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.TxTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	old, err := s.fetchRecordTx(tx, recordID)
	if err != nil {
		return nil, err
	}

	var deltas []cardDelta
	if upd.CardID != old.CardID {
		// Verify the destination before any write.
		if err := s.ledger.ExistsTx(tx, upd.CardID); err != nil {
			return nil, err
		}
		deltas = []cardDelta{
			{CardID: old.CardID, Delta: -old.SignedValue()},
			{CardID: upd.CardID, Delta: signedDelta(old.Mode, upd.Value)},
		}
	} else {
		deltas = []cardDelta{
			{CardID: old.CardID, Delta: signedDelta(old.Mode, upd.Value-old.Value)},
		}
	}

	// Touch cards in a consistent order so two concurrent moves between
	// the same pair of cards cannot deadlock.
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].CardID < deltas[j].CardID })
	for _, d := range deltas {
		if err := s.ledger.ApplyDeltaTx(tx, d.CardID, d.Delta); err != nil {
			return nil, err
		}
	}

	updated := *old
	updated.Datetime = upd.Datetime
	updated.Category = upd.Category
	updated.CardID = upd.CardID
	updated.Value = upd.Value
	updated.Note = upd.Note
	updated.Picture = upd.Picture

	_, err = tx.Exec(`
		UPDATE records
		SET datetime = $1, category = $2, card_id = $3, value = $4, note = $5, picture = $6, updated_at = NOW()
		WHERE record_id = $7`,
		updated.Datetime, updated.Category, updated.CardID,
		updated.Value, updated.Note, updated.Picture, recordID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	op := "EDIT"
	if upd.CardID != old.CardID {
		op = "MOVE"
	}
	for _, d := range deltas {
		s.audit.LogReconcile(op, recordID, d.CardID, d.Delta)
	}
	s.invalidateSummary(old.UserID)
	return &updated, nil
}

// deleteRecord fetches the record first (delete-then-read is not
// possible), reverses its contribution on the card and removes it.
func (s *RecordService) deleteRecord(ctx context.Context, recordID string) (*models.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.TxTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rec, err := s.fetchRecordTx(tx, recordID)
	if err != nil {
		return nil, err
	}

	reverse := -rec.SignedValue()
	if err := s.ledger.ApplyDeltaTx(tx, rec.CardID, reverse); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`DELETE FROM records WHERE record_id = $1`, recordID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.audit.LogReconcile("DELETE", recordID, rec.CardID, reverse)
	s.invalidateSummary(rec.UserID)
	return rec, nil
}

// fetchRecordTx loads a record inside the transaction, locking the row so
// concurrent edits of the same record serialize.
func (s *RecordService) fetchRecordTx(tx *sql.Tx, recordID string) (*models.Record, error) {
	var rec models.Record
	err := tx.QueryRow(`
		SELECT record_id, user_id, card_id, mode, category, value, datetime, note, picture
		FROM records
		WHERE record_id = $1
		FOR UPDATE`, recordID).Scan(
		&rec.RecordID, &rec.UserID, &rec.CardID, &rec.Mode, &rec.Category,
		&rec.Value, &rec.Datetime, &rec.Note, &rec.Picture,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// invalidateSummary drops the user's cached summary after a mutation.
func (s *RecordService) invalidateSummary(userID int) {
	if s.redis == nil {
		return
	}
	key := fmt.Sprintf("summary:%d", userID)
	if err := s.redis.Del(context.Background(), key).Err(); err != nil {
		log.Printf("[RECORD] Failed to invalidate summary cache for user %d: %v", userID, err)
	}
}

func (s *RecordService) writeReconcileError(w http.ResponseWriter, op, recordID string, err error) {
	switch {
	case errors.Is(err, ErrCardNotFound):
		SendErrorResponse(w, "This card does not exist.", http.StatusNotFound, nil)
	case errors.Is(err, ErrRecordNotFound):
		SendErrorResponse(w, "This record does not exist.", http.StatusNotFound, nil)
	case errors.Is(err, ErrUnsupportedMode), errors.Is(err, ErrInvalidValue):
		SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
	default:
		log.Printf("[RECORD] Failed to %s record %s: %v", op, recordID, err)
		s.audit.LogError(op, recordID, "", err)
		SendErrorResponse(w, "Failed to process record", http.StatusInternalServerError, nil)
	}
}
