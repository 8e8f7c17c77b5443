package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moneymoney/backend/internal/models"
)

type CardService struct {
	db        *sql.DB
	ledger    *CardLedgerService
	validator *ValidationHelper
}

// CreateCardRequest represents card registration data
// @Description Card registration request structure
type CreateCardRequest struct {
	User     int    `json:"user" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required"`
	Number   string `json:"number" validate:"required,min=12,max=19"`
	CVV      string `json:"cvv" validate:"required,len=3"`
	Exp      string `json:"exp" validate:"required"`
	CardType string `json:"type" validate:"required"`
	Image    string `json:"image,omitempty"`
	Start    int64  `json:"start" validate:"gte=0"`
}

func NewCardService(db *sql.DB) *CardService {
	return &CardService{
		db:        db,
		ledger:    NewCardLedgerService(db),
		validator: NewValidationHelper(),
	}
}

// CreateCard registers a new card
// @Summary Register a card
// @Description Register a payment card with a starting balance; counters begin at zero
// @Tags cards
// @Accept json
// @Produce json
// @Param card body CreateCardRequest true "Card data"
// @Success 201 {object} models.Card
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cards [post]
func (cs *CardService) CreateCard(w http.ResponseWriter, r *http.Request) {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CreateCardRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := cs.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	card := &models.Card{
		CardID:   uuid.New().String(),
		UserID:   req.User,
		Name:     req.Name,
		Number:   req.Number,
		CVV:      req.CVV,
		Exp:      req.Exp,
		CardType: req.CardType,
		Image:    req.Image,
		Start:    req.Start,
		Balance:  req.Start, // usedTotal starts at zero
	}

	err := cs.db.QueryRow(`
		INSERT INTO cards
		(card_id, user_id, name, number, cvv, exp, card_type, image, start_balance, used_total, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $9, NOW(), NOW())
		RETURNING id`,
		card.CardID, card.UserID, card.Name, card.Number, card.CVV,
		card.Exp, card.CardType, card.Image, card.Start).Scan(&card.ID)
	if err != nil {
		log.Printf("[CARD] Card creation failed for user %d: %v", req.User, err)
		SendErrorResponse(w, "Card number already registered", http.StatusConflict, nil)
		return
	}

	log.Printf("[CARD] Card %s registered for user %d", card.CardID, card.UserID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(card)
}

// GetCard retrieves one card with its counters
// @Summary Get card details
// @Description Retrieve a card with its current usedTotal and balance
// @Tags cards
// @Produce json
// @Param cardId path string true "Card ID"
// @Success 200 {object} models.Card
// @Failure 404 {object} ErrorResponse
// @Router /cards/{cardId} [get]
func (cs *CardService) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")

	card, err := cs.ledger.LoadCard(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			SendErrorResponse(w, "This card does not exist.", http.StatusNotFound, nil)
			return
		}
		log.Printf("[CARD] Failed to fetch card %s: %v", cardID, err)
		SendErrorResponse(w, "Failed to fetch card", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(card)
}

// ListCards retrieves all of a user's cards
// @Summary List cards
// @Description List all cards registered by a user
// @Tags cards
// @Produce json
// @Param user query int true "User ID"
// @Success 200 {array} models.Card
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cards [get]
func (cs *CardService) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("user"))
	if err != nil || userID <= 0 {
		SendErrorResponse(w, "Bad request.", http.StatusBadRequest, nil)
		return
	}

	rows, err := cs.db.QueryContext(r.Context(), `
		SELECT id, card_id, user_id, name, number, exp, card_type, image,
		       start_balance, used_total, balance, created_at, updated_at
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		log.Printf("[CARD] Failed to list cards for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to fetch cards", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(&card.ID, &card.CardID, &card.UserID, &card.Name,
			&card.Number, &card.Exp, &card.CardType, &card.Image,
			&card.Start, &card.UsedTotal, &card.Balance,
			&card.CreatedAt, &card.UpdatedAt); err != nil {
			log.Printf("[CARD] Failed to scan card row: %v", err)
			SendErrorResponse(w, "Failed to fetch cards", http.StatusInternalServerError, nil)
			return
		}
		cards = append(cards, card)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}
