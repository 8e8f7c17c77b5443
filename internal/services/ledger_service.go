package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/moneymoney/backend/internal/audit"
	"github.com/moneymoney/backend/internal/models"
)

// CardLedgerService owns the two derived counters on a card: used_total,
// the signed sum of all record values currently attributed to the card,
// and balance = start_balance + used_total.
//
// Counters are only ever mutated through ApplyDeltaTx, a single relative
// SQL increment. The delta for any record mutation is computable without
// reading the card first, so there is no read-modify-write window for
// concurrent mutations to race on.
type CardLedgerService struct {
	db    *sql.DB
	audit *audit.Logger
}

func NewCardLedgerService(db *sql.DB) *CardLedgerService {
	return &CardLedgerService{
		db:    db,
		audit: audit.NewLogger(),
	}
}

// LoadCard fetches a card by its public id.
func (s *CardLedgerService) LoadCard(ctx context.Context, cardID string) (*models.Card, error) {
	var card models.Card
	err := s.db.QueryRowContext(ctx, `
		SELECT id, card_id, user_id, name, number, exp, card_type, image,
		       start_balance, used_total, balance, created_at, updated_at
		FROM cards
		WHERE card_id = $1`, cardID).Scan(
		&card.ID, &card.CardID, &card.UserID, &card.Name, &card.Number,
		&card.Exp, &card.CardType, &card.Image,
		&card.Start, &card.UsedTotal, &card.Balance,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

// ExistsTx verifies a card exists inside the given transaction. Used to
// fail fast before any record write is committed.
func (s *CardLedgerService) ExistsTx(tx *sql.Tx, cardID string) error {
	var exists bool
	err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM cards WHERE card_id = $1)`, cardID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCardNotFound
	}
	return nil
}

// ApplyDeltaTx adds a signed delta to a card's used_total and balance in
// one atomic statement. Zero rows affected means the card id did not
// resolve and the whole enclosing transaction must be aborted.
func (s *CardLedgerService) ApplyDeltaTx(tx *sql.Tx, cardID string, delta int64) error {
	result, err := tx.Exec(`
		UPDATE cards
		SET used_total = used_total + $1, balance = balance + $1, updated_at = NOW()
		WHERE card_id = $2`, delta, cardID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCardNotFound
	}

	return nil
}

// RebuildCardCounters recomputes used_total from the record history and
// resets balance to start_balance + used_total, all inside one
// transaction. This is the repair path for counters that drifted before
// the single-transaction reconciliation was in place.
func (s *CardLedgerService) RebuildCardCounters(ctx context.Context, cardID string) (*models.Card, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var usedTotal int64
	err = tx.QueryRow(`
		SELECT COALESCE(SUM(CASE WHEN mode = 'income' THEN value ELSE -value END), 0)
		FROM records
		WHERE card_id = $1`, cardID).Scan(&usedTotal)
	if err != nil {
		return nil, err
	}

	var card models.Card
	err = tx.QueryRow(`
		UPDATE cards
		SET used_total = $1, balance = start_balance + $1, updated_at = NOW()
		WHERE card_id = $2
		RETURNING card_id, user_id, start_balance, used_total, balance`,
		usedTotal, cardID).Scan(
		&card.CardID, &card.UserID, &card.Start, &card.UsedTotal, &card.Balance,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rebuild: %w", err)
	}

	s.audit.LogRebuild(cardID, usedTotal)
	return &card, nil
}
