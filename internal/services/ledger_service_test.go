package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCardLedgerService_ApplyDeltaTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCardLedgerService(db)
	cardID := "7f9c24e5-2f14-4bfa-9a1d-6a8f3c5d2b10"

	t.Run("applies delta to both counters", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE cards`).
			WithArgs(int64(-90000), cardID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)

		assert.NoError(t, service.ApplyDeltaTx(tx, cardID, -90000))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected means the card does not exist", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE cards`).
			WithArgs(int64(100), cardID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.Begin()
		assert.NoError(t, err)

		err = service.ApplyDeltaTx(tx, cardID, 100)
		assert.ErrorIs(t, err, ErrCardNotFound)
		assert.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// Counters are updated with relative deltas inside the row-locked
// transaction, so two interleaved edits both land instead of the
// second overwriting the first from a stale read.
func TestCardLedgerService_ConcurrentDeltas(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	service := NewCardLedgerService(db)
	cardID := "7f9c24e5-2f14-4bfa-9a1d-6a8f3c5d2b10"
	deltas := []int64{-90000, 40000}

	for range deltas {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	for _, delta := range deltas {
		mock.ExpectExec(`UPDATE cards`).
			WithArgs(delta, cardID).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(deltas))
	for _, delta := range deltas {
		wg.Add(1)
		go func(delta int64) {
			defer wg.Done()
			tx, err := db.Begin()
			if err != nil {
				errs <- err
				return
			}
			if err := service.ApplyDeltaTx(tx, cardID, delta); err != nil {
				tx.Rollback()
				errs <- err
				return
			}
			errs <- tx.Commit()
		}(delta)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	// Both relative updates reached the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardLedgerService_ExistsTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCardLedgerService(db)
	cardID := "7f9c24e5-2f14-4bfa-9a1d-6a8f3c5d2b10"

	t.Run("existing card", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM cards WHERE card_id = \$1\)`).
			WithArgs(cardID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		tx, err := db.Begin()
		assert.NoError(t, err)

		assert.NoError(t, service.ExistsTx(tx, cardID))
		assert.NoError(t, tx.Rollback())
	})

	t.Run("missing card", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM cards WHERE card_id = \$1\)`).
			WithArgs(cardID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		tx, err := db.Begin()
		assert.NoError(t, err)

		assert.ErrorIs(t, service.ExistsTx(tx, cardID), ErrCardNotFound)
		assert.NoError(t, tx.Rollback())
	})
}

func TestCardLedgerService_LoadCard(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCardLedgerService(db)
	cardID := "7f9c24e5-2f14-4bfa-9a1d-6a8f3c5d2b10"

	t.Run("missing card", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, card_id, user_id, name, number, exp, card_type, image`).
			WithArgs(cardID).
			WillReturnError(sql.ErrNoRows)

		_, err := service.LoadCard(context.Background(), cardID)
		assert.ErrorIs(t, err, ErrCardNotFound)
	})
}

func TestCardLedgerService_RebuildCardCounters(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCardLedgerService(db)
	cardID := "7f9c24e5-2f14-4bfa-9a1d-6a8f3c5d2b10"

	t.Run("recomputes counters from record history", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN mode = 'income' THEN value ELSE -value END\), 0\)`).
			WithArgs(cardID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(-50000)))
		mock.ExpectQuery(`UPDATE cards`).
			WithArgs(int64(-50000), cardID).
			WillReturnRows(sqlmock.NewRows([]string{"card_id", "user_id", "start_balance", "used_total", "balance"}).
				AddRow(cardID, 1, int64(1000000), int64(-50000), int64(950000)))
		mock.ExpectCommit()

		card, err := service.RebuildCardCounters(context.Background(), cardID)
		assert.NoError(t, err)
		assert.Equal(t, int64(-50000), card.UsedTotal)
		assert.Equal(t, int64(950000), card.Balance)
		assert.Equal(t, card.Start+card.UsedTotal, card.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("card with no records resets to start balance", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN mode = 'income' THEN value ELSE -value END\), 0\)`).
			WithArgs(cardID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(0)))
		mock.ExpectQuery(`UPDATE cards`).
			WithArgs(int64(0), cardID).
			WillReturnRows(sqlmock.NewRows([]string{"card_id", "user_id", "start_balance", "used_total", "balance"}).
				AddRow(cardID, 1, int64(1000000), int64(0), int64(1000000)))
		mock.ExpectCommit()

		card, err := service.RebuildCardCounters(context.Background(), cardID)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), card.UsedTotal)
		assert.Equal(t, card.Start, card.Balance)
	})

	t.Run("missing card", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN mode = 'income' THEN value ELSE -value END\), 0\)`).
			WithArgs(cardID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(0)))
		mock.ExpectQuery(`UPDATE cards`).
			WithArgs(int64(0), cardID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := service.RebuildCardCounters(context.Background(), cardID)
		assert.ErrorIs(t, err, ErrCardNotFound)
	})
}
