package models

import (
	"time"
)

// Card represents a registered payment card with its running ledger counters.
//
// The counters obey two invariants maintained by the record reconciler:
// UsedTotal is the signed sum of the values of all records currently
// attributed to the card (income positive, expense negative), and
// Balance == Start + UsedTotal.
type Card struct {
	ID        int       `json:"id" db:"id"`
	CardID    string    `json:"card_id" db:"card_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Number    string    `json:"number" db:"number"`
	CVV       string    `json:"-" db:"cvv"`
	Exp       string    `json:"exp" db:"exp"`
	CardType  string    `json:"card_type" db:"card_type"`
	Image     string    `json:"image" db:"image"`
	Start     int64     `json:"start" db:"start_balance"`
	UsedTotal int64     `json:"used_total" db:"used_total"`
	Balance   int64     `json:"balance" db:"balance"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
