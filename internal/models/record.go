package models

import (
	"time"
)

// Record modes. Mode carries the sign of a record's value: income counts
// positive against a card's counters, expense negative. Input is accepted
// case-insensitively and stored lowercase.
const (
	ModeExpense = "expense"
	ModeIncome  = "income"
)

// Record is a single income or expense transaction attributed to a card.
// Value is the unsigned magnitude; the sign is implied by Mode.
type Record struct {
	ID        int       `json:"id" db:"id"`
	RecordID  string    `json:"record_id" db:"record_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	CardID    string    `json:"card_id" db:"card_id"`
	Mode      string    `json:"mode" db:"mode"`
	Category  string    `json:"category" db:"category"`
	Value     int64     `json:"value" db:"value"`
	Datetime  time.Time `json:"datetime" db:"datetime"`
	Note      string    `json:"note" db:"note"`
	Picture   string    `json:"picture" db:"picture"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SignedValue returns the record's contribution to its card's usedTotal.
func (r *Record) SignedValue() int64 {
	if r.Mode == ModeIncome {
		return r.Value
	}
	return -r.Value
}

// SummaryRow is one group of the by-card summary aggregation: all of a
// user's records grouped by (category, mode, month, year).
type SummaryRow struct {
	Category string `json:"category"`
	Mode     string `json:"mode"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	Sum      int64  `json:"sum"`
}

// DetailRow is one projected record of the by-category detail query.
// Time is the record datetime formatted as dd/mm/yyyy HH:MM:SS.
type DetailRow struct {
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	Mode     string `json:"mode"`
	Category string `json:"category"`
	CardID   string `json:"card_id"`
	Value    int64  `json:"value"`
	Note     string `json:"note"`
	Picture  string `json:"picture"`
	Time     string `json:"time"`
}
