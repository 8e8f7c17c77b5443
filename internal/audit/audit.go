package audit

import (
	"encoding/json"
	"log"
	"time"
)

// Event is one structured audit entry. Every card counter mutation is
// logged with the record that caused it and the signed delta applied, so
// drifted counters can be traced back to the mutation sequence.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	RecordID  string    `json:"record_id"`
	CardID    string    `json:"card_id"`
	Delta     int64     `json:"delta"`
	Status    string    `json:"status"`
	Details   any       `json:"details,omitempty"`
}

type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

// LogReconcile records a counter delta applied to a card on behalf of a
// record mutation (CREATE, EDIT, MOVE or DELETE).
func (a *Logger) LogReconcile(op, recordID, cardID string, delta int64) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: op,
		RecordID:  recordID,
		CardID:    cardID,
		Delta:     delta,
		Status:    "SUCCESS",
	})
}

func (a *Logger) LogError(op, recordID, cardID string, err error) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: op,
		RecordID:  recordID,
		CardID:    cardID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

// LogRebuild records a full counter rebuild for a card.
func (a *Logger) LogRebuild(cardID string, usedTotal int64) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: "REBUILD",
		CardID:    cardID,
		Delta:     usedTotal,
		Status:    "SUCCESS",
	})
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}
