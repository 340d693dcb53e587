package amqp

import (
	"encoding/json"
	"time"

	"nidhi/internal/core"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// SummarySyncMessage tells the worker that a month's summary went stale.
// It carries only the affected month; the worker recomputes from the database.
type SummarySyncMessage struct {
	TransactionID string    `json:"transaction_id"`
	Action        string    `json:"action"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewSummarySyncMessage builds a message for the month a transaction lands in.
func NewSummarySyncMessage(txID, action string, date core.Date) *SummarySyncMessage {
	return &SummarySyncMessage{
		TransactionID: txID,
		Action:        action,
		Year:          date.Year(),
		Month:         int(date.Month()),
		Timestamp:     time.Now(),
	}
}

func (m *SummarySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SummarySyncMessageFromJSON(data []byte) (*SummarySyncMessage, error) {
	var msg SummarySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
