package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventRecorded = "recorded"
	EventDeleted  = "deleted"
)

// TransactionEvent is the lightweight message published whenever a
// transaction is recorded or soft-deleted. Consumers fetch full rows from
// the database if they need more than the identifier.
type TransactionEvent struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Kind          string    `json:"kind"` // recorded | deleted
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(transactionID, userID, kind string) *TransactionEvent {
	return &TransactionEvent{
		TransactionID: transactionID,
		UserID:        userID,
		Kind:          kind,
		Timestamp:     time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
