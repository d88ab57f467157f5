package events

import (
	"encoding/json"
	"time"
)

// SnapshotSavedMessage announces the outcome of one snapshot flush. It
// carries only counts and status, never transaction contents or secrets.
type SnapshotSavedMessage struct {
	Email        string    `json:"email"`
	Transactions int       `json:"transactions"`
	Goals        int       `json:"goals"`
	Status       string    `json:"status"` // "synced" or "error"
	Timestamp    time.Time `json:"timestamp"`
}

func NewSnapshotSavedMessage(email string, transactions, goals int, saveErr error) *SnapshotSavedMessage {
	status := "synced"
	if saveErr != nil {
		status = "error"
	}
	return &SnapshotSavedMessage{
		Email:        email,
		Transactions: transactions,
		Goals:        goals,
		Status:       status,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *SnapshotSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotSavedMessageFromJSON creates a message from JSON bytes.
func SnapshotSavedMessageFromJSON(data []byte) (*SnapshotSavedMessage, error) {
	var msg SnapshotSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
