package amqp

import (
	"encoding/json"
	"time"
)

// RecordChangedMessage announces that a user's finance record was saved.
// It carries only the username; consumers reload the document from
// storage, so a stale message never ships stale data.
type RecordChangedMessage struct {
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordChangedMessage(username string) *RecordChangedMessage {
	return &RecordChangedMessage{
		Username:  username,
		Timestamp: time.Now(),
	}
}

func (m *RecordChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordChangedMessageFromJSON(data []byte) (*RecordChangedMessage, error) {
	var msg RecordChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
