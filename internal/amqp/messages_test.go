package amqp

import (
	"testing"
	"time"
)

func TestRecordChangedMessageRoundTrip(t *testing.T) {
	msg := NewRecordChangedMessage("alice")
	if msg.Username != "alice" {
		t.Fatalf("username = %q", msg.Username)
	}
	if time.Since(msg.Timestamp) > time.Minute {
		t.Fatalf("timestamp not set: %v", msg.Timestamp)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := RecordChangedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Username != "alice" {
		t.Fatalf("decoded username = %q", decoded.Username)
	}
}

func TestRecordChangedMessageFromJSONInvalid(t *testing.T) {
	if _, err := RecordChangedMessageFromJSON([]byte("{bad")); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}
