package amqp

import (
	"testing"
	"time"
)

func TestEntryMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  *EntryMessage
	}{
		{"sync", NewEntrySyncMessage("abc123")},
		{"delete", NewEntryDeleteMessage("def456")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := tt.msg.ToJSON()
			if err != nil {
				t.Fatalf("ToJSON: %v", err)
			}

			got, err := EntryMessageFromJSON(body)
			if err != nil {
				t.Fatalf("FromJSON: %v", err)
			}
			if got.Action != tt.msg.Action || got.EntryID != tt.msg.EntryID {
				t.Errorf("got %+v, want %+v", got, tt.msg)
			}
			if got.Timestamp.IsZero() {
				t.Error("timestamp not preserved")
			}
		})
	}
}

func TestEntryMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := EntryMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected an error for malformed payload")
	}
}

func TestNewMessagesStampTimestamp(t *testing.T) {
	before := time.Now()
	msg := NewEntrySyncMessage("x")
	if msg.Timestamp.Before(before.Add(-time.Second)) {
		t.Errorf("timestamp %v too old", msg.Timestamp)
	}
}
