package amqp

import (
	"encoding/json"
	"time"
)

// Action tells the worker what to do with the referenced entry.
type Action string

const (
	ActionSync   Action = "sync"
	ActionDelete Action = "delete"
)

// EntryMessage is the lightweight payload on the sync queue. It carries
// only the entry id; the worker fetches the full entry from the database,
// so a stale message never overwrites a newer save.
type EntryMessage struct {
	Action    Action    `json:"action"`
	EntryID   string    `json:"entry_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(entryID string) *EntryMessage {
	return &EntryMessage{Action: ActionSync, EntryID: entryID, Timestamp: time.Now()}
}

func NewEntryDeleteMessage(entryID string) *EntryMessage {
	return &EntryMessage{Action: ActionDelete, EntryID: entryID, Timestamp: time.Now()}
}

func (m *EntryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryMessageFromJSON(data []byte) (*EntryMessage, error) {
	var msg EntryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
