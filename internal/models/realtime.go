package models

// Wire event names. Client events arrive over the websocket; server events
// are fanned out to every member of a room (or, for errors, to a single
// connection).
const (
	EventJoin             = "join"
	EventLeave            = "leave"
	EventEditNotification = "editNotification"

	EventPresenceUpdate = "presenceUpdate"
	EventDocumentUpdate = "documentUpdate"
	EventError          = "error"
)

// ClientEvent is a message read from a websocket connection.
type ClientEvent struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Token   string `json:"token"`
	Content string `json:"content"`

	// ConnID is stamped by the reading connection, never trusted from the
	// wire.
	ConnID string `json:"-"`
}

// Participant is one connection's membership record within a room.
type Participant struct {
	ConnID      string `json:"connectionId"`
	DisplayName string `json:"displayName"`
}

// ServerEvent is a message delivered to clients. Room-wide events travel
// through the redis backplane so every process delivers them to its local
// members.
type ServerEvent struct {
	Type         string        `json:"type"`
	RoomID       string        `json:"roomId"`
	Participants []Participant `json:"participants,omitempty"`
	Content      string        `json:"content"`
	Version      int           `json:"version,omitempty"`
	Message      string        `json:"message,omitempty"`
}
