package dochub

import "collabdocs/backend/internal/models"

// Client is the interface for one connected editing session. It abstracts
// the underlying transport so the broker can manage connections uniformly
// and tests can substitute in-memory doubles.
type Client interface {
	// GetConnID returns the opaque identifier assigned to this connection.
	GetConnID() string

	// GetSendChannel returns the channel the broker writes server events
	// to for this connection. It is a send-only channel.
	GetSendChannel() chan<- models.ServerEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the client's outgoing channel down.
	Close()
}
