// Package push delivers real-time events to connected clients.
package push

const (
	EventNotification = "notification:new"
	EventNewMessage   = "newMessage"
	EventMessageRead  = "messageRead"
)

// Publisher triggers an event on a channel. Implementations must be safe for concurrent use.
type Publisher interface {
	Trigger(channel, event string, data interface{}) error
}

// UserChannel is the private channel of one user
func UserChannel(userID string) string {
	return "user-" + userID
}

// NoopPublisher drops every event; used when PUSH_DRIVER=none
type NoopPublisher struct{}

func (NoopPublisher) Trigger(channel, event string, data interface{}) error {
	return nil
}
