package model

// AppEvent is the closed set of chat-domain changes pushed to connected
// clients. Name reports the wire tag of the frame carrying the event.
//
// Events are immutable once constructed and are shared across every recipient
// of one dispatch, so implementations must not retain mutable state.
type AppEvent interface {
	Name() string

	isAppEvent()
}

// ChatCreated is emitted when a chat row is inserted.
type ChatCreated struct {
	Chat
}

// ChatUpdated is emitted when a chat row changes, usually its member list.
type ChatUpdated struct {
	Chat
}

// ChatDeleted is emitted when a chat row is removed; it carries the last
// observed state of the chat.
type ChatDeleted struct {
	Chat
}

// MessageCreated is emitted when a message row is inserted.
type MessageCreated struct {
	Message
}

func (ChatCreated) Name() string    { return "NewChat" }
func (ChatUpdated) Name() string    { return "AddToChat" }
func (ChatDeleted) Name() string    { return "RemoveFromChat" }
func (MessageCreated) Name() string { return "NewMessage" }

func (ChatCreated) isAppEvent()    {}
func (ChatUpdated) isAppEvent()    {}
func (ChatDeleted) isAppEvent()    {}
func (MessageCreated) isAppEvent() {}
