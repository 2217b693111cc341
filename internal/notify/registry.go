package notify

import (
	"sync"

	"github.com/s21platform/notify-service/internal/model"
)

const channelCapacity = 1024

// Registry maps user ids to their delivery channels. It is the single piece
// of state shared between the ingestion loop and every delivery session.
//
// Entries are created on a user's first subscription and live for the rest of
// the process. There is no eviction: registry size grows with the number of
// distinct users that have ever connected. Known limitation, kept on purpose
// so a reconnecting client keeps whatever is buffered for it.
type Registry struct {
	capacity int

	mu    sync.RWMutex
	users map[int64]*UserChannel
}

func NewRegistry() *Registry {
	return &Registry{
		capacity: channelCapacity,
		users:    make(map[int64]*UserChannel),
	}
}

// GetOrCreate returns the channel for userID, creating it atomically on first
// access.
func (r *Registry) GetOrCreate(userID int64) *UserChannel {
	r.mu.RLock()
	ch, ok := r.users[userID]
	r.mu.RUnlock()
	if ok {
		return ch
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok = r.users[userID]; ok {
		return ch
	}
	ch = newUserChannel(r.capacity)
	r.users[userID] = ch
	return ch
}

// Lookup returns the channel for userID if one exists. It never creates, so
// the dispatch path cannot grow the map on behalf of users that have never
// connected.
func (r *Registry) Lookup(userID int64) (*UserChannel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.users[userID]
	return ch, ok
}

// Subscribe returns a fresh read cursor on the user's channel, creating the
// channel if needed. The cursor only observes events published after this
// call.
func (r *Registry) Subscribe(userID int64) *Subscription {
	return r.GetOrCreate(userID).Subscribe()
}

// UserChannel is a bounded multi-subscriber channel. Every subscriber holds
// an independent cursor and receives each event published after it attached;
// a full cursor drops its own oldest unread event instead of blocking the
// publisher.
type UserChannel struct {
	capacity int

	mu      sync.Mutex
	cursors map[int64]chan model.AppEvent
	nextID  int64
}

func newUserChannel(capacity int) *UserChannel {
	return &UserChannel{
		capacity: capacity,
		cursors:  make(map[int64]chan model.AppEvent),
	}
}

// Publish delivers one shared event value to every cursor. It never blocks:
// a slow consumer only loses its own oldest unread events.
func (c *UserChannel) Publish(event model.AppEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cursor := range c.cursors {
		select {
		case cursor <- event:
		default:
			// this cursor is full, evict its oldest unread event
			select {
			case <-cursor:
			default:
			}
			select {
			case cursor <- event:
			default:
			}
		}
	}
}

func (c *UserChannel) Subscribe() *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	cursor := make(chan model.AppEvent, c.capacity)
	c.cursors[id] = cursor

	return &Subscription{
		C:       cursor,
		channel: c,
		id:      id,
	}
}

func (c *UserChannel) unsubscribe(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cursors, id)
}

// Subscription is one read cursor into a UserChannel.
type Subscription struct {
	C <-chan model.AppEvent

	channel *UserChannel
	id      int64
}

// Close detaches the cursor. The user's channel itself stays registered for
// the next session of the same user.
func (s *Subscription) Close() {
	s.channel.unsubscribe(s.id)
}
