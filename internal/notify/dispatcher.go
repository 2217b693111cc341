package notify

import "github.com/s21platform/notify-service/internal/model"

// Dispatcher routes one decoded event to every targeted user's channel.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
	}
}

// Dispatch publishes a shared reference to event into the channel of every
// user in the audience. Users without a channel have never connected; the
// event is simply not retained for them. Dispatch never blocks.
func (d *Dispatcher) Dispatch(event model.AppEvent, audience map[int64]struct{}) {
	for userID := range audience {
		channel, ok := d.registry.Lookup(userID)
		if !ok {
			continue
		}
		channel.Publish(event)
	}
}
