package notify

import (
	"encoding/json"
	"fmt"

	"github.com/s21platform/notify-service/internal/model"
)

const (
	opInsert = "INSERT"
	opUpdate = "UPDATE"
	opDelete = "DELETE"
)

// ChatUpdatedPayload mirrors the chat_updated trigger payload:
// pg_notify('chat_updated', json_build_object('op', TG_OP, 'old', OLD, 'new', NEW)::text)
type ChatUpdatedPayload struct {
	Op  string      `json:"op"`
	Old *model.Chat `json:"old"`
	New *model.Chat `json:"new"`
}

// MessageCreatedPayload mirrors the chat_message_created trigger payload.
// Membership is carried explicitly so the fan-out never has to re-query it.
type MessageCreatedPayload struct {
	Message model.Message `json:"message"`
	Members []int64       `json:"members"`
}

// Decoded is one typed domain event together with the users it must reach.
type Decoded struct {
	Event    model.AppEvent
	Audience map[int64]struct{}
}

// Decode parses a raw notification into a typed event and its audience.
// This is the only place payload shape is validated; downstream components
// trust decoded values.
func Decode(raw RawNotification) (*Decoded, error) {
	switch raw.Channel {
	case channelChatUpdated:
		return decodeChatUpdated(raw.Payload)
	case channelChatMessageCreated:
		return decodeMessageCreated(raw.Payload)
	default:
		return nil, fmt.Errorf("unknown notification channel %q", raw.Channel)
	}
}

func decodeChatUpdated(payload string) (*Decoded, error) {
	var p ChatUpdatedPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to parse chat_updated payload: %v", err)
	}

	var event model.AppEvent
	switch p.Op {
	case opInsert:
		if p.New == nil {
			return nil, fmt.Errorf("chat_updated INSERT without new chat")
		}
		event = model.ChatCreated{Chat: *p.New}
	case opUpdate:
		if p.New == nil {
			return nil, fmt.Errorf("chat_updated UPDATE without new chat")
		}
		event = model.ChatUpdated{Chat: *p.New}
	case opDelete:
		if p.Old == nil {
			return nil, fmt.Errorf("chat_updated DELETE without old chat")
		}
		event = model.ChatDeleted{Chat: *p.Old}
	default:
		return nil, fmt.Errorf("unknown chat_updated op %q", p.Op)
	}

	return &Decoded{
		Event:    event,
		Audience: ChatAudience(p.Old, p.New),
	}, nil
}

func decodeMessageCreated(payload string) (*Decoded, error) {
	var p MessageCreatedPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to parse chat_message_created payload: %v", err)
	}

	audience := make(map[int64]struct{}, len(p.Members))
	for _, id := range p.Members {
		audience[id] = struct{}{}
	}

	return &Decoded{
		Event:    model.MessageCreated{Message: p.Message},
		Audience: audience,
	}, nil
}
