package model

import (
	"time"

	"github.com/lib/pq"
)

type ChatType string

const (
	SingleChat     ChatType = "single"
	GroupChat      ChatType = "group"
	PrivateChannel ChatType = "private_channel"
	PublicChannel  ChatType = "public_channel"
)

type ChatList []Chat

type Chat struct {
	ID        int64         `db:"id" json:"id"`
	WsID      int64         `db:"ws_id" json:"ws_id"`
	Name      *string       `db:"name" json:"name,omitempty"`
	Type      ChatType      `db:"type" json:"type"`
	Members   pq.Int64Array `db:"members" json:"members"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

type CreateChat struct {
	Name    *string `json:"name,omitempty"`
	Members []int64 `json:"members"`
	Public  bool    `json:"public"`
}

// ChatType derives the chat kind the same way the storage layer classifies it:
// unnamed chats are direct conversations, named chats are channels.
func (c *CreateChat) ChatType() ChatType {
	if c.Name == nil {
		if len(c.Members) == 2 {
			return SingleChat
		}
		return GroupChat
	}

	if c.Public {
		return PublicChannel
	}

	return PrivateChannel
}

type UpdateChat struct {
	Name    *string `json:"name,omitempty"`
	Members []int64 `json:"members,omitempty"`
}
