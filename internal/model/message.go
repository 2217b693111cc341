package model

import (
	"time"

	"github.com/lib/pq"
)

type MessageList []Message

type Message struct {
	ID        int64          `db:"id" json:"id"`
	ChatID    int64          `db:"chat_id" json:"chat_id"`
	SenderID  int64          `db:"sender_id" json:"sender_id"`
	Content   string         `db:"content" json:"content"`
	Files     pq.StringArray `db:"files" json:"files"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

type CreateMessage struct {
	Content string   `json:"content"`
	Files   []string `json:"files,omitempty"`
}
