//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package rest

import (
	"context"

	"github.com/s21platform/notify-service/internal/model"
	"github.com/s21platform/notify-service/internal/notify"
)

type DBRepo interface {
	CreateUser(ctx context.Context, input *model.CreateUser, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetWorkspaceUsers(ctx context.Context, wsID int64) ([]model.ChatUser, error)
	CountUsersByIDs(ctx context.Context, ids []int64) (int64, error)
	GetUserChats(ctx context.Context, userID, wsID int64) (*model.ChatList, error)
	CreateChat(ctx context.Context, wsID int64, input *model.CreateChat) (*model.Chat, error)
	GetChatByID(ctx context.Context, chatID int64) (*model.Chat, error)
	UpdateChat(ctx context.Context, chatID int64, input *model.UpdateChat) (*model.Chat, error)
	DeleteChat(ctx context.Context, chatID int64) error
	IsChatMember(ctx context.Context, chatID, userID int64) (bool, error)
	GetChatMessages(ctx context.Context, chatID, lastID int64, limit int32) (*model.MessageList, error)
	CreateMessage(ctx context.Context, chatID, senderID int64, input *model.CreateMessage) (*model.Message, error)
}

// EventSubscriber hands out per-user event cursors for delivery sessions.
type EventSubscriber interface {
	Subscribe(userID int64) *notify.Subscription
}

type Validator interface {
	ValidateCreateUser(req *model.CreateUser) error
	ValidateCreateChat(req *model.CreateChat) error
	ValidateCreateMessage(req *model.CreateMessage) error
}

type JWTGenerator interface {
	GenerateToken(user *model.User) (string, error)
}
