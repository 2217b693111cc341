//go:generate mockgen -destination=mock_handler_test.go -package=${GOPACKAGE} -source=handler.go
package user

import (
	"context"
	"encoding/json"
	"fmt"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/notify-service/internal/config"
)

type DBRepo interface {
	UpdateUserFullname(ctx context.Context, userID int64, fullname string) error
}

// ProfileUpdatedMessage is the platform user bus payload applied to the
// local users table.
type ProfileUpdatedMessage struct {
	UserID   int64  `json:"user_id"`
	Fullname string `json:"fullname"`
}

type Handler struct {
	repository DBRepo
}

func New(repo DBRepo) *Handler {
	return &Handler{
		repository: repo,
	}
}

func (h *Handler) Handler(ctx context.Context, in []byte) {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("UserProfileUpdated")

	var msg ProfileUpdatedMessage
	if err := json.Unmarshal(in, &msg); err != nil {
		logger.Error(fmt.Sprintf("failed to unmarshal user message: %v", err))
		return
	}

	if msg.UserID == 0 || msg.Fullname == "" {
		logger.Error(fmt.Sprintf("incomplete user message: %s", string(in)))
		return
	}

	if err := h.repository.UpdateUserFullname(ctx, msg.UserID, msg.Fullname); err != nil {
		logger.Error(fmt.Sprintf("failed to update user %d fullname: %v", msg.UserID, err))
	}
}
