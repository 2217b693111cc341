package validator

import (
	"fmt"
	"strings"

	"github.com/s21platform/notify-service/internal/model"
)

const (
	maxUnnamedChatMembers = 8
	maxMessageLength      = 4096
)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateCreateUser(req *model.CreateUser) error {
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}

	if strings.TrimSpace(req.Fullname) == "" {
		return fmt.Errorf("fullname is required")
	}

	if strings.TrimSpace(req.Workspace) == "" {
		return fmt.Errorf("workspace is required")
	}

	if len(req.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	return nil
}

func (v *Validator) ValidateCreateChat(req *model.CreateChat) error {
	if len(req.Members) < 2 {
		return fmt.Errorf("chat must have at least 2 members, got %d", len(req.Members))
	}

	if req.Name == nil && len(req.Members) > maxUnnamedChatMembers {
		return fmt.Errorf("group chat with more than %d members must have a name", maxUnnamedChatMembers)
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return fmt.Errorf("chat name cannot be blank")
	}

	return nil
}

func (v *Validator) ValidateCreateMessage(req *model.CreateMessage) error {
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("content cannot be empty")
	}

	if len([]rune(req.Content)) > maxMessageLength {
		return fmt.Errorf("content exceeds maximum length of %d characters", maxMessageLength)
	}

	return nil
}
