package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/notify-service/internal/config"
	"github.com/s21platform/notify-service/internal/model"
	"github.com/s21platform/notify-service/internal/pkg/password"
)

const defaultMessagesLimit = int32(20)

type AuthResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	repository   DBRepo
	events       EventSubscriber
	validator    Validator
	jwtGenerator JWTGenerator
}

func New(repo DBRepo, events EventSubscriber, validator Validator, jwtGenerator JWTGenerator) *Handler {
	return &Handler{
		repository:   repo,
		events:       events,
		validator:    validator,
		jwtGenerator: jwtGenerator,
	}
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SignUp")

	var req model.CreateUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateCreateUser(&req); err != nil {
		logger.Error(fmt.Sprintf("signup validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("signup validation failed: %v", err), http.StatusBadRequest)
		return
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to hash password: %v", err))
		h.writeError(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	user, err := h.repository.CreateUser(r.Context(), &req, passwordHash)
	if errors.Is(err, model.ErrEmailAlreadyExists) {
		logger.Error(fmt.Sprintf("email %s already exists", req.Email))
		h.writeError(w, fmt.Sprintf("email %s already exists", req.Email), http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create user: %v", err))
		h.writeError(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := h.jwtGenerator.GenerateToken(user)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate token: %v", err))
		h.writeError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, AuthResponse{Token: token}, http.StatusCreated)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SignIn")

	var req model.SigninUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.repository.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		logger.Error(fmt.Sprintf("failed to get user: %v", err))
		h.writeError(w, "failed to sign in", http.StatusInternalServerError)
		return
	}

	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		logger.Error(fmt.Sprintf("invalid credentials for %s", req.Email))
		h.writeError(w, "invalid email or password", http.StatusForbidden)
		return
	}

	token, err := h.jwtGenerator.GenerateToken(user)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate token: %v", err))
		h.writeError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, AuthResponse{Token: token}, http.StatusOK)
}

func (h *Handler) ListChatUsers(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ListChatUsers")

	wsID, ok := r.Context().Value(config.KeyWorkspaceID).(int64)
	if !ok {
		logger.Error("failed to get workspace ID")
		h.writeError(w, "failed to get workspace ID", http.StatusInternalServerError)
		return
	}

	users, err := h.repository.GetWorkspaceUsers(r.Context(), wsID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get workspace users: %v", err))
		h.writeError(w, "failed to get workspace users", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, users, http.StatusOK)
}

func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ListChats")

	userID, wsID, ok := identityFromContext(r)
	if !ok {
		logger.Error("failed to get user identity")
		h.writeError(w, "failed to get user identity", http.StatusInternalServerError)
		return
	}

	chats, err := h.repository.GetUserChats(r.Context(), userID, wsID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get chats: %v", err))
		h.writeError(w, "failed to get chats", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, chats, http.StatusOK)
}

func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CreateChat")

	userID, wsID, ok := identityFromContext(r)
	if !ok {
		logger.Error("failed to get user identity")
		h.writeError(w, "failed to get user identity", http.StatusInternalServerError)
		return
	}

	var req model.CreateChat
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Members = withMember(req.Members, userID)

	if err := h.validator.ValidateCreateChat(&req); err != nil {
		logger.Error(fmt.Sprintf("chat validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("chat validation failed: %v", err), http.StatusBadRequest)
		return
	}

	count, err := h.repository.CountUsersByIDs(r.Context(), req.Members)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to check members: %v", err))
		h.writeError(w, "failed to check members", http.StatusInternalServerError)
		return
	}

	if count != int64(len(req.Members)) {
		logger.Error("some chat members do not exist")
		h.writeError(w, "some chat members do not exist", http.StatusBadRequest)
		return
	}

	chat, err := h.repository.CreateChat(r.Context(), wsID, &req)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create chat: %v", err))
		h.writeError(w, "failed to create chat", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, chat, http.StatusCreated)
}

func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetChat")

	chat, ok := h.memberChat(w, r, logger)
	if !ok {
		return
	}

	h.writeJSON(w, chat, http.StatusOK)
}

func (h *Handler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("UpdateChat")

	chat, ok := h.memberChat(w, r, logger)
	if !ok {
		return
	}

	var req model.UpdateChat
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Members != nil && len(req.Members) < 2 {
		logger.Error("chat must keep at least 2 members")
		h.writeError(w, "chat must keep at least 2 members", http.StatusBadRequest)
		return
	}

	updated, err := h.repository.UpdateChat(r.Context(), chat.ID, &req)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to update chat: %v", err))
		h.writeError(w, "failed to update chat", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, updated, http.StatusOK)
}

func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("DeleteChat")

	chat, ok := h.memberChat(w, r, logger)
	if !ok {
		return
	}

	if err := h.repository.DeleteChat(r.Context(), chat.ID); err != nil {
		logger.Error(fmt.Sprintf("failed to delete chat: %v", err))
		h.writeError(w, "failed to delete chat", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("ListMessages")

	chat, ok := h.memberChat(w, r, logger)
	if !ok {
		return
	}

	lastID := int64(0)
	if raw := r.URL.Query().Get("last_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			logger.Error(fmt.Sprintf("invalid last_id: %v", err))
			h.writeError(w, "invalid last_id", http.StatusBadRequest)
			return
		}
		lastID = parsed
	}

	limit := defaultMessagesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			logger.Error(fmt.Sprintf("invalid limit: %v", raw))
			h.writeError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = int32(parsed)
	}

	messages, err := h.repository.GetChatMessages(r.Context(), chat.ID, lastID, limit)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get messages: %v", err))
		h.writeError(w, "failed to get messages", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, messages, http.StatusOK)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SendMessage")

	userID, _, ok := identityFromContext(r)
	if !ok {
		logger.Error("failed to get user identity")
		h.writeError(w, "failed to get user identity", http.StatusInternalServerError)
		return
	}

	chatID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		logger.Error(fmt.Sprintf("invalid chat id: %v", err))
		h.writeError(w, "invalid chat id", http.StatusBadRequest)
		return
	}

	var req model.CreateMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateCreateMessage(&req); err != nil {
		logger.Error(fmt.Sprintf("message validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("message validation failed: %v", err), http.StatusBadRequest)
		return
	}

	isMember, err := h.repository.IsChatMember(r.Context(), chatID, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to check chat membership: %v", err))
		h.writeError(w, "failed to check chat membership", http.StatusInternalServerError)
		return
	}

	if !isMember {
		logger.Error(fmt.Sprintf("user %d is not a member of chat %d", userID, chatID))
		h.writeError(w, "you are not a member of this chat", http.StatusForbidden)
		return
	}

	message, err := h.repository.CreateMessage(r.Context(), chatID, userID, &req)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create message: %v", err))
		h.writeError(w, "failed to create message", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, message, http.StatusCreated)
}

// ----------------------------- helpers -----------------------------

// memberChat loads the chat from the URL and rejects callers that are not
// members. Membership is checked against the chat row itself, the same
// source of truth the notification triggers use.
func (h *Handler) memberChat(w http.ResponseWriter, r *http.Request, logger logger_lib.LoggerInterface) (*model.Chat, bool) {
	userID, _, ok := identityFromContext(r)
	if !ok {
		logger.Error("failed to get user identity")
		h.writeError(w, "failed to get user identity", http.StatusInternalServerError)
		return nil, false
	}

	chatID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		logger.Error(fmt.Sprintf("invalid chat id: %v", err))
		h.writeError(w, "invalid chat id", http.StatusBadRequest)
		return nil, false
	}

	chat, err := h.repository.GetChatByID(r.Context(), chatID)
	if errors.Is(err, model.ErrChatNotFound) {
		logger.Error(fmt.Sprintf("chat %d not found", chatID))
		h.writeError(w, fmt.Sprintf("chat %d not found", chatID), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to get chat: %v", err))
		h.writeError(w, "failed to get chat", http.StatusInternalServerError)
		return nil, false
	}

	if !containsMember(chat.Members, userID) {
		logger.Error(fmt.Sprintf("user %d is not a member of chat %d", userID, chatID))
		h.writeError(w, "you are not a member of this chat", http.StatusForbidden)
		return nil, false
	}

	return chat, true
}

func identityFromContext(r *http.Request) (userID, wsID int64, ok bool) {
	userID, ok = r.Context().Value(config.KeyUserID).(int64)
	if !ok {
		return 0, 0, false
	}

	wsID, ok = r.Context().Value(config.KeyWorkspaceID).(int64)
	if !ok {
		return 0, 0, false
	}

	return userID, wsID, true
}

func withMember(members []int64, userID int64) []int64 {
	if containsMember(members, userID) {
		return members
	}

	return append(members, userID)
}

func containsMember(members []int64, userID int64) bool {
	for _, id := range members {
		if id == userID {
			return true
		}
	}

	return false
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
