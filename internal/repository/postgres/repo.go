package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/s21platform/notify-service/internal/config"
	"github.com/s21platform/notify-service/internal/model"
)

type Repository struct {
	connection *sqlx.DB
}

func New(cfg *config.Config) *Repository {
	conStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.Host, cfg.Postgres.Port)

	conn, err := sqlx.Connect("postgres", conStr)
	if err != nil {
		log.Fatal("error connect: ", err)
	}

	return &Repository{
		connection: conn,
	}
}

func (r *Repository) Close() {
	_ = r.connection.Close()
}

const uniqueViolation = "23505"

// CreateUser creates the workspace when it does not exist yet and inserts the
// user in one transaction. The first user of a workspace becomes its owner.
func (r *Repository) CreateUser(ctx context.Context, input *model.CreateUser, passwordHash string) (*model.User, error) {
	tx, err := r.connection.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var ws model.Workspace
	query, args, err := sq.Select("id", "name", "owner_id", "created_at").
		From("workspaces").
		Where(sq.Eq{"name": input.Workspace}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	err = tx.GetContext(ctx, &ws, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		query, args, err = sq.Insert("workspaces").
			Columns("name", "owner_id").
			Values(input.Workspace, 0).
			Suffix("RETURNING id, name, owner_id, created_at").
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build sql query: %v", err)
		}

		if err = tx.GetContext(ctx, &ws, query, args...); err != nil {
			return nil, fmt.Errorf("failed to create workspace: %v", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to find workspace: %v", err)
	}

	query, args, err = sq.Insert("users").
		Columns("ws_id", "email", "fullname", "password_hash").
		Values(ws.ID, input.Email, input.Fullname, passwordHash).
		Suffix("RETURNING id, ws_id, fullname, email, password_hash, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var user model.User
	if err = tx.GetContext(ctx, &user, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, model.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %v", err)
	}

	if ws.OwnerID == 0 {
		query, args, err = sq.Update("workspaces").
			Set("owner_id", user.ID).
			Where(sq.Eq{"id": ws.ID}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build sql query: %v", err)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("failed to update workspace owner: %v", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query, args, err := sq.Select("id", "ws_id", "fullname", "email", "password_hash", "created_at").
		From("users").
		Where(sq.Eq{"email": email}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var user model.User
	err = r.connection.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	return &user, nil
}

func (r *Repository) UpdateUserFullname(ctx context.Context, userID int64, fullname string) error {
	query, args, err := sq.Update("users").
		Set("fullname", fullname).
		Where(sq.Eq{"id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.connection.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user fullname: %v", err)
	}

	return nil
}

func (r *Repository) GetWorkspaceUsers(ctx context.Context, wsID int64) ([]model.ChatUser, error) {
	query, args, err := sq.Select("id", "fullname", "email").
		From("users").
		Where(sq.Eq{"ws_id": wsID}).
		OrderBy("id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var users []model.ChatUser
	err = r.connection.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace users: %v", err)
	}

	return users, nil
}

func (r *Repository) CountUsersByIDs(ctx context.Context, ids []int64) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("users").
		Where("id = ANY(?)", pq.Int64Array(ids)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build sql query: %v", err)
	}

	var count int64
	err = r.connection.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %v", err)
	}

	return count, nil
}

func (r *Repository) GetUserChats(ctx context.Context, userID, wsID int64) (*model.ChatList, error) {
	query, args, err := sq.Select("id", "ws_id", "name", "type", "members", "created_at").
		From("chats").
		Where("ws_id = ? AND ? = ANY(members)", wsID, userID).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var chats model.ChatList
	err = r.connection.SelectContext(ctx, &chats, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get chats: %v", err)
	}

	return &chats, nil
}

func (r *Repository) CreateChat(ctx context.Context, wsID int64, input *model.CreateChat) (*model.Chat, error) {
	query, args, err := sq.Insert("chats").
		Columns("ws_id", "name", "type", "members").
		Values(wsID, input.Name, input.ChatType(), pq.Int64Array(input.Members)).
		Suffix("RETURNING id, ws_id, name, type, members, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var chat model.Chat
	err = r.connection.GetContext(ctx, &chat, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %v", err)
	}

	return &chat, nil
}

func (r *Repository) GetChatByID(ctx context.Context, chatID int64) (*model.Chat, error) {
	query, args, err := sq.Select("id", "ws_id", "name", "type", "members", "created_at").
		From("chats").
		Where(sq.Eq{"id": chatID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var chat model.Chat
	err = r.connection.GetContext(ctx, &chat, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %v", err)
	}

	return &chat, nil
}

// UpdateChat patches only the provided fields. The chat_updated trigger turns
// the row change into a notification, so nothing is published from here.
func (r *Repository) UpdateChat(ctx context.Context, chatID int64, input *model.UpdateChat) (*model.Chat, error) {
	queryBuilder := sq.Update("chats").
		Where(sq.Eq{"id": chatID}).
		Suffix("RETURNING id, ws_id, name, type, members, created_at")

	if input.Name != nil {
		queryBuilder = queryBuilder.Set("name", *input.Name)
	}

	if input.Members != nil {
		queryBuilder = queryBuilder.Set("members", pq.Int64Array(input.Members))
	}

	query, args, err := queryBuilder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var chat model.Chat
	err = r.connection.GetContext(ctx, &chat, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update chat: %v", err)
	}

	return &chat, nil
}

func (r *Repository) DeleteChat(ctx context.Context, chatID int64) error {
	query, args, err := sq.Delete("chats").
		Where(sq.Eq{"id": chatID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	result, err := r.connection.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %v", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return model.ErrChatNotFound
	}

	return nil
}

func (r *Repository) IsChatMember(ctx context.Context, chatID, userID int64) (bool, error) {
	query, args, err := sq.Select("COUNT(*) > 0").
		From("chats").
		Where("id = ? AND ? = ANY(members)", chatID, userID).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build sql query: %v", err)
	}

	var isMember bool
	err = r.connection.GetContext(ctx, &isMember, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check chat membership: %v", err)
	}

	return isMember, nil
}

func (r *Repository) GetChatMessages(ctx context.Context, chatID, lastID int64, limit int32) (*model.MessageList, error) {
	queryBuilder := sq.Select("id", "chat_id", "sender_id", "content", "files", "created_at").
		From("messages").
		Where(sq.Eq{"chat_id": chatID}).
		OrderBy("id DESC").
		Limit(uint64(limit))

	if lastID > 0 {
		queryBuilder = queryBuilder.Where(sq.Lt{"id": lastID})
	}

	query, args, err := queryBuilder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var messages model.MessageList
	err = r.connection.SelectContext(ctx, &messages, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %v", err)
	}

	return &messages, nil
}

// CreateMessage inserts the row; the chat_message_created trigger carries it
// to subscribers.
func (r *Repository) CreateMessage(ctx context.Context, chatID, senderID int64, input *model.CreateMessage) (*model.Message, error) {
	files := input.Files
	if files == nil {
		files = []string{}
	}

	query, args, err := sq.Insert("messages").
		Columns("chat_id", "sender_id", "content", "files").
		Values(chatID, senderID, input.Content, pq.StringArray(files)).
		Suffix("RETURNING id, chat_id, sender_id, content, files, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var message model.Message
	err = r.connection.GetContext(ctx, &message, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %v", err)
	}

	return &message, nil
}
