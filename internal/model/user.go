package model

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	WsID         int64     `db:"ws_id" json:"ws_id"`
	Fullname     string    `db:"fullname" json:"fullname"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ChatUser is the public projection of a user shown to workspace members.
type ChatUser struct {
	ID       int64  `db:"id" json:"id"`
	Fullname string `db:"fullname" json:"fullname"`
	Email    string `db:"email" json:"email"`
}

type Workspace struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateUser struct {
	Email     string `json:"email"`
	Fullname  string `json:"fullname"`
	Workspace string `json:"workspace"`
	Password  string `json:"password"`
}

type SigninUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
