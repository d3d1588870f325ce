package models

import (
	"time"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	BirthDate    *string   `db:"birth_date" json:"birth_date,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Ref returns the part of the user kept by an active session.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileUpdate - частичное обновление профиля, nil означает "не менять".
type ProfileUpdate struct {
	Name      *string
	Email     *string
	Phone     *string
	BirthDate *string
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.BirthDate == nil
}
