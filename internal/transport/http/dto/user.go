package dto

import "time"

// RegisterInput содержит данные для регистрации пользователя
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput: пустая строка означает "поле не передано".
// Телефон и дата рождения могут приходить с маской, в базу пишутся только цифры.
type UpdateProfileInput struct {
	Name      string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=20"`
	BirthDate string `json:"birth_date,omitempty" validate:"omitempty,max=10"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=4"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type ProfileResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	PhoneDisplay     string    `json:"phone_display,omitempty"`
	BirthDate        string    `json:"birth_date,omitempty"`
	BirthDateDisplay string    `json:"birth_date_display,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
