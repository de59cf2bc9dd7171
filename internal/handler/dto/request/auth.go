package request

import (
	"rental-booking/internal/domain/user"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

func (r *LoginRequest) ToDomain() (user.Credentials, error) {
	return user.NewCredentials(r.Email, r.Password)
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

func (r *RegisterRequest) ToDomain() (user.Email, user.Password, error) {
	email, err := user.NewEmail(r.Email)
	if err != nil {
		return user.Email{}, user.Password{}, err
	}
	password, err := user.NewPassword(r.Password)
	if err != nil {
		return user.Email{}, user.Password{}, err
	}
	return email, password, nil
}
