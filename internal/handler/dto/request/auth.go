package request

import (
	"hospital-ops/internal/domain/user"
	"hospital-ops/internal/usecase/commands"
)

type RegisterPatientRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name" binding:"required,max=64"`
	Phone    string `json:"phone" binding:"required,max=20"`
}

func (r RegisterPatientRequest) ToInput() commands.RegisterPatientInput {
	return commands.RegisterPatientInput{
		Username: r.Username,
		Password: r.Password,
		Name:     r.Name,
		Phone:    r.Phone,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin doctor patient"`
}

func (r LoginRequest) GetRole() user.Role {
	return user.Role(r.Role)
}
