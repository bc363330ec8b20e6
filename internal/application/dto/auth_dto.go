package dto

import "github.com/jhoicas/stockmanager/internal/domain/entity"

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token opaco más el usuario autenticado.
type LoginResponse struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}
