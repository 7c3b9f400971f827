package dto

// LoginRequest credenciales del formulario de login (y cuerpo de POST /login).
type LoginRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
	Senha string `json:"senha" form:"senha" validate:"required"`
}

// LoginResponse respuesta de la API: {"token": "..."}.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest formulario de registro (y cuerpo de POST /register).
// Sin política de contraseña: la API decide.
type RegisterRequest struct {
	Nome  string `json:"nome" form:"nome" validate:"required,max=200"`
	Email string `json:"email" form:"email" validate:"required,email"`
	Senha string `json:"senha" form:"senha" validate:"required"`
}
