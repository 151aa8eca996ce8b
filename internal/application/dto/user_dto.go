package dto

// RegisterRequest alta pública de cliente. Cualquier rol enviado se ignora.
type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest acepta email o username como identificador.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

// Identifier devuelve el email si viene, si no el username.
func (r LoginRequest) Identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// RefreshRequest cuerpo de /auth/token/refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// UserResponse vista pública del usuario.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// TokenPair tokens emitidos.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// AuthResponse respuesta de registro y login.
type AuthResponse struct {
	User   UserResponse `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}
