package dto

import "github.com/jhoicas/catalogo-admin/internal/domain/entity"

// UserResponse usuario tal como lo lista la API.
type UserResponse struct {
	ID     entity.ID `json:"id"`
	Nome   string    `json:"nome"`
	Email  string    `json:"email"`
	Perfil string    `json:"perfil"`
}

// UserListResponse {"users": [...]}.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// UpdateProfileRequest cuerpo de PUT /usuarios/:id/update-profile.
type UpdateProfileRequest struct {
	PerfilNome string `json:"perfil_nome"`
}

// StageProfileForm formulario del selector de perfil.
type StageProfileForm struct {
	Perfil string `form:"perfil" validate:"required"`
}

// ToEntity convierte la respuesta; un perfil fuera del conjunto queda como PerfilIndefinido.
func (r UserResponse) ToEntity() entity.User {
	p, err := entity.ParsePerfil(r.Perfil)
	if err != nil {
		p = entity.PerfilIndefinido
	}
	return entity.User{ID: r.ID, Nome: r.Nome, Email: r.Email, Perfil: p}
}
