package entity

import (
	"fmt"

	"github.com/jhoicas/catalogo-admin/internal/domain"
)

// Perfil rol de un usuario del catálogo. Conjunto cerrado: solo los tres
// valores de abajo son válidos; el valor cero representa "ninguno".
type Perfil string

// Perfiles válidos para User.
const (
	PerfilIndefinido    Perfil = ""
	PerfilAdministrador Perfil = "Administrador"
	PerfilSupervisor    Perfil = "Supervisor"
	PerfilAnalista      Perfil = "Analista"
)

// Perfis devuelve los perfiles seleccionables, en el orden del selector.
func Perfis() []Perfil {
	return []Perfil{PerfilAdministrador, PerfilSupervisor, PerfilAnalista}
}

// ParsePerfil rechaza cualquier texto fuera del conjunto cerrado.
func ParsePerfil(s string) (Perfil, error) {
	p := Perfil(s)
	if !p.Valid() {
		return PerfilIndefinido, fmt.Errorf("%w: %q", domain.ErrUnknownPerfil, s)
	}
	return p, nil
}

// Valid indica si el perfil pertenece al conjunto cerrado.
func (p Perfil) Valid() bool {
	switch p {
	case PerfilAdministrador, PerfilSupervisor, PerfilAnalista:
		return true
	case PerfilIndefinido:
		return false
	}
	return false
}

func (p Perfil) String() string {
	if p == PerfilIndefinido {
		return "Indefinido"
	}
	return string(p)
}

// Capabilities controles visibles para un perfil. Es solo presentación:
// la API aplica su propia autorización.
type Capabilities struct {
	CanAddProduct    bool
	CanEditProduct   bool
	CanDeleteProduct bool
	CanManageUsers   bool
}

// CapabilitiesFor mapea cada perfil a sus controles.
func CapabilitiesFor(p Perfil) Capabilities {
	switch p {
	case PerfilAdministrador:
		return Capabilities{CanAddProduct: true, CanManageUsers: true}
	case PerfilSupervisor:
		return Capabilities{CanAddProduct: true, CanEditProduct: true, CanDeleteProduct: true}
	case PerfilAnalista:
		return Capabilities{CanAddProduct: true}
	case PerfilIndefinido:
		return Capabilities{CanAddProduct: true}
	}
	return Capabilities{CanAddProduct: true}
}

// BadgeClass clase CSS del badge de perfil en la tabla de usuarios.
func (p Perfil) BadgeClass() string {
	switch p {
	case PerfilAdministrador:
		return "bg-danger"
	case PerfilSupervisor:
		return "bg-info"
	case PerfilAnalista, PerfilIndefinido:
		return "bg-secondary"
	}
	return "bg-secondary"
}

// User usuario tal como lo lista la API. La consola nunca crea usuarios
// directamente; solo cambia su perfil.
type User struct {
	ID     ID
	Nome   string
	Email  string
	Perfil Perfil // PerfilIndefinido si la API envió un valor fuera del conjunto
}
