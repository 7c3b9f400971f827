package entity

import "time"

// Credential token bearer emitido por la API y los claims que la consola lee de él.
type Credential struct {
	Token     string
	Subject   string
	Nome      string
	Email     string
	Perfil    Perfil
	ExpiresAt time.Time // cero si el token no trae exp
}
