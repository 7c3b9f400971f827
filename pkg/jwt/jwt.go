package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims que emite la API del catálogo. La consola solo lee Perfil para decidir
// qué controles mostrar; la autorización real la hace la API.
type Claims struct {
	jwt.RegisteredClaims
	Nome   string `json:"nome,omitempty"`
	Email  string `json:"email,omitempty"`
	Perfil string `json:"perfil"` // "Administrador" | "Supervisor" | "Analista"
}

// Generate genera un token firmado HS256 con los claims del catálogo.
func Generate(secret, subject, nome, email, perfil string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Nome:   nome,
		Email:  email,
		Perfil: perfil,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Decode lee los claims sin verificar firma ni expiración. La consola no
// conoce la clave de la API; un token malformado devuelve error.
func Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("jwt: decode: %w", err)
	}
	return claims, nil
}
