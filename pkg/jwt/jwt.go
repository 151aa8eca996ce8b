package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrWrongTokenType se devuelve cuando un refresh se usa como access o viceversa.
var ErrWrongTokenType = errors.New("jwt: tipo de token incorrecto")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token solo como dato informativo; la autorización recarga el usuario.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
}

// Issuer parámetros comunes de firma.
type Issuer struct {
	Secret            string
	Issuer            string
	AccessExpMinutes  int
	RefreshExpMinutes int
}

// GenerateAccess emite un token de acceso de corta duración.
func (i Issuer) GenerateAccess(userID, role string) (string, error) {
	return Generate(i.Secret, userID, role, TypeAccess, i.Issuer, i.AccessExpMinutes)
}

// GenerateRefresh emite un token de refresco.
func (i Issuer) GenerateRefresh(userID, role string) (string, error) {
	return Generate(i.Secret, userID, role, TypeRefresh, i.Issuer, i.RefreshExpMinutes)
}

// Generate genera un token JWT firmado (HS256) con userID, role y tipo.
func Generate(secret, userID, role, tokenType, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, expiración y tipo, y devuelve los claims.
func Parse(secret, tokenString, expectedType string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
