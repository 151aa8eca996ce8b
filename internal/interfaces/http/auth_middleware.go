package http

import (
	"context"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/policy"
)

// Locals keys para el usuario autenticado en Fiber.
const (
	LocalUser   = "user"
	LocalUserID = "user_id"
)

// Authenticator resuelve un access token al usuario vigente.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token y carga el usuario actual en c.Locals.
// En upgrades websocket también acepta el token en el query param access_token.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, errResp := bearerToken(c)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errResp)
		}
		user, err := auth.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalUser, user)
		c.Locals(LocalUserID, user.ID)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, *dto.ErrorResponse) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if websocket.IsWebSocketUpgrade(c) {
			if tok := c.Query("access_token"); tok != "" {
				return tok, nil
			}
		}
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Detail: "Authorization header requerido"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &dto.ErrorResponse{Code: "INVALID_TOKEN", Detail: "formato: Bearer <token>"}
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Detail: "token vacío"}
	}
	return tokenString, nil
}

// RequirePrivileged corta con 403 si el usuario no es admin/staff/superusuario.
// Los casos de uso vuelven a comprobarlo; este middleware solo evita trabajo inútil.
func RequirePrivileged() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Detail: "autenticación requerida"})
		}
		if !policy.IsPrivileged(user) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Detail: "no tiene permiso para realizar esta acción"})
		}
		return c.Next()
	}
}

// CurrentUser devuelve el usuario cargado por AuthMiddleware (nil si no hay).
func CurrentUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}
