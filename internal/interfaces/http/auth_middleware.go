package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/pkg/jwt"
)

// Locals keys para la identidad del usuario en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUserName = "user_name"
	LocalRole     = "role"
)

// SystemUser identidad usada cuando la petición no trae un token válido.
const SystemUser = "system"

// AuthMiddleware lee el Bearer Token si existe y carga la identidad en c.Locals.
// Nunca rechaza: sin token, o con token inválido, la petición sigue como SystemUser.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalUserID, SystemUser)
		if claims := bearerClaims(c, jwtSecret); claims != nil && claims.UserID != "" {
			c.Locals(LocalUserID, claims.UserID)
			c.Locals(LocalUserName, claims.Name)
			c.Locals(LocalRole, claims.Role)
		}
		return c.Next()
	}
}

func bearerClaims(c *fiber.Ctx, secret string) *jwt.Claims {
	if secret == "" {
		return nil
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return nil
	}
	claims, err := jwt.Parse(secret, token)
	if err != nil {
		return nil
	}
	return claims
}

// GetUserID devuelve el UserID del contexto; SystemUser si no hay identidad.
func GetUserID(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocalUserID).(string); ok && s != "" {
		return s
	}
	return SystemUser
}

// GetRole devuelve el rol del token, vacío si no hay.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
