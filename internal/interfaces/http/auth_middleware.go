package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/domain"
	"github.com/jhoicas/pluckd-api/internal/domain/entity"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

// LocalIdentity clave en c.Locals de la identidad autenticada.
const LocalIdentity = "identity"

// TokenVerifier valida un token de sesión y resuelve la identidad vigente del usuario.
// Lo implementa *auth.SessionService.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*entity.Identity, error)
}

// AuthMiddleware lee el token de la cookie de sesión (o de Authorization: Bearer como alternativa),
// lo verifica y deja la identidad en c.Locals. Cualquier falla de sesión responde 401 con un mensaje único;
// el motivo concreto solo se registra a nivel debug.
func AuthMiddleware(verifier TokenVerifier, cookieName string, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c, cookieName)
		if err == nil {
			var identity *entity.Identity
			identity, err = verifier.Verify(c.UserContext(), token)
			if err == nil {
				c.Locals(LocalIdentity, identity)
				return c.Next()
			}
		}
		if domain.IsAuthError(err) {
			log.Debug().Err(err).Str("request_id", requestID(c)).Str("path", c.Path()).Msg("sesión rechazada")
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: sessionErrorMessage})
		}
		return writeError(c, log, err)
	}
}

func extractToken(c *fiber.Ctx, cookieName string) (string, error) {
	if tok := strings.TrimSpace(c.Cookies(cookieName)); tok != "" {
		return tok, nil
	}
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return "", domain.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.Join(domain.ErrMalformedToken, errors.New("formato esperado: Bearer <token>"))
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", domain.ErrMissingToken
	}
	return tok, nil
}

// RequireRole autoriza solo a las identidades con alguno de los roles dados. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := GetIdentity(c)
		if identity == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: sessionErrorMessage})
		}
		for _, r := range roles {
			if strings.EqualFold(identity.Role, r) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para este recurso"})
	}
}

// GetIdentity devuelve la identidad autenticada (nil si la ruta no pasó por AuthMiddleware).
func GetIdentity(c *fiber.Ctx) *entity.Identity {
	identity, _ := c.Locals(LocalIdentity).(*entity.Identity)
	return identity
}

// GetUserID devuelve el id del usuario autenticado o 0.
func GetUserID(c *fiber.Ctx) int64 {
	if identity := GetIdentity(c); identity != nil {
		return identity.ID
	}
	return 0
}

// GetRole devuelve el rol del usuario autenticado o "".
func GetRole(c *fiber.Ctx) string {
	if identity := GetIdentity(c); identity != nil {
		return identity.Role
	}
	return ""
}
