package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pluckd-api/internal/application/auth"
	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/pkg/config"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

// AuthHandler maneja registro, login, logout y la identidad actual.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	cookie config.SessionConfig
	log    *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookie config.SessionConfig, log *logger.Logger) *AuthHandler {
	if cookie.CookieName == "" {
		cookie.CookieName = "token"
	}
	return &AuthHandler{uc: uc, cookie: cookie, log: log}
}

// Register godoc
// @Summary      Registrar cliente
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "name, email, password, phone, address"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Emite el token de sesión en una cookie HTTP-only.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Cookie(h.sessionCookie(out.Token, out.ExpiresAt))
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Borra la cookie de sesión. El token sigue siendo válido hasta su expiración.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.Cookie(cookie)
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}

// Me godoc
// @Summary      Identidad actual
// @Tags         auth
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.IdentityResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	return c.JSON(dto.IdentityResponse{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  identity.Role,
	})
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	sameSite := h.cookie.SameSite
	if sameSite == "" {
		sameSite = fiber.CookieSameSiteLaxMode
	}
	return &fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  expires,
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: sameSite,
	}
}
