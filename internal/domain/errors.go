package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// La capa HTTP los traduce a códigos de estado con errors.Is.
var (
	// Validación (400)
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrInvalidStatus    = errors.New("estado de orden inválido")
	ErrInvalidDateRange = errors.New("rango de fechas inválido")

	// Autenticación (401). Todas se reportan al cliente con el mismo mensaje.
	ErrMissingToken   = errors.New("token de sesión ausente")
	ErrMalformedToken = errors.New("token de sesión malformado")
	ErrExpiredToken   = errors.New("token de sesión expirado")
	ErrUnauthorized   = errors.New("no autorizado")

	// Autorización (403)
	ErrForbidden = errors.New("acceso denegado")

	// Inexistencia (404)
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrProductNotFound = errors.New("producto no encontrado")

	// Conflicto (409)
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")

	// Dependencia caída (503)
	ErrUnavailable = errors.New("servicio de datos no disponible")
)

// IsAuthError indica si err corresponde a una sesión ausente, inválida o expirada.
// ErrUserNotFound cuenta como error de sesión: el usuario fue eliminado después de emitir el token.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrUserNotFound)
}
