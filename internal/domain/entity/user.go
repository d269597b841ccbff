package entity

import "time"

// Roles válidos para User.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User representa una cuenta de la tienda (cliente o administrador).
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Phone        string
	Address      string
	Role         string // CUSTOMER, ADMIN
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene rol de administrador.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// Identity es la proyección mínima del usuario autenticado que viaja en el contexto de la petición.
// No incluye el hash de la contraseña.
type Identity struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

// IsAdmin indica si la identidad tiene rol de administrador.
func (i *Identity) IsAdmin() bool { return i != nil && i.Role == RoleAdmin }

// IdentityOf proyecta un User a su Identity.
func IdentityOf(u *User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
