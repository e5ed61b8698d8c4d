// backend/models/rol.go
package models

// Rol es el conjunto cerrado de roles que reconoce la aplicación.
type Rol string

const (
	RolAuditor    Rol = "auditor"
	RolSupervisor Rol = "supervisor"
	RolRevisor    Rol = "revisor"
)

// RolValido indica si el valor recibido corresponde a un rol conocido.
func RolValido(r Rol) bool {
	switch r {
	case RolAuditor, RolSupervisor, RolRevisor:
		return true
	}
	return false
}

// EsAlguno es el único predicado de autorización por rol: devuelve true si
// el rol está dentro del conjunto permitido. Toda comprobación de permisos
// por rol debe pasar por aquí.
func (r Rol) EsAlguno(permitidos ...Rol) bool {
	for _, p := range permitidos {
		if r == p {
			return true
		}
	}
	return false
}
