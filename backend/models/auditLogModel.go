// backend/models/auditLogModel.go
package models

import "time"

// RegistroAuditoria deja constancia de las acciones relevantes sobre los
// informes (creación, subida de versión, eliminación). Cada registro queda
// adscrito al equipo del usuario que actuó: la auditoría respeta la misma
// frontera de equipo que el resto de los datos.
type RegistroAuditoria struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EquipoID      uint      `gorm:"not null;index" json:"equipoId"`
	UsuarioID     uint      `gorm:"index" json:"usuarioId"`
	NombreUsuario string    `json:"nombreUsuario"`
	Accion        string    `gorm:"index" json:"accion"`
	Detalles      string    `gorm:"type:text" json:"detalles"`
	CreatedAt     time.Time `json:"createdAt"`
}
