// backend/models/usuarioModel.go
package models

import "time"

type Usuario struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Nombre string `gorm:"not null" json:"nombre"`
	Email  string `gorm:"uniqueIndex;not null" json:"email"`
	// El hash nunca se serializa hacia el cliente.
	PasswordHash string    `gorm:"not null" json:"-"`
	Rol          Rol       `gorm:"type:varchar(20);not null" json:"rol"`
	EquipoID     uint      `gorm:"not null;index" json:"equipoId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Equipo *Equipo `gorm:"foreignKey:EquipoID" json:"equipo,omitempty"`
}
