// backend/models/equipoModel.go
package models

import "time"

// Equipo es la frontera de pertenencia: todos los usuarios e informes
// pertenecen exactamente a un equipo.
type Equipo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nombre    string    `gorm:"uniqueIndex;not null" json:"nombre"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
