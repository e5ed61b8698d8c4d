// backend/models/informeModel.go
package models

import "time"

// Informe es un documento de auditoría. El título y la descripción quedan
// fijos tras la creación; las revisiones del documento se registran como
// Versiones asociadas.
type Informe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Titulo      string    `gorm:"not null" json:"titulo"`
	Descripcion string    `gorm:"type:text" json:"descripcion"`
	CreadorID   uint      `gorm:"not null;index" json:"creadorId"`
	EquipoID    uint      `gorm:"not null;index" json:"equipoId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Creador   *Usuario  `gorm:"foreignKey:CreadorID" json:"creador,omitempty"`
	Versiones []Version `gorm:"foreignKey:InformeID" json:"versiones,omitempty"`
}
