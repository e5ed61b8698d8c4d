// backend/models/versionModel.go
package models

import "time"

// Version es una revisión subida de un informe. NumeroVersion es correlativo
// dentro del informe empezando en 1; no es único a nivel global.
type Version struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	InformeID     uint      `gorm:"not null;index" json:"informeId"`
	UsuarioID     uint      `gorm:"not null" json:"usuarioId"`
	NumeroVersion int       `gorm:"not null" json:"numeroVersion"`
	NombreArchivo string    `gorm:"not null" json:"nombreArchivo"`
	PathArchivo   string    `gorm:"not null" json:"pathArchivo"`
	Comentarios   string    `gorm:"type:text" json:"comentarios"`
	CreatedAt     time.Time `json:"createdAt"`

	Informe *Informe `gorm:"foreignKey:InformeID" json:"-"`
	Autor   *Usuario `gorm:"foreignKey:UsuarioID" json:"autorVersion,omitempty"`
}
