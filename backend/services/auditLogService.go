// backend/services/auditLogService.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vnatale52/gestion-informes/backend/models"
)

// CrearRegistroAuditoria crea un registro de auditoría dentro de la
// transacción del llamador, de modo que el registro forme parte de la misma
// operación atómica que la acción principal sobre el informe.
func CrearRegistroAuditoria(tx *gorm.DB, usuario models.Usuario, accion string, detalles string) error {
	registro := models.RegistroAuditoria{
		EquipoID:      usuario.EquipoID,
		UsuarioID:     usuario.ID,
		NombreUsuario: usuario.Nombre,
		Accion:        accion,
		Detalles:      detalles,
	}

	if err := tx.Create(&registro).Error; err != nil {
		return fmt.Errorf("no se pudo crear el registro de auditoría: %w", err)
	}

	return nil
}
