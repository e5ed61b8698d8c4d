// backend/controllers/auditoriaController.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnatale52/gestion-informes/backend/middleware"
	"github.com/vnatale52/gestion-informes/backend/models"
)

// AuditoriaController expone la consulta del registro de auditoría.
type AuditoriaController struct {
	DB *gorm.DB
}

func NewAuditoriaController(db *gorm.DB) *AuditoriaController {
	return &AuditoriaController{DB: db}
}

// ObtenerRegistros lista los registros de auditoría del equipo del usuario,
// filtrables por usuario, acción y rango de fechas. Reservado a supervisores
// y revisores; la actividad de otros equipos nunca es visible.
func (alc *AuditoriaController) ObtenerRegistros(c *gin.Context) {
	usuario := middleware.UsuarioActual(c)
	nombreUsuario := c.Query("usuario")
	accion := c.Query("accion")
	fechaInicio := c.Query("fechaInicio")
	fechaFin := c.Query("fechaFin")

	query := alc.DB.Where("equipo_id = ?", usuario.EquipoID).Order("created_at DESC")

	if nombreUsuario != "" {
		query = query.Where("LOWER(nombre_usuario) LIKE LOWER(?)", "%"+nombreUsuario+"%")
	}
	if accion != "" {
		query = query.Where("accion = ?", accion)
	}
	if fechaInicio != "" && fechaFin != "" {
		query = query.Where("created_at BETWEEN ? AND ?", fechaInicio, fechaFin+" 23:59:59")
	}

	var registros []models.RegistroAuditoria
	if err := query.Find(&registros).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener los registros de auditoría."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": registros})
}
