// backend/controllers/informeController.go
package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnatale52/gestion-informes/backend/config"
	"github.com/vnatale52/gestion-informes/backend/middleware"
	"github.com/vnatale52/gestion-informes/backend/models"
	"github.com/vnatale52/gestion-informes/backend/services"
	"github.com/vnatale52/gestion-informes/backend/websocket"
)

var errInformeNoEncontrado = errors.New("informe no encontrado o no pertenece a su equipo")

// InformeController agrupa los manejadores de informes y de su historial de
// versiones. El manejador de BD y el hub se inyectan desde main.
type InformeController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Hub *websocket.Hub
}

func NewInformeController(db *gorm.DB, cfg *config.Config, hub *websocket.Hub) *InformeController {
	return &InformeController{DB: db, Cfg: cfg, Hub: hub}
}

// CrearInforme registra un nuevo informe para el equipo del usuario
// autenticado. Los informes nacen sin versiones.
func (ic *InformeController) CrearInforme(c *gin.Context) {
	var body struct {
		Titulo      string `json:"titulo" binding:"required"`
		Descripcion string `json:"descripcion"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "El título del informe es obligatorio."})
		return
	}

	usuario := middleware.UsuarioActual(c)
	informe := models.Informe{
		Titulo:      body.Titulo,
		Descripcion: body.Descripcion,
		CreadorID:   usuario.ID,
		EquipoID:    usuario.EquipoID,
	}

	err := ic.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&informe).Error; err != nil {
			return err
		}
		detalles := fmt.Sprintf("Se creó el informe %d (%s)", informe.ID, informe.Titulo)
		return services.CrearRegistroAuditoria(tx, usuario, "CREAR_INFORME", detalles)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al crear el informe."})
		return
	}

	ic.notificar(usuario.EquipoID, "informe_creado", informe)
	c.JSON(http.StatusCreated, informe)
}

// ObtenerInformes devuelve los informes del equipo del usuario, los más
// recientes primero, con la identidad del creador.
func (ic *InformeController) ObtenerInformes(c *gin.Context) {
	usuario := middleware.UsuarioActual(c)

	var informes []models.Informe
	err := ic.DB.
		Where("equipo_id = ?", usuario.EquipoID).
		Preload("Creador", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "nombre", "rol")
		}).
		Order("created_at DESC").
		Find(&informes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al obtener los informes."})
		return
	}

	c.JSON(http.StatusOK, informes)
}

// ObtenerInformePorID devuelve un informe con su historial de versiones en
// orden descendente. Un informe ajeno al equipo responde el mismo 404 que un
// informe inexistente: no se revela su existencia.
func (ic *InformeController) ObtenerInformePorID(c *gin.Context) {
	usuario := middleware.UsuarioActual(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Informe no encontrado o no pertenece a su equipo."})
		return
	}

	var informe models.Informe
	err = ic.DB.
		Where("id = ? AND equipo_id = ?", id, usuario.EquipoID).
		Preload("Creador", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "nombre")
		}).
		Preload("Versiones", func(db *gorm.DB) *gorm.DB {
			return db.Order("numero_version DESC")
		}).
		Preload("Versiones.Autor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "nombre")
		}).
		First(&informe).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Informe no encontrado o no pertenece a su equipo."})
		return
	}

	c.JSON(http.StatusOK, informe)
}

// SubirNuevaVersion guarda el archivo recibido y crea la versión siguiente
// del informe. Si algo falla después de escribir el archivo en disco, el
// archivo se elimina: ninguna versión fallida deja archivos huérfanos.
func (ic *InformeController) SubirNuevaVersion(c *gin.Context) {
	usuario := middleware.UsuarioActual(c)
	id, idErr := strconv.ParseUint(c.Param("id"), 10, 64)
	comentarios := c.PostForm("comentarios")

	archivo, err := c.FormFile("documento")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No se ha subido ningún archivo."})
		return
	}
	if idErr != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Informe no encontrado o no pertenece a su equipo."})
		return
	}

	pathArchivo, err := services.GuardarArchivoInforme(archivo, ic.Cfg.UploadDir, strconv.FormatUint(id, 10))
	if err != nil {
		if errors.Is(err, services.ErrFormatoInvalido) || errors.Is(err, services.ErrArchivoMuyGrande) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al subir la nueva versión."})
		return
	}

	var version models.Version
	err = ic.DB.Transaction(func(tx *gorm.DB) error {
		// El número de versión se asigna con la fila del informe bloqueada,
		// de modo que dos subidas concurrentes al mismo informe no puedan
		// leer el mismo máximo. SQLite serializa los escritores por sí solo.
		consulta := tx
		if tx.Dialector.Name() == "postgres" {
			consulta = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var informe models.Informe
		if err := consulta.Where("id = ? AND equipo_id = ?", id, usuario.EquipoID).First(&informe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errInformeNoEncontrado
			}
			return err
		}

		var ultimoNumero int
		if err := tx.Model(&models.Version{}).
			Where("informe_id = ?", informe.ID).
			Select("COALESCE(MAX(numero_version), 0)").
			Scan(&ultimoNumero).Error; err != nil {
			return err
		}

		version = models.Version{
			InformeID:     informe.ID,
			UsuarioID:     usuario.ID,
			NumeroVersion: ultimoNumero + 1,
			NombreArchivo: archivo.Filename,
			PathArchivo:   pathArchivo,
			Comentarios:   comentarios,
		}
		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		detalles := fmt.Sprintf("Se subió la versión %d del informe %d (%s)", version.NumeroVersion, informe.ID, archivo.Filename)
		return services.CrearRegistroAuditoria(tx, usuario, "SUBIR_VERSION", detalles)
	})
	if err != nil {
		// El archivo ya quedó en disco: se borra para no dejar basura,
		// sea cual sea el motivo del fallo.
		if limpiezaErr := services.EliminarArchivo(pathArchivo); limpiezaErr != nil {
			log.Printf("AVISO: no se pudo eliminar el archivo %s tras el fallo: %v", pathArchivo, limpiezaErr)
		}
		if errors.Is(err, errInformeNoEncontrado) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Informe no encontrado o no pertenece a su equipo."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al subir la nueva versión."})
		return
	}

	ic.notificar(usuario.EquipoID, "version_subida", version)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Nueva versión subida con éxito.",
		"version": version,
	})
}

// DescargarVersion envía el archivo físico de una versión con su nombre
// original. La versión de otro equipo responde 403; el archivo desaparecido
// del disco responde un 404 con mensaje propio, distinto del de versión
// desconocida.
func (ic *InformeController) DescargarVersion(c *gin.Context) {
	usuario := middleware.UsuarioActual(c)
	versionID, err := strconv.ParseUint(c.Param("versionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Versión no encontrada."})
		return
	}

	var version models.Version
	if err := ic.DB.Preload("Informe").First(&version, versionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Versión no encontrada."})
		return
	}
	if version.Informe == nil || version.Informe.EquipoID != usuario.EquipoID {
		c.JSON(http.StatusForbidden, gin.H{"message": "No tiene permiso para descargar este archivo."})
		return
	}
	if _, err := os.Stat(version.PathArchivo); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "El archivo físico no se encuentra en el servidor. Puede haber sido eliminado."})
		return
	}

	c.FileAttachment(version.PathArchivo, version.NombreArchivo)
}

// EliminarInforme borra el informe, todas sus versiones y todos sus archivos
// físicos. Solo el creador original o los roles supervisor/revisor pueden
// hacerlo. El borrado de archivos es de mejor esfuerzo: un archivo que ya no
// existe no impide eliminar los registros.
func (ic *InformeController) EliminarInforme(c *gin.Context) {
	usuario := middleware.UsuarioActual(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Informe no encontrado o no pertenece a su equipo."})
		return
	}

	var informe models.Informe
	err = ic.DB.
		Where("id = ? AND equipo_id = ?", id, usuario.EquipoID).
		Preload("Versiones").
		First(&informe).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Informe no encontrado o no pertenece a su equipo."})
		return
	}

	esCreador := informe.CreadorID == usuario.ID
	if !esCreador && !usuario.Rol.EsAlguno(models.RolSupervisor, models.RolRevisor) {
		c.JSON(http.StatusForbidden, gin.H{"message": "No tiene permisos para eliminar este informe."})
		return
	}

	for _, version := range informe.Versiones {
		if err := services.EliminarArchivo(version.PathArchivo); err != nil {
			log.Printf("AVISO: no se pudo eliminar el archivo %s: %v", version.PathArchivo, err)
		}
	}

	// Las versiones se eliminan antes que el informe: nunca puede quedar una
	// versión apuntando a un informe inexistente.
	err = ic.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("informe_id = ?", informe.ID).Delete(&models.Version{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&informe).Error; err != nil {
			return err
		}
		detalles := fmt.Sprintf("Se eliminó el informe %d (%s) con %d versiones", informe.ID, informe.Titulo, len(informe.Versiones))
		return services.CrearRegistroAuditoria(tx, usuario, "ELIMINAR_INFORME", detalles)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error al eliminar el informe."})
		return
	}

	ic.notificar(usuario.EquipoID, "informe_eliminado", gin.H{"id": informe.ID})
	c.JSON(http.StatusOK, gin.H{"message": "Informe y todas sus versiones eliminados con éxito."})
}

func (ic *InformeController) notificar(equipoID uint, tipo string, data interface{}) {
	if ic.Hub != nil {
		ic.Hub.NotificarEquipo(equipoID, tipo, data)
	}
}
