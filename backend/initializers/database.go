// backend/initializers/database.go
package initializers

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnatale52/gestion-informes/backend/config"
)

// ConectarDB abre la conexión con la base de datos y devuelve el manejador.
// En producción DATABASE_URL apunta a Postgres; sin DSN se usa un archivo
// SQLite local para desarrollo.
func ConectarDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		dialector = postgres.Open(dsn)
	case dsn != "":
		// Se asume un DSN de Postgres aunque no traiga el prefijo de esquema.
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open("auditoria.db")
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Traduce los errores del driver (violación de índice único, etc.)
		// a los errores de gorm, p. ej. gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
}
