// backend/main.go
package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vnatale52/gestion-informes/backend/config"
	"github.com/vnatale52/gestion-informes/backend/controllers"
	"github.com/vnatale52/gestion-informes/backend/initializers"
	"github.com/vnatale52/gestion-informes/backend/middleware"
	"github.com/vnatale52/gestion-informes/backend/models"
	"github.com/vnatale52/gestion-informes/backend/websocket"
)

func main() {
	cfg := config.LoadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET no está configurado")
	}

	db, err := initializers.ConectarDB(cfg)
	if err != nil {
		log.Fatalf("No se pudo conectar la base de datos: %v", err)
	}

	log.Println("Iniciando la migración de la base de datos...")
	err = db.AutoMigrate(
		&models.Equipo{},
		&models.Usuario{},
		&models.Informe{},
		&models.Version{},
		&models.RegistroAuditoria{},
	)
	if err != nil {
		log.Fatalf("Falló la migración de la base de datos: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	auth := controllers.NewAuthController(db, cfg)
	informes := controllers.NewInformeController(db, cfg, hub)
	auditoria := controllers.NewAuditoriaController(db)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Bienvenido a la API de Gestión de Auditorías."})
	})

	apiAuth := r.Group("/api/auth")
	{
		apiAuth.POST("/setup", auth.Setup)
		apiAuth.POST("/register", auth.Register)
		apiAuth.POST("/login", auth.Login)
	}

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(db, cfg))
	{
		api.GET("/ws", websocket.ServeWs(hub))

		api.GET("/informes", informes.ObtenerInformes)
		api.POST("/informes", middleware.RequireRol(models.RolAuditor, models.RolSupervisor, models.RolRevisor), informes.CrearInforme)
		api.GET("/informes/:id", informes.ObtenerInformePorID)
		api.POST("/informes/:id/upload", informes.SubirNuevaVersion)
		api.DELETE("/informes/:id", informes.EliminarInforme)

		api.GET("/versiones/:versionId/download", informes.DescargarVersion)

		api.GET("/auditoria", middleware.RequireRol(models.RolSupervisor, models.RolRevisor), auditoria.ObtenerRegistros)
	}

	log.Println("Iniciando el servidor en el puerto " + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("El servidor terminó con error: %v", err)
	}
}
