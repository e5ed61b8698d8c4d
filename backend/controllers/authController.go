// backend/controllers/authController.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnatale52/gestion-informes/backend/config"
	"github.com/vnatale52/gestion-informes/backend/models"
)

// AuthController agrupa los manejadores de registro e inicio de sesión.
type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

// Register crea un usuario bajo un equipo existente.
func (ac *AuthController) Register(c *gin.Context) {
	var body struct {
		Nombre   string     `json:"nombre" binding:"required"`
		Email    string     `json:"email" binding:"required,email"`
		Password string     `json:"password" binding:"required"`
		Rol      models.Rol `json:"rol" binding:"required"`
		EquipoID uint       `json:"equipoId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Todos los campos son obligatorios."})
		return
	}
	if !models.RolValido(body.Rol) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "El rol debe ser auditor, supervisor o revisor."})
		return
	}

	var equipo models.Equipo
	if err := ac.DB.First(&equipo, body.EquipoID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "El equipo especificado no existe."})
		return
	}

	// La contraseña se hashea exactamente una vez, antes de la primera
	// persistencia. Nunca se vuelve a hashear un valor ya hasheado.
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error en el servidor al registrar el usuario."})
		return
	}

	usuario := models.Usuario{
		Nombre:       body.Nombre,
		Email:        body.Email,
		PasswordHash: string(hash),
		Rol:          body.Rol,
		EquipoID:     equipo.ID,
	}
	// La unicidad del email la garantiza el índice único: dos registros
	// simultáneos del mismo correo se resuelven en la base, no con una
	// consulta previa.
	if err := ac.DB.Create(&usuario).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "El correo electrónico ya está registrado."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error en el servidor al registrar el usuario."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuario registrado exitosamente.",
		"usuario": usuario,
	})
}

// Login verifica las credenciales y emite un token firmado con vencimiento
// de una hora. El mensaje de error es idéntico para email desconocido y
// contraseña incorrecta, para no filtrar qué cuentas existen.
func (ac *AuthController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "El email y la contraseña son obligatorios."})
		return
	}

	var usuario models.Usuario
	if err := ac.DB.Where("email = ?", body.Email).First(&usuario).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Credenciales inválidas."})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Credenciales inválidas."})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      usuario.ID,
		"rol":      string(usuario.Rol),
		"equipoId": usuario.EquipoID,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(ac.Cfg.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error en el servidor al iniciar sesión."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inicio de sesión exitoso.",
		"token":   tokenString,
	})
}

// Setup es la ruta de arranque inicial: crea el primer equipo y su primer
// usuario supervisor. Se rechaza si ya existe algún equipo.
func (ac *AuthController) Setup(c *gin.Context) {
	var body struct {
		NombreEquipo string `json:"nombreEquipo"`
		Nombre       string `json:"nombre"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "El email y la contraseña son obligatorios."})
		return
	}
	if body.NombreEquipo == "" {
		body.NombreEquipo = "Equipo Principal"
	}
	if body.Nombre == "" {
		body.Nombre = "Admin Supervisor"
	}

	var existente models.Equipo
	err := ac.DB.First(&existente).Error
	if err == nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "La configuración inicial ya fue completada."})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error durante la configuración inicial."})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error durante la configuración inicial."})
		return
	}

	var equipo models.Equipo
	var usuario models.Usuario
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		equipo = models.Equipo{Nombre: body.NombreEquipo}
		if err := tx.Create(&equipo).Error; err != nil {
			return err
		}
		usuario = models.Usuario{
			Nombre:       body.Nombre,
			Email:        body.Email,
			PasswordHash: string(hash),
			Rol:          models.RolSupervisor,
			EquipoID:     equipo.ID,
		}
		return tx.Create(&usuario).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error durante la configuración inicial."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Configuración inicial completada. Equipo y usuario administrador creados.",
		"equipo":  equipo,
		"usuario": usuario,
	})
}
