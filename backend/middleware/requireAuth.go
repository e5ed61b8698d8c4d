// backend/middleware/requireAuth.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/vnatale52/gestion-informes/backend/config"
	"github.com/vnatale52/gestion-informes/backend/models"
)

// ContextoUsuario es la clave bajo la que RequireAuth deja el usuario
// autenticado en el contexto de gin.
const ContextoUsuario = "usuario"

// RequireAuth valida el token Bearer y recarga siempre el usuario desde la
// base de datos. La autorización posterior confía en el registro vivo de la
// BD (rol y equipo actuales), nunca en los claims del token: un cambio de
// rol surte efecto en la siguiente petición aunque el token no haya expirado.
func RequireAuth(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado, no se proporcionó un token."})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inesperado: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado, token inválido."})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado, token inválido."})
			return
		}
		if exp, ok := claims["exp"].(float64); !ok || float64(time.Now().Unix()) > exp {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado, el token ha expirado."})
			return
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado, token inválido."})
			return
		}

		// Si el usuario ya no existe en la BD (p. ej. fue eliminado), se
		// deniega el acceso aunque el token siga siendo criptográficamente
		// válido. El hash de la contraseña nunca viaja en el contexto.
		var usuario models.Usuario
		if err := db.Omit("password_hash").First(&usuario, uint(sub)).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado, token inválido (el usuario no existe)."})
			return
		}

		c.Set(ContextoUsuario, usuario)
		c.Next()
	}
}

// RequireRol autoriza por rol contra el registro cargado por RequireAuth.
// Debe ejecutarse siempre después de RequireAuth.
func RequireRol(roles ...models.Rol) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ContextoUsuario)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Usuario no encontrado en el contexto."})
			return
		}

		usuario := v.(models.Usuario)
		if !usuario.Rol.EsAlguno(roles...) {
			nombres := make([]string, len(roles))
			for i, r := range roles {
				nombres[i] = string(r)
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": fmt.Sprintf("Acceso denegado. Se requiere uno de los siguientes roles: %s", strings.Join(nombres, ", ")),
			})
			return
		}
		c.Next()
	}
}

// UsuarioActual devuelve el usuario autenticado que RequireAuth dejó en el
// contexto de la petición.
func UsuarioActual(c *gin.Context) models.Usuario {
	v, _ := c.Get(ContextoUsuario)
	usuario, _ := v.(models.Usuario)
	return usuario
}
