// backend/controllers/controllers_test.go
package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnatale52/gestion-informes/backend/config"
	"github.com/vnatale52/gestion-informes/backend/middleware"
	"github.com/vnatale52/gestion-informes/backend/models"
	"github.com/vnatale52/gestion-informes/backend/services"
)

const passwordPrueba = "pw123456"

// entornoPrueba levanta la aplicación completa contra una base SQLite y un
// directorio de subidas temporales, con el mismo cableado de rutas que main.
type entornoPrueba struct {
	Router *gin.Engine
	DB     *gorm.DB
	Cfg    *config.Config
}

func nuevoEntorno(t *testing.T) *entornoPrueba {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("no se pudo abrir la base de datos de prueba: %v", err)
	}
	err = db.AutoMigrate(
		&models.Equipo{},
		&models.Usuario{},
		&models.Informe{},
		&models.Version{},
		&models.RegistroAuditoria{},
	)
	if err != nil {
		t.Fatalf("no se pudo migrar: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "secreto-de-prueba",
		Port:      "3000",
		UploadDir: t.TempDir(),
	}

	auth := NewAuthController(db, cfg)
	informes := NewInformeController(db, cfg, nil)
	auditoria := NewAuditoriaController(db)

	r := gin.New()
	apiAuth := r.Group("/api/auth")
	apiAuth.POST("/setup", auth.Setup)
	apiAuth.POST("/register", auth.Register)
	apiAuth.POST("/login", auth.Login)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(db, cfg))
	api.GET("/informes", informes.ObtenerInformes)
	api.POST("/informes", middleware.RequireRol(models.RolAuditor, models.RolSupervisor, models.RolRevisor), informes.CrearInforme)
	api.GET("/informes/:id", informes.ObtenerInformePorID)
	api.POST("/informes/:id/upload", informes.SubirNuevaVersion)
	api.DELETE("/informes/:id", informes.EliminarInforme)
	api.GET("/versiones/:versionId/download", informes.DescargarVersion)
	api.GET("/auditoria", middleware.RequireRol(models.RolSupervisor, models.RolRevisor), auditoria.ObtenerRegistros)

	return &entornoPrueba{Router: r, DB: db, Cfg: cfg}
}

func (e *entornoPrueba) crearEquipo(t *testing.T, nombre string) models.Equipo {
	t.Helper()
	equipo := models.Equipo{Nombre: nombre}
	if err := e.DB.Create(&equipo).Error; err != nil {
		t.Fatalf("no se pudo crear el equipo: %v", err)
	}
	return equipo
}

func (e *entornoPrueba) crearUsuario(t *testing.T, nombre, email string, rol models.Rol, equipoID uint) models.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(passwordPrueba), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	usuario := models.Usuario{
		Nombre: nombre, Email: email, PasswordHash: string(hash),
		Rol: rol, EquipoID: equipoID,
	}
	if err := e.DB.Create(&usuario).Error; err != nil {
		t.Fatalf("no se pudo crear el usuario: %v", err)
	}
	return usuario
}

func (e *entornoPrueba) tokenPara(t *testing.T, usuario models.Usuario) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      usuario.ID,
		"rol":      string(usuario.Rol),
		"equipoId": usuario.EquipoID,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(e.Cfg.JWTSecret))
	if err != nil {
		t.Fatalf("no se pudo firmar el token: %v", err)
	}
	return token
}

func (e *entornoPrueba) peticionJSON(t *testing.T, metodo, ruta, token string, cuerpo interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var lector io.Reader
	if cuerpo != nil {
		datos, err := json.Marshal(cuerpo)
		if err != nil {
			t.Fatal(err)
		}
		lector = bytes.NewReader(datos)
	}
	req := httptest.NewRequest(metodo, ruta, lector)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// peticionSubida envía un multipart con el campo "documento" (y comentarios
// opcionales) a la ruta de subida del informe indicado.
func (e *entornoPrueba) peticionSubida(t *testing.T, informeID, token, nombreArchivo, contenido, contentType, comentarios string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="documento"; filename="`+nombreArchivo+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(contenido)); err != nil {
		t.Fatal(err)
	}
	if comentarios != "" {
		if err := w.WriteField("comentarios", comentarios); err != nil {
			t.Fatal(err)
		}
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/informes/"+informeID+"/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

func decodificar(t *testing.T, w *httptest.ResponseRecorder, destino interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), destino); err != nil {
		t.Fatalf("no se pudo decodificar la respuesta %q: %v", w.Body.String(), err)
	}
}

// subidaDocx sube un .docx válido y devuelve la versión creada.
func (e *entornoPrueba) subidaDocx(t *testing.T, informeID, token, nombreArchivo string) models.Version {
	t.Helper()
	w := e.peticionSubida(t, informeID, token, nombreArchivo, "contenido de "+nombreArchivo, services.MimeTipoDocx, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("la subida devolvió %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Version models.Version `json:"version"`
	}
	decodificar(t, w, &resp)
	return resp.Version
}
