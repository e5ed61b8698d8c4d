// backend/services/storageService.go
package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MimeTipoDocx es el único tipo de contenido aceptado para las versiones.
const MimeTipoDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// TamanoMaximoArchivo limita las subidas a 10MB.
const TamanoMaximoArchivo = 10 * 1024 * 1024

var (
	ErrFormatoInvalido  = errors.New("Formato de archivo no válido. Solo se aceptan archivos .docx")
	ErrArchivoMuyGrande = errors.New("El archivo supera el tamaño máximo permitido de 10MB.")
)

// GuardarArchivoInforme valida el archivo recibido y lo persiste en el
// directorio de subidas bajo un nombre único (informe-<id>-<uuid><ext>).
// Devuelve la ruta donde quedó guardado. Si la copia falla a medias, el
// archivo parcial se elimina antes de devolver el error.
func GuardarArchivoInforme(archivo *multipart.FileHeader, dirSubidas string, informeID string) (string, error) {
	if archivo.Size > TamanoMaximoArchivo {
		return "", ErrArchivoMuyGrande
	}
	if archivo.Header.Get("Content-Type") != MimeTipoDocx {
		return "", ErrFormatoInvalido
	}

	if err := os.MkdirAll(dirSubidas, 0o755); err != nil {
		return "", fmt.Errorf("no se pudo crear el directorio de subidas: %w", err)
	}

	nombre := fmt.Sprintf("informe-%s-%s%s", informeID, uuid.NewString(), filepath.Ext(archivo.Filename))
	destino := filepath.Join(dirSubidas, nombre)

	origen, err := archivo.Open()
	if err != nil {
		return "", fmt.Errorf("no se pudo abrir el archivo subido: %w", err)
	}
	defer origen.Close()

	salida, err := os.Create(destino)
	if err != nil {
		return "", fmt.Errorf("no se pudo crear el archivo en disco: %w", err)
	}

	if _, err := io.Copy(salida, origen); err != nil {
		salida.Close()
		os.Remove(destino)
		return "", fmt.Errorf("no se pudo escribir el archivo en disco: %w", err)
	}
	if err := salida.Close(); err != nil {
		os.Remove(destino)
		return "", fmt.Errorf("no se pudo cerrar el archivo en disco: %w", err)
	}

	return destino, nil
}

// EliminarArchivo borra un archivo físico. Que el archivo ya no exista no se
// considera un error: la limpieza es de mejor esfuerzo.
func EliminarArchivo(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
