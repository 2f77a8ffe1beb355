package usecase

import (
	"context"
	"io"
)

// ObjectStorage almacenamiento de archivos (imágenes de productos). Devuelve la URL pública.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}
