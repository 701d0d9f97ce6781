package ports

import (
	"context"
	"io"
)

// DocumentStorage almacenamiento de objetos para los archivos de los usuarios.
// Las claves son opacas para el adaptador; la aplicación define su forma.
type DocumentStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// Get devuelve el contenido; el caller cierra el ReadCloser.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
