package entity

import "time"

// Categorías de documento soportadas.
const (
	DocumentCategoryInvoice     = "invoice"
	DocumentCategoryCertificate = "certificate"
	DocumentCategoryStatement   = "statement"
	DocumentCategoryOther       = "other"
)

// Document metadatos de un archivo subido por el usuario. Los bytes viven en el
// almacenamiento de objetos bajo StorageKey.
type Document struct {
	ID          string
	UserID      string
	Filename    string
	ContentType string
	SizeBytes   int64
	Category    string
	StorageKey  string
	CreatedAt   time.Time
}
