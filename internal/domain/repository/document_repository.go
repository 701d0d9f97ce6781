package repository

import (
	"context"

	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
)

// DocumentRepository puerto de persistencia de metadatos de documentos.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, userID, id string) (*entity.Document, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Document, error)
	Delete(ctx context.Context, userID, id string) error
}
